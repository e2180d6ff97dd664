package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/zombor/billed/internal/bill"
)

// ErrNotFound is returned when a bill does not exist
var ErrNotFound = errors.New("bill not found")

// Store is the remote persistence layer for bills
type Store interface {
	// ListBills returns every bill visible to the current user
	ListBills(ctx context.Context) ([]*bill.Bill, error)

	// UploadReceipt stores a receipt file on behalf of email
	UploadReceipt(ctx context.Context, file bill.File, email string) (*bill.UploadResult, error)

	// UpdateBill creates the bill when it has no ID and updates it otherwise
	UpdateBill(ctx context.Context, b *bill.Bill) (*bill.Bill, error)
}

// ReceiptSource is implemented by stores that can serve receipt files themselves
type ReceiptSource interface {
	Receipt(id string) (bill.File, bool)
}

// StatusError is returned when the bill API answers with a non-2xx status
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Erreur %d", e.Code)
}

package scanning

import "context"

// ReceiptData holds the bill fields read off a receipt image
type ReceiptData struct {
	Name   string  `json:"name"`
	Date   string  `json:"date"` // YYYY-MM-DD, empty when unreadable
	Amount float64 `json:"amount"`
	VAT    float64 `json:"vat"`
}

// Scanner reads bill fields from a receipt image
type Scanner interface {
	// ScanReceipt analyzes a JPEG or PNG receipt
	ScanReceipt(ctx context.Context, imageData []byte, contentType string) (*ReceiptData, error)
	// Close releases the scanner's resources
	Close() error
}

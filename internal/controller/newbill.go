package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/zombor/billed/internal/bill"
	"github.com/zombor/billed/internal/identity"
	"github.com/zombor/billed/internal/scanning"
	"github.com/zombor/billed/internal/store"
)

// defaultPct applies when the form leaves the percentage empty
const defaultPct = 20

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidPct    = errors.New("invalid pct")
)

// Form is the text content of the new bill form
type Form struct {
	Type       string
	Name       string
	Date       string
	Amount     string
	VAT        string
	Pct        string
	Commentary string
}

// NewBillController drives the new bill workflow: upload a receipt, then submit the form.
// FileName, BillID and FileURL stay nil until a receipt upload succeeds.
type NewBillController struct {
	FileName   *string
	BillID     *string
	FileURL    *string
	Suggestion *scanning.ReceiptData

	store    store.Store
	identity identity.KeyValue
	navigate Navigator
	scanner  scanning.Scanner
}

// NewNewBillController creates a controller with no receipt attached
func NewNewBillController(st store.Store, kv identity.KeyValue, navigate Navigator) *NewBillController {
	return &NewBillController{
		store:    st,
		identity: kv,
		navigate: navigate,
	}
}

// WithScanner enables field suggestions read from uploaded receipts
func (c *NewBillController) WithScanner(scanner scanning.Scanner) *NewBillController {
	c.scanner = scanner
	return c
}

// RestoreReceipt reattaches a receipt uploaded by an earlier request. It is
// ignored unless all three values are set.
func (c *NewBillController) RestoreReceipt(billID, fileURL, fileName string) {
	if billID == "" || fileURL == "" || fileName == "" {
		return
	}
	c.BillID = &billID
	c.FileURL = &fileURL
	c.FileName = &fileName
}

// OnFileSelected uploads an accepted receipt and remembers where it was stored.
// Files that are not jpg, jpeg or png are ignored without touching the identity
// store or the bill store.
func (c *NewBillController) OnFileSelected(ctx context.Context, file bill.File) error {
	if !bill.IsAcceptedExtension(file.Name) {
		slog.Debug("Ignoring receipt with unsupported extension", "filename", file.Name)
		return nil
	}

	user, err := identity.CurrentUser(c.identity)
	if err != nil {
		return fmt.Errorf("reading current user: %w", err)
	}

	result, err := c.store.UploadReceipt(ctx, file, user.Email)
	if err != nil {
		return fmt.Errorf("uploading receipt: %w", err)
	}

	name := file.Name
	c.FileName = &name
	c.BillID = &result.ID
	c.FileURL = &result.FileURL

	if c.scanner != nil {
		data, err := c.scanner.ScanReceipt(ctx, file.Data, file.ContentType)
		if err != nil {
			slog.Warn("Failed to scan receipt", "filename", file.Name, "error", err)
		} else {
			c.Suggestion = data
		}
	}

	return nil
}

// OnSubmit sends the completed bill and goes back to the bill list
func (c *NewBillController) OnSubmit(ctx context.Context, form Form) error {
	b, err := c.buildBill(form)
	if err != nil {
		return err
	}

	if _, err := c.store.UpdateBill(ctx, b); err != nil {
		return fmt.Errorf("updating bill: %w", err)
	}

	c.navigate.to(RouteBills)
	return nil
}

func (c *NewBillController) buildBill(form Form) (*bill.Bill, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(form.Amount), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, form.Amount)
	}

	pct := defaultPct
	if p := strings.TrimSpace(form.Pct); p != "" {
		pct, err = strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPct, form.Pct)
		}
	}

	user, err := identity.CurrentUser(c.identity)
	if err != nil {
		return nil, fmt.Errorf("reading current user: %w", err)
	}

	b := &bill.Bill{
		Email:      user.Email,
		Type:       form.Type,
		Name:       form.Name,
		Amount:     amount,
		Date:       form.Date,
		VAT:        form.VAT,
		Pct:        pct,
		Commentary: form.Commentary,
		FileName:   bill.NoFileName,
		Status:     bill.StatusPending,
	}
	if c.BillID != nil {
		b.ID = *c.BillID
	}
	if c.FileName != nil && c.FileURL != nil {
		b.FileName = *c.FileName
		b.FileURL = *c.FileURL
	}
	return b, nil
}

package controller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zombor/billed/internal/bill"
	"github.com/zombor/billed/internal/store"
)

// Page is what the bill list view renders: either bills, or an error message
type Page struct {
	Bills []*bill.Bill
	Err   string
}

// Preview is the receipt shown when a bill's eye icon is clicked
type Preview struct {
	URL      string
	FileName string
}

// BillsController drives the bill list page
type BillsController struct {
	store    store.Store
	navigate Navigator
}

// NewBillsController creates a BillsController. A nil store yields an empty list.
func NewBillsController(st store.Store, navigate Navigator) *BillsController {
	return &BillsController{
		store:    st,
		navigate: navigate,
	}
}

// OnActivate loads the bills, most recent first. A store failure is reported
// in Page.Err and not retried.
func (c *BillsController) OnActivate(ctx context.Context) Page {
	if c.store == nil {
		return Page{Bills: []*bill.Bill{}}
	}

	bills, err := c.store.ListBills(ctx)
	if err != nil {
		slog.Error("Error listing bills", "error", err)
		return Page{Err: err.Error()}
	}

	bill.SortByDateDescending(bills)
	return Page{Bills: bills}
}

// OnReceiptActionClicked returns the receipt preview for b
func (c *BillsController) OnReceiptActionClicked(b *bill.Bill) Preview {
	return Preview{URL: b.FileURL, FileName: b.FileName}
}

// OnNewBillClicked navigates to the new bill form
func (c *BillsController) OnNewBillClicked() {
	c.navigate.to(RouteNewBill)
}

// Find returns the bill with the given id
func (c *BillsController) Find(ctx context.Context, id string) (*bill.Bill, error) {
	if c.store == nil {
		return nil, store.ErrNotFound
	}

	bills, err := c.store.ListBills(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing bills: %w", err)
	}
	for _, b := range bills {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, store.ErrNotFound
}

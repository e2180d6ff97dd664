package store

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/zombor/billed/internal/bill"
)

// MemoryStore is an in-process Store used by tests and demo mode
type MemoryStore struct {
	// ListErr, UploadErr and UpdateErr make the matching call fail when set
	ListErr   error
	UploadErr error
	UpdateErr error

	mu          sync.Mutex
	baseURL     string
	bills       map[string]*bill.Bill
	order       []string
	receipts    map[string]bill.File
	listCalls   int
	uploadCalls int
	updateCalls int
}

// NewMemoryStore creates an empty MemoryStore. Receipt URLs are built from baseURL.
func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		baseURL:  strings.TrimRight(baseURL, "/"),
		bills:    make(map[string]*bill.Bill),
		receipts: make(map[string]bill.File),
	}
}

// Seed adds bills as they are, assigning IDs to those without one
func (m *MemoryStore) Seed(bills ...*bill.Bill) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range bills {
		c := *b
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		m.put(&c)
	}
}

// ListBills returns copies of all stored bills in insertion order
func (m *MemoryStore) ListBills(ctx context.Context) ([]*bill.Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.ListErr != nil {
		return nil, m.ListErr
	}

	bills := make([]*bill.Bill, 0, len(m.order))
	for _, id := range m.order {
		c := *m.bills[id]
		bills = append(bills, &c)
	}
	return bills, nil
}

// UploadReceipt keeps the file and registers a pending bill for it
func (m *MemoryStore) UploadReceipt(ctx context.Context, file bill.File, email string) (*bill.UploadResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploadCalls++
	if m.UploadErr != nil {
		return nil, m.UploadErr
	}

	id := uuid.NewString()
	fileURL := m.baseURL + "/receipts/" + id
	m.receipts[id] = file
	m.put(&bill.Bill{
		ID:       id,
		Email:    email,
		FileName: file.Name,
		FileURL:  fileURL,
		Status:   bill.StatusPending,
	})

	return &bill.UploadResult{ID: id, FileURL: fileURL, Key: id}, nil
}

// UpdateBill creates the bill when it has no ID, replaces it otherwise
func (m *MemoryStore) UpdateBill(ctx context.Context, b *bill.Bill) (*bill.Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}

	c := *b
	if c.ID == "" {
		c.ID = uuid.NewString()
	} else if _, ok := m.bills[c.ID]; !ok {
		return nil, ErrNotFound
	}
	m.put(&c)

	saved := c
	return &saved, nil
}

// Receipt returns an uploaded receipt file
func (m *MemoryStore) Receipt(id string) (bill.File, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.receipts[id]
	return f, ok
}

// Calls reports how many times each Store operation was invoked
func (m *MemoryStore) Calls() (list, upload, update int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls, m.uploadCalls, m.updateCalls
}

// put stores b, keeping first-insertion order; callers hold mu
func (m *MemoryStore) put(b *bill.Bill) {
	if _, ok := m.bills[b.ID]; !ok {
		m.order = append(m.order, b.ID)
	}
	m.bills[b.ID] = b
}

package bill

// Status is the review state of a bill
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRefused  Status = "refused"
)

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRefused:
		return true
	}
	return false
}

// NoFileName is the FileName value of a bill submitted without a receipt
const NoFileName = "null"

// Bill represents one submitted expense report
type Bill struct {
	ID         string  `json:"id,omitempty"`
	Email      string  `json:"email,omitempty"`
	Type       string  `json:"type"`
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	Date       string  `json:"date"` // YYYY-MM-DD
	VAT        string  `json:"vat,omitempty"`
	Pct        int     `json:"pct"`
	Commentary string  `json:"commentary,omitempty"`
	FileName   string  `json:"fileName"`
	FileURL    string  `json:"fileUrl,omitempty"`
	Status     Status  `json:"status"`
}

// HasReceipt reports whether a receipt file is attached to the bill
func (b *Bill) HasReceipt() bool {
	return b.FileName != "" && b.FileName != NoFileName
}

// UploadResult is returned by the store after a receipt upload
type UploadResult struct {
	ID      string `json:"id,omitempty"`
	FileURL string `json:"fileUrl"`
	Key     string `json:"key"`
}

// File is a receipt selected for upload
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

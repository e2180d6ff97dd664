// Package views renders the bill list, new bill form and receipt preview pages.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"github.com/zombor/billed/internal/bill"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static/app.css
var AppCSS []byte

// ExpenseTypes are the categories offered on the new bill form
var ExpenseTypes = []string{
	"Transports",
	"Restaurants et bars",
	"Hôtel et logement",
	"Services en ligne",
	"IT et électronique",
	"Equipement et matériel",
	"Fournitures de bureau",
}

var statusLabels = map[bill.Status]string{
	bill.StatusPending:  "En attente",
	bill.StatusAccepted: "Accepté",
	bill.StatusRefused:  "Refusé",
}

var actionTmpl = template.Must(template.ParseFS(templatesFS, "templates/action.html"))

var funcs = template.FuncMap{
	"action": Action,
	"amount": func(a float64) string {
		return strconv.FormatFloat(a, 'f', -1, 64)
	},
	"status": func(s bill.Status) string {
		if label, ok := statusLabels[s]; ok {
			return label
		}
		return string(s)
	},
	"types": func() []string { return ExpenseTypes },
}

var (
	billsTmpl   = page("bills.html")
	newBillTmpl = page("newbill.html")
	previewTmpl = page("preview.html")
	loginTmpl   = page("login.html")
	errorTmpl   = page("error.html")
)

func page(name string) *template.Template {
	return template.Must(template.New(name).Funcs(funcs).ParseFS(templatesFS,
		"templates/layout.html",
		"templates/"+name,
	))
}

// BillsData is the bill list page. Err replaces the list when set.
type BillsData struct {
	Active string
	Bills  []*bill.Bill
	Err    string
}

// NewBillData is the new bill form, optionally prefilled. BillID, FileURL and
// FileName describe a receipt that is already uploaded.
type NewBillData struct {
	Active     string
	Type       string
	Name       string
	Date       string
	Amount     string
	VAT        string
	Pct        string
	Commentary string
	BillID     string
	FileURL    string
	FileName   string
	Err        string
}

// PreviewData is a receipt preview
type PreviewData struct {
	Active   string
	URL      string
	FileName string
}

// LoginData is the employee login form
type LoginData struct {
	Active string
	Err    string
}

// ErrorData is a standalone error page
type ErrorData struct {
	Active  string
	Message string
}

// Action renders the receipt cell of a bill row: a link to the receipt
// preview, or a "no file" notice when the bill has no receipt.
func Action(b *bill.Bill) template.HTML {
	var buf bytes.Buffer
	if err := actionTmpl.ExecuteTemplate(&buf, "action", b); err != nil {
		// Only a template bug can fail here
		panic(fmt.Sprintf("rendering action: %v", err))
	}
	return template.HTML(buf.String())
}

// Bills renders the bill list page
func Bills(w io.Writer, data BillsData) error {
	data.Active = "bills"
	return billsTmpl.ExecuteTemplate(w, "layout", data)
}

// NewBill renders the new bill form
func NewBill(w io.Writer, data NewBillData) error {
	data.Active = "new-bill"
	return newBillTmpl.ExecuteTemplate(w, "layout", data)
}

// Preview renders a receipt preview
func Preview(w io.Writer, data PreviewData) error {
	data.Active = "bills"
	return previewTmpl.ExecuteTemplate(w, "layout", data)
}

// Login renders the login form
func Login(w io.Writer, data LoginData) error {
	return loginTmpl.ExecuteTemplate(w, "layout", data)
}

// Error renders an error page
func Error(w io.Writer, data ErrorData) error {
	return errorTmpl.ExecuteTemplate(w, "layout", data)
}

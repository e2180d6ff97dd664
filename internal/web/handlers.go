package web

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/mail"
	"strconv"
	"strings"

	"github.com/zombor/billed/internal/bill"
	"github.com/zombor/billed/internal/controller"
	"github.com/zombor/billed/internal/identity"
	"github.com/zombor/billed/internal/store"
	"github.com/zombor/billed/internal/views"
)

// maxFormSize bounds receipt uploads
const maxFormSize = int64(10 << 20)

// render writes a page, logging template failures
func render(w http.ResponseWriter, code int, fn func(io.Writer) error) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := fn(w); err != nil {
		slog.Error("Error rendering page", "error", err)
	}
}

func renderError(w http.ResponseWriter, code int, message string) {
	render(w, code, func(out io.Writer) error {
		return views.Error(out, views.ErrorData{Message: message})
	})
}

// handleIndex sends the employee to their bills
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, controller.RouteBills, http.StatusSeeOther)
}

// handleStaticCSS serves the stylesheet
func (s *Server) handleStaticCSS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css")
	w.Write(views.AppCSS)
}

// handleLoginForm serves the employee login form
func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	render(w, http.StatusOK, func(out io.Writer) error {
		return views.Login(out, views.LoginData{})
	})
}

// handleLogin stores the employee as the current user
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	if _, err := mail.ParseAddress(email); err != nil {
		render(w, http.StatusBadRequest, func(out io.Writer) error {
			return views.Login(out, views.LoginData{Err: "Adresse email invalide"})
		})
		return
	}

	if err := identity.SaveUser(s.identity, identity.User{Type: "Employee", Email: email}); err != nil {
		slog.Error("Error saving user", "error", err)
		renderError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	slog.Info("Employee logged in", "email", email)
	http.Redirect(w, r, controller.RouteBills, http.StatusSeeOther)
}

// handleLogout forgets the current user
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := identity.ClearUser(s.identity); err != nil {
		slog.Error("Error removing user", "error", err)
		renderError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleBills renders the bill list, or the list's error state
func (s *Server) handleBills(w http.ResponseWriter, r *http.Request) {
	page := controller.NewBillsController(s.store, nil).OnActivate(r.Context())
	render(w, http.StatusOK, func(out io.Writer) error {
		return views.Bills(out, views.BillsData{Bills: page.Bills, Err: page.Err})
	})
}

// handlePreview shows the receipt of one bill
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	c := controller.NewBillsController(s.store, nil)

	b, err := c.Find(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		renderError(w, http.StatusNotFound, "Note de frais introuvable")
		return
	}
	if err != nil {
		slog.Error("Error finding bill", "id", id, "error", err)
		renderError(w, http.StatusBadGateway, err.Error())
		return
	}
	if !b.HasReceipt() {
		renderError(w, http.StatusNotFound, "Aucun fichier trouvé")
		return
	}

	preview := c.OnReceiptActionClicked(b)
	render(w, http.StatusOK, func(out io.Writer) error {
		return views.Preview(out, views.PreviewData{URL: preview.URL, FileName: preview.FileName})
	})
}

// handleReceiptFile serves a receipt kept by the store itself
func (s *Server) handleReceiptFile(w http.ResponseWriter, r *http.Request) {
	source := s.store.(store.ReceiptSource)
	file, ok := source.Receipt(r.PathValue("id"))
	if !ok {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	contentType := file.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(file.Data)
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(file.Data)
}

// handleNewBillForm serves an empty new bill form
func (s *Server) handleNewBillForm(w http.ResponseWriter, r *http.Request) {
	render(w, http.StatusOK, func(out io.Writer) error {
		return views.NewBill(out, views.NewBillData{})
	})
}

// handleAttachReceipt uploads the selected receipt and re-renders the form
// with the receipt attached. Rejected files leave the form as it was.
func (s *Server) handleAttachReceipt(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		renderError(w, http.StatusBadRequest, "Formulaire invalide")
		return
	}

	c := s.newBillController(r, nil)
	file, err := formFile(r)
	if err != nil {
		slog.Error("Error reading receipt", "error", err)
		renderError(w, http.StatusBadRequest, "Fichier illisible")
		return
	}
	if file != nil {
		if err := c.OnFileSelected(r.Context(), *file); err != nil {
			s.renderSubmitError(w, r, err)
			return
		}
	}

	render(w, http.StatusOK, func(out io.Writer) error {
		return views.NewBill(out, newBillData(r, c))
	})
}

// handleSubmitNewBill uploads the receipt if one is attached, then submits the bill
func (s *Server) handleSubmitNewBill(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		slog.Error("Error parsing form", "error", err)
		renderError(w, http.StatusBadRequest, "Formulaire invalide")
		return
	}

	var target string
	c := s.newBillController(r, func(path string) { target = path })

	file, err := formFile(r)
	if err != nil {
		slog.Error("Error reading receipt", "error", err)
		renderError(w, http.StatusBadRequest, "Fichier illisible")
		return
	}
	if file != nil && c.FileName == nil {
		if err := c.OnFileSelected(r.Context(), *file); err != nil {
			s.renderSubmitError(w, r, err)
			return
		}
	}

	form := controller.Form{
		Type:       r.FormValue("type"),
		Name:       r.FormValue("name"),
		Date:       r.FormValue("date"),
		Amount:     r.FormValue("amount"),
		VAT:        r.FormValue("vat"),
		Pct:        r.FormValue("pct"),
		Commentary: r.FormValue("commentary"),
	}
	if err := c.OnSubmit(r.Context(), form); err != nil {
		if errors.Is(err, controller.ErrInvalidAmount) || errors.Is(err, controller.ErrInvalidPct) {
			data := newBillData(r, c)
			data.Err = err.Error()
			render(w, http.StatusBadRequest, func(out io.Writer) error {
				return views.NewBill(out, data)
			})
			return
		}
		s.renderSubmitError(w, r, err)
		return
	}

	http.Redirect(w, r, target, http.StatusSeeOther)
}

// newBillController builds a controller carrying any receipt attached by an earlier request
func (s *Server) newBillController(r *http.Request, navigate controller.Navigator) *controller.NewBillController {
	c := controller.NewNewBillController(s.store, s.identity, navigate)
	if s.scanner != nil {
		c.WithScanner(s.scanner)
	}
	c.RestoreReceipt(r.FormValue("billId"), r.FormValue("fileUrl"), r.FormValue("fileName"))
	return c
}

// renderSubmitError reports a failed upload or submission
func (s *Server) renderSubmitError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, identity.ErrNoUser) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	slog.Error("Error submitting bill", "error", err)
	renderError(w, http.StatusBadGateway, err.Error())
}

// formFile returns the uploaded receipt, or nil when none was selected
func formFile(r *http.Request) (*bill.File, error) {
	f, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if header.Filename == "" {
		return nil, nil
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	return &bill.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// newBillData keeps what the employee typed, fills blanks from the scanner's
// suggestion and carries the attached receipt to the next request.
func newBillData(r *http.Request, c *controller.NewBillController) views.NewBillData {
	data := views.NewBillData{
		Type:       r.FormValue("type"),
		Name:       r.FormValue("name"),
		Date:       r.FormValue("date"),
		Amount:     r.FormValue("amount"),
		VAT:        r.FormValue("vat"),
		Pct:        r.FormValue("pct"),
		Commentary: r.FormValue("commentary"),
	}

	if sug := c.Suggestion; sug != nil {
		if data.Name == "" {
			data.Name = sug.Name
		}
		if data.Date == "" {
			data.Date = sug.Date
		}
		if data.Amount == "" && sug.Amount > 0 {
			data.Amount = strconv.FormatFloat(sug.Amount, 'f', -1, 64)
		}
		if data.VAT == "" && sug.VAT > 0 {
			data.VAT = strconv.FormatFloat(sug.VAT, 'f', -1, 64)
		}
	}

	if c.BillID != nil && c.FileURL != nil && c.FileName != nil {
		data.BillID = *c.BillID
		data.FileURL = *c.FileURL
		data.FileName = *c.FileName
	}
	return data
}

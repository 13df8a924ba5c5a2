package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tpworkshop/garage-quotes/internal/httpx"
	"github.com/tpworkshop/garage-quotes/internal/middleware"
	"github.com/tpworkshop/garage-quotes/internal/models"
	"github.com/tpworkshop/garage-quotes/internal/pdf"
	"github.com/tpworkshop/garage-quotes/internal/services"
	"github.com/tpworkshop/garage-quotes/internal/validation"
	"github.com/tpworkshop/garage-quotes/internal/view"
)

// QuoteHandler mirrors the dual-format pattern used across the app: browsers
// get rendered templates, API clients get JSON.
type QuoteHandler struct {
	Svc *services.QuoteService
	Sum *services.SummaryService
}

func NewQuoteHandler(svc *services.QuoteService, sum *services.SummaryService) *QuoteHandler {
	return &QuoteHandler{Svc: svc, Sum: sum}
}

// List: GET /quotes – HTML cards or JSON page
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	offset := 0
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			offset = (n - 1) * limit
		}
	}
	q := r.URL.Query().Get("q")
	quotes, total, err := h.Svc.List(limit, offset, q)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_quotes", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": quotes, "total": total, "limit": limit, "offset": offset})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := map[string]any{"Quotes": quotes, "Total": total, "PageSize": limit, "Query": q}
	popFlash(w, r, data)
	if err := view.Render(w, r, "quotes.html", data); err != nil {
		renderError(w, err)
	}
}

// Create: POST /quotes – JSON or form
func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, v := parseQuoteInput(r)
	if !v.Empty() {
		if httpx.WantsJSON(r) || isJSON(r) {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
			return
		}
		renderQuoteForm(w, r, h.Svc, h.Sum, "", map[string]any{"Errors": v, "Input": in})
		return
	}
	q, err := h.Svc.CreateQuote(in)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "quote_create_failed", nil)
		return
	}
	if isJSON(r) {
		httpx.JSON(w, http.StatusCreated, q)
		return
	}
	middleware.Flash(w, r, "quote_saved")
	http.Redirect(w, r, "/quotes/"+q.ID+"/edit", http.StatusSeeOther)
}

// Detail: GET /quotes/{id}
func (h *QuoteHandler) Detail(w http.ResponseWriter, r *http.Request) {
	q, products, sum, ok := h.load(w, r)
	if !ok {
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"quote": q, "products": products, "summary": sum})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := view.Render(w, r, "quote_detail.html", map[string]any{"Quote": q, "Products": products, "Summary": sum}); err != nil {
		renderError(w, err)
	}
}

// Form: GET /quotes/new and GET /quotes/{id}/edit
func (h *QuoteHandler) Form(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{"Categories": models.CategoryOrder, "AllowEdit": true, "Errors": validation.Violations{}}
	if id := r.PathValue("id"); id != "" {
		q, products, sum, ok := h.load(w, r)
		if !ok {
			return
		}
		data["Quote"] = q
		data["Products"] = products
		data["Summary"] = sum
	}
	popFlash(w, r, data)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := view.Render(w, r, "quote_form.html", data); err != nil {
		renderError(w, err)
	}
}

// Update: POST /quotes/{id} – targeted field patch
func (h *QuoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	in, v := parseQuoteInput(r)
	if !v.Empty() {
		if httpx.WantsJSON(r) || isJSON(r) {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
			return
		}
		renderQuoteForm(w, r, h.Svc, h.Sum, id, map[string]any{"Errors": v, "Input": in})
		return
	}
	if err := h.Svc.UpdateQuote(id, in); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "quote_update_failed", nil)
		return
	}
	if isJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]string{"updated": id})
		return
	}
	middleware.Flash(w, r, "quote_saved")
	http.Redirect(w, r, "/quotes/"+id+"/edit", http.StatusSeeOther)
}

// Delete: POST /quotes/{id}/delete – removes the quote and its products
func (h *QuoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.Svc.DeleteQuote(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "quote_delete_failed", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]string{"deleted": id})
		return
	}
	middleware.Flash(w, r, "quote_deleted")
	http.Redirect(w, r, "/quotes", http.StatusSeeOther)
}

// Print: GET /quotes/{id}/print – standalone printable document
func (h *QuoteHandler) Print(w http.ResponseWriter, r *http.Request) {
	q, products, sum, ok := h.load(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := view.Render(w, r, "quote_print.html", map[string]any{"Quote": q, "Products": products, "Summary": sum}); err != nil {
		renderError(w, err)
	}
}

// PDF: GET /quotes/{id}/pdf
func (h *QuoteHandler) PDF(w http.ResponseWriter, r *http.Request) {
	q, _, sum, ok := h.load(w, r)
	if !ok {
		return
	}
	data, err := pdf.QuotePDF(q, sum)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "pdf_generation_failed", nil)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="quote-`+q.No+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// load fetches the quote, its resolved products and the computed summary,
// writing the error response itself when something is off.
func (h *QuoteHandler) load(w http.ResponseWriter, r *http.Request) (models.Quote, []models.Product, services.QuoteSummary, bool) {
	id := r.PathValue("id")
	q, err := h.Svc.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			if httpx.WantsJSON(r) {
				httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			} else {
				w.WriteHeader(http.StatusNotFound)
				_ = view.Render(w, r, "not_found.html", map[string]any{"ID": id})
			}
			return models.Quote{}, nil, services.QuoteSummary{}, false
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_quote", nil)
		return models.Quote{}, nil, services.QuoteSummary{}, false
	}
	products, err := h.Svc.Products(q)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_products", nil)
		return models.Quote{}, nil, services.QuoteSummary{}, false
	}
	sum, err := h.Sum.Summarize(q, products)
	if err != nil {
		// unknown category: data corruption, fail loudly
		httpx.JSONError(w, http.StatusInternalServerError, "invalid_category", nil)
		return models.Quote{}, nil, services.QuoteSummary{}, false
	}
	return q, products, sum, true
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// renderQuoteForm re-renders the quote form with validation errors, reloading
// the quote context (products, summary) when an id is known so the page stays
// complete. Submitted values are carried back through "Input".
func renderQuoteForm(w http.ResponseWriter, r *http.Request, svc *services.QuoteService, sum *services.SummaryService, id string, data map[string]any) {
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = validation.Violations{}
	}
	data["Categories"] = models.CategoryOrder
	data["AllowEdit"] = true
	if id != "" {
		if q, err := svc.Get(id); err == nil {
			data["Quote"] = q
			if products, perr := svc.Products(q); perr == nil {
				if s, serr := sum.Summarize(q, products); serr == nil {
					data["Products"] = products
					data["Summary"] = s
				}
			}
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusBadRequest)
	if err := view.Render(w, r, "quote_form.html", data); err != nil {
		renderError(w, err)
	}
}

func renderError(w http.ResponseWriter, err error) {
	w.WriteHeader(http.StatusInternalServerError)
	if _, werr := w.Write([]byte("template render error: " + err.Error())); werr != nil {
		_ = werr
	}
}

func popFlash(w http.ResponseWriter, r *http.Request, data map[string]any) {
	if c, err := r.Cookie("flash"); err == nil && c.Value != "" {
		if dec, derr := url.QueryUnescape(c.Value); derr == nil {
			data["Flash"] = dec
		} else {
			data["Flash"] = c.Value
		}
		http.SetCookie(w, &http.Cookie{Name: "flash", Value: "", Path: "/", Expires: time.Unix(0, 0), MaxAge: -1})
	}
}

// parseQuoteInput decodes the quote fields from JSON or form data and applies
// the form-level validation rules.
func parseQuoteInput(r *http.Request) (services.QuoteInput, validation.Violations) {
	var in services.QuoteInput
	v := validation.Violations{}
	if isJSON(r) {
		var body struct {
			No                    string `json:"no"`
			CustomerName          string `json:"customerName"`
			PhoneNumber           string `json:"phoneNumber"`
			Address               string `json:"address"`
			TaxCode               string `json:"taxCode"`
			CarModel              string `json:"carModel"`
			CarRegistrationNumber string `json:"carRegistrationNumber"`
			CarVin                string `json:"carVin"`
			CarOdometer           int    `json:"carOdometer"`
			Date                  string `json:"date"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			v["body"] = "invalid_json"
			return in, v
		}
		in = services.QuoteInput{
			No:                    body.No,
			CustomerName:          body.CustomerName,
			PhoneNumber:           body.PhoneNumber,
			Address:               body.Address,
			TaxCode:               body.TaxCode,
			CarModel:              body.CarModel,
			CarRegistrationNumber: body.CarRegistrationNumber,
			CarVin:                body.CarVin,
			CarOdometer:           body.CarOdometer,
		}
		in.Date = parseDate(body.Date, v)
	} else {
		if err := r.ParseForm(); err != nil {
			v["body"] = "invalid_form"
			return in, v
		}
		in = services.QuoteInput{
			No:                    strings.TrimSpace(r.FormValue("no")),
			CustomerName:          strings.TrimSpace(r.FormValue("customer_name")),
			PhoneNumber:           strings.TrimSpace(r.FormValue("phone_number")),
			Address:               strings.TrimSpace(r.FormValue("address")),
			TaxCode:               strings.TrimSpace(r.FormValue("tax_code")),
			CarModel:              strings.TrimSpace(r.FormValue("car_model")),
			CarRegistrationNumber: strings.TrimSpace(r.FormValue("car_registration_number")),
			CarVin:                strings.TrimSpace(r.FormValue("car_vin")),
		}
		if s := r.FormValue("car_odometer"); s != "" {
			if n, err := strconv.Atoi(s); err == nil {
				in.CarOdometer = n
			} else {
				v["car_odometer"] = "invalid_value"
			}
		}
		in.Date = parseDate(r.FormValue("date"), v)
	}
	validation.Required("no", in.No, v)
	validation.Required("customer_name", in.CustomerName, v)
	validation.MinLength("phone_number", in.PhoneNumber, 10, v)
	validation.NonNegativeInt("car_odometer", in.CarOdometer, v)
	return in, v
}

// parseDate accepts RFC3339 (the JSON shape) or a bare form date; empty means today.
func parseDate(s string, v validation.Violations) time.Time {
	if s == "" {
		return time.Now()
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	v["date"] = "invalid_value"
	return time.Time{}
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/tpworkshop/garage-quotes/internal/httpx"
	"github.com/tpworkshop/garage-quotes/internal/middleware"
	"github.com/tpworkshop/garage-quotes/internal/models"
	"github.com/tpworkshop/garage-quotes/internal/services"
	"github.com/tpworkshop/garage-quotes/internal/validation"
)

// ProductHandler covers the line-item dialog: add to a quote, edit, remove.
type ProductHandler struct {
	Svc *services.QuoteService
	Sum *services.SummaryService
}

func NewProductHandler(svc *services.QuoteService, sum *services.SummaryService) *ProductHandler {
	return &ProductHandler{Svc: svc, Sum: sum}
}

// Create: POST /quotes/{id}/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	quoteID := r.PathValue("id")
	in, v := parseProductInput(r)
	if !v.Empty() {
		if httpx.WantsJSON(r) || isJSON(r) {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
			return
		}
		renderQuoteForm(w, r, h.Svc, h.Sum, quoteID, map[string]any{"Errors": v})
		return
	}
	p, err := h.Svc.AddProduct(quoteID, in)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "product_create_failed", nil)
		return
	}
	if isJSON(r) {
		httpx.JSON(w, http.StatusCreated, p)
		return
	}
	middleware.Flash(w, r, "product_saved")
	http.Redirect(w, r, "/quotes/"+quoteID+"/edit", http.StatusSeeOther)
}

// Update: POST /quotes/{id}/products/{pid}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	quoteID := r.PathValue("id")
	id := r.PathValue("pid")
	in, v := parseProductInput(r)
	if !v.Empty() {
		if httpx.WantsJSON(r) || isJSON(r) {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
			return
		}
		renderQuoteForm(w, r, h.Svc, h.Sum, quoteID, map[string]any{"Errors": v})
		return
	}
	if err := h.Svc.UpdateProduct(quoteID, id, in); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "product_update_failed", nil)
		return
	}
	if isJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]string{"updated": id})
		return
	}
	middleware.Flash(w, r, "product_saved")
	http.Redirect(w, r, "/quotes/"+quoteID+"/edit", http.StatusSeeOther)
}

// Delete: POST /quotes/{id}/products/{pid}/delete
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	quoteID := r.PathValue("id")
	id := r.PathValue("pid")
	if err := h.Svc.RemoveProduct(quoteID, id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "product_delete_failed", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]string{"deleted": id})
		return
	}
	middleware.Flash(w, r, "product_deleted")
	http.Redirect(w, r, "/quotes/"+quoteID+"/edit", http.StatusSeeOther)
}

// parseProductInput decodes the product dialog fields from JSON or form data.
// Defaults follow the form schema: quantity 1, vat 0, category "1".
func parseProductInput(r *http.Request) (services.ProductInput, validation.Violations) {
	var in services.ProductInput
	v := validation.Violations{}
	if isJSON(r) {
		var body struct {
			Name      string `json:"name"`
			UnitPrice int    `json:"unitPrice"`
			Quantity  *int   `json:"quantity"`
			Unit      string `json:"unit"`
			VAT       int    `json:"vat"`
			Category  string `json:"type"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			v["body"] = "invalid_json"
			return in, v
		}
		in = services.ProductInput{
			Name:      body.Name,
			UnitPrice: body.UnitPrice,
			Quantity:  1,
			Unit:      body.Unit,
			VAT:       body.VAT,
			Category:  body.Category,
		}
		if body.Quantity != nil {
			in.Quantity = *body.Quantity
		}
	} else {
		if err := r.ParseForm(); err != nil {
			v["body"] = "invalid_form"
			return in, v
		}
		in = services.ProductInput{
			Name:     strings.TrimSpace(r.FormValue("name")),
			Unit:     strings.TrimSpace(r.FormValue("unit")),
			Category: r.FormValue("category"),
			Quantity: 1,
		}
		if s := r.FormValue("unit_price"); s != "" {
			if n, err := strconv.Atoi(s); err == nil {
				in.UnitPrice = n
			} else {
				v["unit_price"] = "invalid_value"
			}
		}
		if s := r.FormValue("quantity"); s != "" {
			if n, err := strconv.Atoi(s); err == nil {
				in.Quantity = n
			} else {
				v["quantity"] = "invalid_value"
			}
		}
		if s := r.FormValue("vat"); s != "" {
			if n, err := strconv.Atoi(s); err == nil {
				in.VAT = n
			} else {
				v["vat"] = "invalid_value"
			}
		}
	}
	if in.Category == "" {
		in.Category = models.CategoryParts
	}
	validation.Required("name", in.Name, v)
	validation.Required("unit", in.Unit, v)
	validation.NonNegativeInt("unit_price", in.UnitPrice, v)
	validation.MinInt("quantity", in.Quantity, 1, v)
	validation.NonNegativeInt("vat", in.VAT, v)
	validation.OneOf("category", in.Category, models.CategoryOrder, v)
	return in, v
}

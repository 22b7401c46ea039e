package product

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hvaldez/garage/internal/audit"
	"github.com/hvaldez/garage/internal/auth"
	"github.com/hvaldez/garage/internal/product"
)

type Handler struct {
	svc   *product.Service
	audit *audit.Service
}

func NewHandler(svc *product.Service, auditSvc *audit.Service) *Handler {
	return &Handler{svc: svc, audit: auditSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/low-stock", h.listLowStock)
	r.Get("/barcode/{barcode}", h.getByBarcode)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type autoPartRequest struct {
	VehicleModel string `json:"vehicle_model"`
	VehicleYear  int    `json:"vehicle_year"`
}

type createProductRequest struct {
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	SalePrice     int64            `json:"sale_price"`
	PurchasePrice int64            `json:"purchase_price"`
	Brand         string           `json:"brand"`
	Category      string           `json:"category"`
	Stock         int64            `json:"stock"`
	StockMin      int64            `json:"stock_min"`
	Barcode       string           `json:"barcode"`
	ImageURL      string           `json:"image_url"`
	AutoPart      *autoPartRequest `json:"auto_part"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	params := product.CreateParams{
		Name:          req.Name,
		Description:   req.Description,
		SalePrice:     req.SalePrice,
		PurchasePrice: req.PurchasePrice,
		Brand:         req.Brand,
		Category:      req.Category,
		Stock:         req.Stock,
		StockMin:      req.StockMin,
		Barcode:       req.Barcode,
		ImageURL:      req.ImageURL,
	}

	if req.AutoPart != nil {
		params.AutoPart = &product.AutoPart{
			VehicleModel: req.AutoPart.VehicleModel,
			VehicleYear:  req.AutoPart.VehicleYear,
		}
	}

	p, err := h.svc.Create(r.Context(), params)
	if err != nil {
		if errors.Is(err, product.ErrDuplicateName) {
			http.Error(w, "a product with this name already exists", http.StatusConflict)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	h.record(r, audit.ActionCreate, p.ID, nil, p, "product created")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(p)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := product.ListFilter{}

	if c := r.URL.Query().Get("category"); c != "" {
		filter.Category = &c
	}

	products, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(products)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) listLowStock(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListLowStock(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(products)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(p)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) getByBarcode(w http.ResponseWriter, r *http.Request) {
	barcode := chi.URLParam(r, "barcode")

	p, err := h.svc.GetByBarcode(r.Context(), barcode)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(p)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateProductRequest struct {
	Name          *string          `json:"name,omitempty"`
	Description   *string          `json:"description,omitempty"`
	SalePrice     *int64           `json:"sale_price,omitempty"`
	PurchasePrice *int64           `json:"purchase_price,omitempty"`
	Brand         *string          `json:"brand,omitempty"`
	Category      *string          `json:"category,omitempty"`
	Stock         *int64           `json:"stock,omitempty"`
	StockMin      *int64           `json:"stock_min,omitempty"`
	Barcode       *string          `json:"barcode,omitempty"`
	ImageURL      *string          `json:"image_url,omitempty"`
	AutoPart      *autoPartRequest `json:"auto_part,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	before := *p

	if req.Name != nil {
		p.Name = *req.Name
	}

	if req.Description != nil {
		p.Description = *req.Description
	}

	if req.SalePrice != nil {
		p.SalePrice = *req.SalePrice
	}

	if req.PurchasePrice != nil {
		p.PurchasePrice = *req.PurchasePrice
	}

	if req.Brand != nil {
		p.Brand = *req.Brand
	}

	if req.Category != nil {
		p.Category = *req.Category
	}

	if req.Stock != nil {
		p.Stock = *req.Stock
	}

	if req.StockMin != nil {
		p.StockMin = *req.StockMin
	}

	if req.Barcode != nil {
		p.Barcode = *req.Barcode
	}

	if req.ImageURL != nil {
		p.ImageURL = *req.ImageURL
	}

	if req.AutoPart != nil {
		p.AutoPart = &product.AutoPart{
			VehicleModel: req.AutoPart.VehicleModel,
			VehicleYear:  req.AutoPart.VehicleYear,
		}
	}

	if err := h.svc.Update(r.Context(), p); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.record(r, audit.ActionUpdate, p.ID, &before, p, "product updated")

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(p)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	before, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	h.record(r, audit.ActionDelete, id, before, nil, "product deleted")

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) record(r *http.Request, action audit.Action, id uuid.UUID, before, after *product.Product, description string) {
	entry := audit.Entry{
		Module:      "product",
		Action:      action,
		Table:       "products",
		RecordID:    id.String(),
		User:        auth.UserFromContext(r.Context()),
		Description: description,
		IPAddress:   r.RemoteAddr,
	}

	if before != nil {
		entry.Before, _ = json.Marshal(toResponse(before))
	}

	if after != nil {
		entry.After, _ = json.Marshal(toResponse(after))
	}

	h.audit.Record(r.Context(), entry)
}

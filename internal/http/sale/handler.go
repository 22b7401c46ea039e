package sale

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hvaldez/garage/internal/audit"
	"github.com/hvaldez/garage/internal/auth"
	"github.com/hvaldez/garage/internal/linetx"
	"github.com/hvaldez/garage/internal/sale"
)

type Handler struct {
	svc   *sale.Service
	audit *audit.Service
}

func NewHandler(svc *sale.Service, auditSvc *audit.Service) *Handler {
	return &Handler{svc: svc, audit: auditSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
}

type saleLineRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int64     `json:"quantity"`
}

type createSaleRequest struct {
	OccurredAt *time.Time        `json:"occurred_at,omitempty"`
	Lines      []saleLineRequest `json:"lines"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	occurredAt := time.Now()
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}

	params := sale.CreateParams{OccurredAt: occurredAt}
	for _, ln := range req.Lines {
		params.Lines = append(params.Lines, sale.LineParams{
			ProductID: ln.ProductID,
			Quantity:  ln.Quantity,
		})
	}

	s, err := h.svc.Create(r.Context(), params)
	if err != nil {
		writeLineTxError(w, err)
		return
	}

	h.record(r, audit.ActionCreate, s.ID, s, "sale registered")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(s)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var (
		sales []*sale.Sale
		err   error
	)

	if d := r.URL.Query().Get("date"); d != "" {
		day, parseErr := time.Parse(time.DateOnly, d)
		if parseErr != nil {
			http.Error(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		sales, err = h.svc.ListByDate(r.Context(), day)
	} else {
		sales, err = h.svc.List(r.Context())
	}

	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(sales)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	s, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, sale.ErrNotFound) {
			http.Error(w, "sale not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(s)); err != nil {
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
		if errors.Is(err, sale.ErrNotFound) {
			http.Error(w, "sale not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, sale.ErrNotFound) {
			http.Error(w, "sale not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	h.record(r, audit.ActionDelete, id, before, "sale deleted")

	w.WriteHeader(http.StatusNoContent)
}

// writeLineTxError maps line protocol failures to HTTP statuses: a dangling
// product reference is a 404, a bad quantity or exhausted stock is a 400,
// everything else is a storage fault.
func writeLineTxError(w http.ResponseWriter, err error) {
	var lerr *linetx.LineError
	if errors.As(err, &lerr) {
		status := http.StatusBadRequest
		if errors.Is(err, linetx.ErrItemNotFound) {
			status = http.StatusNotFound
		}

		http.Error(w, lerr.Error(), status)

		return
	}

	http.Error(w, "internal error", http.StatusInternalServerError)
}

func (h *Handler) record(r *http.Request, action audit.Action, id uuid.UUID, snapshot *sale.Sale, description string) {
	entry := audit.Entry{
		Module:      "sale",
		Action:      action,
		Table:       "sales",
		RecordID:    id.String(),
		User:        auth.UserFromContext(r.Context()),
		Description: description,
		IPAddress:   r.RemoteAddr,
	}

	payload, _ := json.Marshal(toResponse(snapshot))
	if action == audit.ActionDelete {
		entry.Before = payload
	} else {
		entry.After = payload
	}

	h.audit.Record(r.Context(), entry)
}

package order

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
	"github.com/hvaldez/garage/internal/order"
)

type Handler struct {
	svc   *order.Service
	audit *audit.Service
}

func NewHandler(svc *order.Service, auditSvc *audit.Service) *Handler {
	return &Handler{svc: svc, audit: auditSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
}

type orderLineRequest struct {
	OfferingID uuid.UUID `json:"offering_id"`
	Price      int64     `json:"price"`
}

type assignmentRequest struct {
	EmployeeID uuid.UUID `json:"employee_id"`
}

type createOrderRequest struct {
	Warranty     int                 `json:"warranty"`
	PaymentState string              `json:"payment_state"`
	Price        int64               `json:"price"`
	Date         *time.Time          `json:"date,omitempty"`
	Lines        []orderLineRequest  `json:"lines"`
	Assignments  []assignmentRequest `json:"assignments"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	params := order.CreateParams{
		Warranty:     req.Warranty,
		PaymentState: req.PaymentState,
		Price:        req.Price,
		Date:         date,
	}

	for _, ln := range req.Lines {
		params.Lines = append(params.Lines, order.LineParams{
			OfferingID: ln.OfferingID,
			Price:      ln.Price,
		})
	}

	for _, a := range req.Assignments {
		params.Assignments = append(params.Assignments, order.AssignmentParams{EmployeeID: a.EmployeeID})
	}

	o, err := h.svc.Create(r.Context(), params)
	if err != nil {
		writeCreateError(w, err)
		return
	}

	h.record(r, audit.ActionCreate, o.ID, o, "work order opened")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(o)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var (
		orders []*order.Order
		err    error
	)

	if d := r.URL.Query().Get("date"); d != "" {
		day, parseErr := time.Parse(time.DateOnly, d)
		if parseErr != nil {
			http.Error(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		orders, err = h.svc.ListByDate(r.Context(), day)
	} else {
		orders, err = h.svc.List(r.Context())
	}

	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(orders)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	o, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			http.Error(w, "order not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(o)); err != nil {
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
		if errors.Is(err, order.ErrNotFound) {
			http.Error(w, "order not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, order.ErrNotFound) {
			http.Error(w, "order not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	h.record(r, audit.ActionDelete, id, before, "work order deleted")

	w.WriteHeader(http.StatusNoContent)
}

// writeCreateError maps order creation failures: a dangling offering or
// employee reference is a 404, an invalid line is a 400, everything else is
// a storage fault.
func writeCreateError(w http.ResponseWriter, err error) {
	if errors.Is(err, order.ErrEmployeeNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

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

func (h *Handler) record(r *http.Request, action audit.Action, id uuid.UUID, snapshot *order.Order, description string) {
	entry := audit.Entry{
		Module:      "order",
		Action:      action,
		Table:       "orders",
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

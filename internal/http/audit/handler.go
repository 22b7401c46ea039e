package audit

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hvaldez/garage/internal/audit"
)

type Handler struct {
	svc *audit.Service
}

func NewHandler(svc *audit.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{table}/{recordID}", h.history)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := audit.Filter{}
	q := r.URL.Query()

	if m := q.Get("module"); m != "" {
		filter.Module = &m
	}

	if a := q.Get("action"); a != "" {
		action := audit.Action(a)
		filter.Action = &action
	}

	if u := q.Get("user"); u != "" {
		filter.User = &u
	}

	if s := q.Get("start"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.Start = &t
		}
	}

	if s := q.Get("end"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.End = &t
		}
	}

	if l := q.Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil {
			filter.Limit = n
		}
	}

	if o := q.Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil {
			filter.Offset = n
		}
	}

	entries, total, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toListResponse(entries, total)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	recordID := chi.URLParam(r, "recordID")

	entries, err := h.svc.History(r.Context(), table, recordID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(entries)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

package importcsv

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hvaldez/garage/internal/importer"
	"github.com/hvaldez/garage/internal/product"
)

type Handler struct {
	parser     *importer.Parser
	productSvc *product.Service
}

func NewHandler(parser *importer.Parser, productSvc *product.Service) *Handler {
	return &Handler{parser: parser, productSvc: productSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/products", h.importProducts)
}

type importSuccessResponse struct {
	Imported int      `json:"imported"`
	Skipped  []string `json:"skipped,omitempty"`
}

func (h *Handler) importProducts(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	params, err := h.parser.Parse(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.productSvc.ImportBatch(r.Context(), params)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	resp := importSuccessResponse{
		Imported: len(result.Imported),
		Skipped:  result.Skipped,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

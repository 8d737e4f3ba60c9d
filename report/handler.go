package report

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/atelier-erp/atelier-erp/internal/documents"
	"github.com/atelier-erp/atelier-erp/internal/platform/httpx"
)

// Handler manages report endpoints.
type Handler struct {
	renderer *Renderer
	client   *Client
	logger   *slog.Logger
}

func NewHandler(renderer *Renderer, client *Client, logger *slog.Logger) *Handler {
	return &Handler{renderer: renderer, client: client, logger: logger}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/ping", h.ping)
	r.Post("/documents/{id}/pdf", h.renderDocument)
}

func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	if err := h.client.Ping(r.Context()); err != nil {
		h.logger.Warn("pdf service ping failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusServiceUnavailable, "Unavailable", "pdf rendering service unreachable")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) renderDocument(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid document id")
		return
	}

	url, err := h.renderer.Render(r.Context(), id)
	if err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "document not found")
			return
		}
		h.logger.Error("render document pdf", slog.Int64("document_id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"url": url})
}

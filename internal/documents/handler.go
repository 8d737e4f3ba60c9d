package documents

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/atelier-erp/atelier-erp/internal/platform/httpx"
	"github.com/atelier-erp/atelier-erp/internal/shared"
)

// RenderQueue schedules background PDF pre-rendering after a save, so the
// file is already warm when staff print.
type RenderQueue interface {
	EnqueueRender(ctx context.Context, documentID int64) error
}

// RenderQueueFunc adapts a function to the RenderQueue interface.
type RenderQueueFunc func(ctx context.Context, documentID int64) error

func (f RenderQueueFunc) EnqueueRender(ctx context.Context, documentID int64) error {
	return f(ctx, documentID)
}

type Handler struct {
	logger   *slog.Logger
	service  *Service
	queue    RenderQueue
	validate *validator.Validate
}

// NewHandler constructs a Handler. queue may be nil when background
// rendering is not configured.
func NewHandler(logger *slog.Logger, service *Service, queue RenderQueue) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		queue:    queue,
		validate: validator.New(),
	}
}

func (h *Handler) enqueueRender(ctx context.Context, doc *Document) {
	if h.queue == nil || (doc.Kind != KindInvoice && doc.Kind != KindCreditNote) {
		return
	}
	if err := h.queue.EnqueueRender(ctx, doc.ID); err != nil {
		h.logger.Warn("enqueue pdf pre-render",
			slog.Int64("document_id", doc.ID), slog.Any("error", err))
	}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Trash)
	r.Post("/{id}/restore", h.Restore)
	r.Delete("/{id}/purge", h.Purge)
	r.Post("/{id}/sources/{sourceID}", h.LinkSource)
	r.Delete("/{id}/sources/{sourceID}", h.UnlinkSource)
	r.Post("/{id}/credit-note", h.CreateCreditNote)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	perPage := limit
	if perPage <= 0 {
		perPage = 50
	}
	if page, _ := strconv.Atoi(q.Get("page")); page > 0 && offset == 0 {
		offset = shared.Pagination{Page: page, PerPage: perPage}.Offset()
	}

	req := ListDocumentsRequest{
		Search:  q.Get("search"),
		Trashed: q.Get("trashed") == "true",
		Limit:   limit,
		Offset:  offset,
	}
	if v := q.Get("kind"); v != "" {
		kind := DocumentKind(v)
		if !ValidKind(kind) {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "unknown document kind")
			return
		}
		req.Kind = &kind
	}
	if v := q.Get("client_id"); v != "" {
		clientID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid client id")
			return
		}
		req.ClientID = &clientID
	}
	if v := q.Get("date_from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid date_from")
			return
		}
		req.DateFrom = &t
	}
	if v := q.Get("date_to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid date_to")
			return
		}
		req.DateTo = &t
	}

	list, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list documents", slog.Any("error", err))
		h.respondError(w, err)
		return
	}

	page := req.Offset/perPage + 1
	httpx.JSON(w, http.StatusOK, ListDocumentsResponse{
		Documents:  list,
		Total:      total,
		Pagination: shared.NewPagination(page, perPage, total),
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	doc, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateDocumentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	doc, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.logger.Error("create document", slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	h.enqueueRender(r.Context(), doc)
	httpx.JSON(w, http.StatusCreated, doc)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	var req UpdateDocumentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	doc, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.enqueueRender(r.Context(), doc)
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *Handler) Trash(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.Trash(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.Restore(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Purge(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.Purge(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) LinkSource(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	sourceID, ok := h.idParam(w, r, "sourceID")
	if !ok {
		return
	}

	doc, alreadyLinked, err := h.service.LinkSource(r.Context(), id, sourceID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	resp := LinkSourceResponse{Document: doc}
	if alreadyLinked {
		resp.Warning = "delivery note already linked to this document"
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) UnlinkSource(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	sourceID, ok := h.idParam(w, r, "sourceID")
	if !ok {
		return
	}

	doc, err := h.service.UnlinkSource(r.Context(), id, sourceID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *Handler) CreateCreditNote(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	var body struct {
		Date time.Time `json:"date"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid json body")
		return
	}
	if body.Date.IsZero() {
		body.Date = time.Now()
	}

	doc, err := h.service.CreateCreditNote(r.Context(), id, body.Date)
	if err != nil {
		h.logger.Error("create credit note", slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, doc)
}

func (h *Handler) idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid "+name)
		return 0, false
	}
	return id, true
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "document not found")
	case errors.Is(err, ErrKindMismatch):
		httpx.Problem(w, http.StatusConflict, "Conflict", ErrKindMismatch.Error())
	case errors.Is(err, ErrTrashed):
		httpx.Problem(w, http.StatusConflict, "Conflict", "document is in the trash")
	case errors.Is(err, ErrNotTrashed):
		httpx.Problem(w, http.StatusConflict, "Conflict", "only trashed documents can be purged")
	case errors.Is(err, ErrSourceInvalid):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Unprocessable", ErrSourceInvalid.Error())
	default:
		httpx.RespondError(w, err)
	}
}

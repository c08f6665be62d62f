package httptransport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"docket/internal/document"
	dErrors "docket/pkg/domain-errors"
	"docket/pkg/platform/httputil"
	"docket/pkg/requestcontext"
)

// DocumentService covers the document lifecycle operations.
type DocumentService interface {
	Upload(ctx context.Context, in document.UploadInput) (*document.Document, error)
	Get(ctx context.Context, id uuid.UUID) (*document.Document, error)
	List(ctx context.Context, limit, offset int) ([]document.Document, error)
	Update(ctx context.Context, id uuid.UUID, in document.UpdateInput) (*document.Document, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Download(ctx context.Context, id uuid.UUID) (io.ReadCloser, *document.Document, error)
}

// DocumentHandler wires the document endpoints. All of them sit behind
// RequireAuth.
type DocumentHandler struct {
	docs     DocumentService
	logger   *slog.Logger
	maxBytes int64
}

func NewDocumentHandler(docs DocumentService, logger *slog.Logger, maxBytes int64) *DocumentHandler {
	return &DocumentHandler{docs: docs, logger: logger, maxBytes: maxBytes}
}

// Register mounts the document endpoints.
func (h *DocumentHandler) Register(r chi.Router) {
	r.Post("/documents", h.handleUpload)
	r.Get("/documents", h.handleList)
	r.Get("/documents/{id}", h.handleGet)
	r.Patch("/documents/{id}", h.handleUpdate)
	r.Delete("/documents/{id}", h.handleDelete)
	r.Get("/documents/{id}/download", h.handleDownload)
}

// multipartOverhead leaves room for the non-file form fields when capping the
// request body.
const multipartOverhead = 64 << 10

func (h *DocumentHandler) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxBytes + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeFileTooLarge, "request body too large"))
			return
		}
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed multipart body"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "file part is required"))
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "failed to read file part"))
		return
	}

	jurisdictionIDs, err := parseUUIDList(r.FormValue("jurisdiction_ids"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	doc, err := h.docs.Upload(r.Context(), document.UploadInput{
		Title:           r.FormValue("title"),
		Description:     r.FormValue("description"),
		Tags:            splitCSV(r.FormValue("tags")),
		JurisdictionIDs: jurisdictionIDs,
		Filename:        header.Filename,
		Raw:             raw,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "document uploaded",
		"request_id", requestcontext.RequestID(r.Context()),
		"document_id", doc.ID.String(),
		"kind", string(doc.Kind),
		"size", doc.Size,
	)
	httputil.WriteJSON(w, http.StatusCreated, doc)
}

func (h *DocumentHandler) handleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	docs, err := h.docs.List(r.Context(), limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (h *DocumentHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	doc, err := h.docs.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, doc)
}

type updateRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
}

func (h *DocumentHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeJSON[updateRequest](w, r, h.logger)
	if !ok {
		return
	}

	doc, err := h.docs.Update(r.Context(), id, document.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.docs.SoftDelete(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DocumentHandler) handleDownload(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rc, doc, err := h.docs.Download(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	defer rc.Close()

	// Content type comes from the detected kind, never from the client.
	w.Header().Set("Content-Type", doc.Kind.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.Header().Set("Content-Length", strconv.FormatInt(doc.Size, 10))
	if _, err := io.Copy(w, rc); err != nil {
		// Headers are gone; all we can do is log the broken stream.
		h.logger.WarnContext(r.Context(), "download stream interrupted",
			"request_id", requestcontext.RequestID(r.Context()),
			"document_id", doc.ID.String(),
			"error", err,
		)
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid document id"))
		return uuid.Nil, false
	}
	return id, true
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func parseUUIDList(s string) ([]uuid.UUID, error) {
	parts := splitCSV(s)
	ids := make([]uuid.UUID, 0, len(parts))
	for _, p := range parts {
		id, err := uuid.Parse(strings.TrimSpace(p))
		if err != nil {
			return nil, dErrors.Newf(dErrors.CodeBadRequest, "invalid jurisdiction id %q", strings.TrimSpace(p))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"docket/internal/jurisdiction"
	dErrors "docket/pkg/domain-errors"
	"docket/pkg/platform/httputil"
)

// JurisdictionService covers the hierarchy reads.
type JurisdictionService interface {
	Tree(ctx context.Context) ([]*jurisdiction.TreeNode, error)
	GetByID(ctx context.Context, id uuid.UUID) (*jurisdiction.NodeDetail, error)
}

// JurisdictionHandler serves the reference hierarchy. Read-only and public;
// the data carries nothing sensitive.
type JurisdictionHandler struct {
	jurisdictions JurisdictionService
	logger        *slog.Logger
}

func NewJurisdictionHandler(jurisdictions JurisdictionService, logger *slog.Logger) *JurisdictionHandler {
	return &JurisdictionHandler{jurisdictions: jurisdictions, logger: logger}
}

// Register mounts the jurisdiction endpoints.
func (h *JurisdictionHandler) Register(r chi.Router) {
	r.Get("/jurisdictions/tree", h.handleTree)
	r.Get("/jurisdictions/{id}", h.handleGet)
}

func (h *JurisdictionHandler) handleTree(w http.ResponseWriter, r *http.Request) {
	forest, err := h.jurisdictions.Tree(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"jurisdictions": forest})
}

func (h *JurisdictionHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid jurisdiction id"))
		return
	}
	node, err := h.jurisdictions.GetByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, node)
}

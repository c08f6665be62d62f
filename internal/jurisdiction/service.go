package jurisdiction

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "docket/pkg/domain-errors"
)

// DefaultTreeTTL is how long the assembled forest stays cached.
const DefaultTreeTTL = 24 * time.Hour

// Service serves the cached jurisdiction tree and validates references
// against it. Read-only at runtime.
type Service struct {
	store  Store
	cache  TreeCache
	ttl    time.Duration
	logger *slog.Logger
}

// NewService constructs the hierarchy service. cache may be nil, in which
// case every read rebuilds from the store.
func NewService(store Store, cache TreeCache, ttl time.Duration, logger *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTreeTTL
	}
	return &Service{store: store, cache: cache, ttl: ttl, logger: logger}
}

// Tree returns the root-anchored forest, preferring the cache. A cache outage
// degrades to a direct rebuild rather than failing the request; concurrent
// misses may rebuild redundantly, which is harmless.
func (s *Service) Tree(ctx context.Context) ([]*TreeNode, error) {
	if s.cache != nil {
		forest, err := s.cache.GetTree(ctx)
		if err == nil {
			return forest, nil
		}
	}

	nodes, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStorageUnavailable, "jurisdiction store unavailable")
	}
	forest := s.buildForest(nodes)

	if s.cache != nil {
		if err := s.cache.SetTree(ctx, forest, s.ttl); err != nil {
			s.logger.Warn("jurisdiction tree cache write failed", "error", err)
		}
	}
	return forest, nil
}

// GetByID returns one node with its parent and immediate children.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*NodeDetail, error) {
	nodes, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStorageUnavailable, "jurisdiction store unavailable")
	}

	byID := make(map[uuid.UUID]Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	node, ok := byID[id]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "jurisdiction not found")
	}

	detail := &NodeDetail{Node: node}
	if node.ParentID != nil {
		if parent, ok := byID[*node.ParentID]; ok {
			detail.Parent = &parent
		}
	}
	for _, n := range nodes {
		if n.ParentID != nil && *n.ParentID == id {
			detail.Children = append(detail.Children, n)
		}
	}
	sort.Slice(detail.Children, func(i, j int) bool {
		return detail.Children[i].Name < detail.Children[j].Name
	})
	return detail, nil
}

// ResolveMany validates a batch of jurisdiction IDs. Duplicates are collapsed.
// If any ID is unknown the whole batch fails and every missing ID is named,
// so a batch failure is diagnosable in one round trip.
func (s *Service) ResolveMany(ctx context.Context, ids []uuid.UUID) ([]Node, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	nodes, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStorageUnavailable, "jurisdiction store unavailable")
	}
	byID := make(map[uuid.UUID]Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	seen := make(map[uuid.UUID]struct{}, len(ids))
	resolved := make([]Node, 0, len(ids))
	var missing []string
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		node, ok := byID[id]
		if !ok {
			missing = append(missing, id.String())
			continue
		}
		resolved = append(resolved, node)
	}

	if len(missing) > 0 {
		return nil, dErrors.Newf(dErrors.CodeInvalidJurisdiction,
			"unknown jurisdiction ids: %s", strings.Join(missing, ", ")).
			WithMeta("missing_ids", missing)
	}
	return resolved, nil
}

// Invalidate drops the cached tree wholesale. Called after any write to
// reference data; there is no partial invalidation.
func (s *Service) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx)
}

// buildForest assembles the flat node list into a forest: one pass to index
// by ID, a second to link children to parents. A node whose declared parent
// is absent is kept as a root so one bad row cannot take the tree down, but
// it is logged loudly because it means the reference data is broken.
func (s *Service) buildForest(nodes []Node) []*TreeNode {
	byID := make(map[uuid.UUID]*TreeNode, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = &TreeNode{Node: n, Children: []*TreeNode{}}
	}

	var roots []*TreeNode
	for _, tn := range byID {
		if tn.ParentID == nil {
			roots = append(roots, tn)
			continue
		}
		parent, ok := byID[*tn.ParentID]
		if !ok {
			s.logger.Warn("jurisdiction node has unresolvable parent, treating as root",
				"code", tn.Code,
				"parent_id", tn.ParentID.String(),
			)
			roots = append(roots, tn)
			continue
		}
		parent.Children = append(parent.Children, tn)
	}

	sortForest(roots)
	return roots
}

func sortForest(forest []*TreeNode) {
	sort.Slice(forest, func(i, j int) bool { return forest[i].Name < forest[j].Name })
	for _, tn := range forest {
		sortForest(tn.Children)
	}
}

// Package jurisdiction owns the read-mostly federal → provincial/territorial
// → municipal hierarchy and validates references against it.
package jurisdiction

import (
	"github.com/google/uuid"
)

// Level of a node in the hierarchy.
type Level string

const (
	LevelFederal     Level = "federal"
	LevelProvincial  Level = "provincial"
	LevelTerritorial Level = "territorial"
	LevelMunicipal   Level = "municipal"
)

// LegalSystem classifies the body of law a jurisdiction operates under.
type LegalSystem string

const (
	LegalSystemCommonLaw LegalSystem = "common_law"
	LegalSystemCivilLaw  LegalSystem = "civil_law"
	LegalSystemBijural   LegalSystem = "bijural"
)

// Node is one jurisdiction. Reference data: seeded once, immutable at runtime.
//
// Structural invariants (enforced by the seed, assumed by the tree builder):
// exactly one federal root; every provincial/territorial parent is the
// federal root; every municipal parent is provincial or territorial.
type Node struct {
	ID          uuid.UUID   `json:"id"`
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	Level       Level       `json:"level"`
	LegalSystem LegalSystem `json:"legal_system"`
	ParentID    *uuid.UUID  `json:"parent_id,omitempty"`
}

// TreeNode is a node with its children resolved. Parent linkage is by ID
// only, so the structure serializes cleanly and cannot form a cycle.
type TreeNode struct {
	Node
	Children []*TreeNode `json:"children"`
}

// NodeDetail is a node with its parent and immediate children resolved.
type NodeDetail struct {
	Node
	Parent   *Node  `json:"parent,omitempty"`
	Children []Node `json:"children"`
}

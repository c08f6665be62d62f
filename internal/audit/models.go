// Package audit captures append-only records of every mutating operation.
//
// Records are a secondary guarantee: emission is best-effort and must never
// fail or block the operation that produced them.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Action identifies what happened. Closed enum; stores reject nothing, the
// writing code is the gatekeeper.
type Action string

const (
	ActionDocumentUpload   Action = "document.upload"
	ActionDocumentUpdate   Action = "document.update"
	ActionDocumentDelete   Action = "document.delete"
	ActionDocumentDownload Action = "document.download"
	ActionDocumentPurge    Action = "document.purge"
	ActionAuthRegister     Action = "auth.register"
	ActionAuthLogin        Action = "auth.login"
	ActionAuthRefresh      Action = "auth.refresh"
	ActionAuthLogout       Action = "auth.logout"
)

// Outcome of the audited operation.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Change is one entry of a structured before/after diff.
type Change struct {
	Field string `json:"field"`
	Old   any    `json:"old"`
	New   any    `json:"new"`
}

// Record is a single audit entry. Append-only: no update or delete path
// exists anywhere in the application.
type Record struct {
	// ID is a UUIDv7 so records sort by creation time.
	ID        uuid.UUID
	Timestamp time.Time
	// ActorID is nil for unauthenticated failures (e.g. bad login).
	ActorID *uuid.UUID
	// ActorIPHash is a SHA-256 of the caller's IP; raw addresses are never stored.
	ActorIPHash   string
	Action        Action
	ResourceType  string
	ResourceID    string
	Changes       []Change
	RequestID     string
	Outcome       Outcome
	FailureReason string
}

// HashIP produces the stored form of a client IP. Empty in, empty out.
func HashIP(ip string) string {
	if ip == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])
}

// NewID mints a time-sortable record ID, falling back to a random UUID if the
// v7 source fails.
func NewID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

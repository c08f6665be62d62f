// Package filevalidate decides what an uploaded file actually is.
//
// The claimed Content-Type header is never consulted: type detection works
// from the bytes themselves, with a narrow extension-based fallback for plain
// text because text files carry no magic bytes.
package filevalidate

import (
	"bytes"
	"path/filepath"
	"strings"
	"unicode/utf8"

	dErrors "docket/pkg/domain-errors"
)

// Kind is the detected file kind. The set is closed; storage and download
// derive the served content type from it, never from client input.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindText Kind = "txt"
)

// ContentType returns the content type served for this kind.
func (k Kind) ContentType() string {
	switch k {
	case KindPDF:
		return "application/pdf"
	case KindText:
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// Extension returns the normalized extension for this kind, dot included.
func (k Kind) Extension() string {
	switch k {
	case KindPDF:
		return ".pdf"
	case KindText:
		return ".txt"
	default:
		return ""
	}
}

// pdfMagic is the signature every PDF starts with.
var pdfMagic = []byte("%PDF-")

// Validate inspects the raw bytes against known signatures and reports the
// detected kind and its normalized extension.
//
// If no signature matches, the content is accepted as plain text only when it
// decodes as valid UTF-8 AND the claimed filename ends in ".txt". Anything
// else fails with CodeUnsupportedType.
func Validate(raw []byte, claimedFilename string) (Kind, string, error) {
	if len(raw) == 0 {
		return "", "", dErrors.New(dErrors.CodeUnsupportedType, "empty file")
	}

	if bytes.HasPrefix(raw, pdfMagic) {
		return KindPDF, KindPDF.Extension(), nil
	}

	ext := strings.ToLower(filepath.Ext(claimedFilename))
	if ext == ".txt" && utf8.Valid(raw) {
		return KindText, KindText.Extension(), nil
	}

	return "", "", dErrors.New(dErrors.CodeUnsupportedType, "file type not recognized; only pdf and txt are accepted")
}

package filevalidate

import (
	"strings"
)

// maxFilenameBytes bounds the sanitized name. Kept under common filesystem
// limits with headroom for the extension.
const maxFilenameBytes = 200

// hostile characters beyond path separators and control characters; covers
// shell metacharacters and characters rejected by common filesystems.
const hostileChars = "<>:\"|?*&;$`'\\"

// SanitizeFilename produces a display-safe name from a client-supplied one.
// Path separators, control characters and shell-hostile characters become
// underscores, runs of underscores collapse to one, and the result is
// truncated to a byte-safe length with the extension preserved.
//
// The sanitized name is for display and audit only. Storage keys are
// generated randomly and never derived from user input.
func SanitizeFilename(name string) string {
	// Keep only the last path element; both separator styles can appear in
	// client-supplied names regardless of the server platform.
	if i := strings.LastIndexAny(name, "/\\"); i >= 0 {
		name = name[i+1:]
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r < 0x20 || r == 0x7f:
			b.WriteByte('_')
		case strings.ContainsRune(hostileChars, r):
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}

	cleaned := collapseUnderscores(b.String())
	cleaned = strings.Trim(cleaned, "_ ")
	// A bare dot-name ("..", ".hidden") must not survive as-is.
	cleaned = strings.TrimLeft(cleaned, ".")
	if cleaned == "" {
		return "file"
	}

	if len(cleaned) > maxFilenameBytes {
		cleaned = truncatePreservingExt(cleaned, maxFilenameBytes)
	}
	return cleaned
}

func collapseUnderscores(s string) string {
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return s
}

// truncatePreservingExt cuts the stem, not the extension, and never splits a
// multi-byte rune.
func truncatePreservingExt(name string, limit int) string {
	ext := ""
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		ext = name[i:]
	}
	if len(ext) >= limit {
		ext = ""
	}

	stem := name[:len(name)-len(ext)]
	budget := limit - len(ext)
	for budget > 0 && !utf8RuneStartsAt(stem, budget) {
		budget--
	}
	if budget > len(stem) {
		budget = len(stem)
	}
	return stem[:budget] + ext
}

func utf8RuneStartsAt(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	return s[i]&0xC0 != 0x80
}

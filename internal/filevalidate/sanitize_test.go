package filevalidate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain name passes through",
			input: "notes.txt",
			want:  "notes.txt",
		},
		{
			name:  "strips unix path",
			input: "../../etc/passwd",
			want:  "passwd",
		},
		{
			name:  "strips windows path",
			input: `C:\Users\me\report.pdf`,
			want:  "report.pdf",
		},
		{
			name:  "replaces shell metacharacters",
			input: "a;b&c$d`e.txt",
			want:  "a_b_c_d_e.txt",
		},
		{
			name:  "collapses repeated replacements",
			input: "a<<<>>>b.pdf",
			want:  "a_b.pdf",
		},
		{
			name:  "control characters removed",
			input: "evil\x00\x1fname.txt",
			want:  "evil_name.txt",
		},
		{
			name:  "empty becomes default",
			input: "",
			want:  "file",
		},
		{
			name:  "dot-only name becomes default",
			input: "..",
			want:  "file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.input))
		})
	}
}

func TestSanitizeFilenameTruncatesPreservingExtension(t *testing.T) {
	long := strings.Repeat("a", 500) + ".pdf"
	got := SanitizeFilename(long)
	assert.LessOrEqual(t, len(got), maxFilenameBytes)
	assert.True(t, strings.HasSuffix(got, ".pdf"))
}

func TestSanitizeFilenameTruncationDoesNotSplitRunes(t *testing.T) {
	long := strings.Repeat("é", 300) + ".txt"
	got := SanitizeFilename(long)
	assert.LessOrEqual(t, len(got), maxFilenameBytes)
	for _, r := range got {
		assert.NotEqual(t, '\uFFFD', r)
	}
}

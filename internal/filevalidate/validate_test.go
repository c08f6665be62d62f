package filevalidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "docket/pkg/domain-errors"
)

func TestValidatePDFMagicBytes(t *testing.T) {
	kind, ext, err := Validate([]byte("%PDF-1.7\n..."), "anything.bin")
	require.NoError(t, err)
	assert.Equal(t, KindPDF, kind)
	assert.Equal(t, ".pdf", ext)
}

func TestValidatePlainTextFallback(t *testing.T) {
	kind, ext, err := Validate([]byte("hello"), "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, KindText, kind)
	assert.Equal(t, ".txt", ext)
}

func TestValidateTextFallbackIsCaseInsensitiveOnExtension(t *testing.T) {
	kind, _, err := Validate([]byte("hello"), "NOTES.TXT")
	require.NoError(t, err)
	assert.Equal(t, KindText, kind)
}

func TestValidateRejectsExecutableClaimingPDF(t *testing.T) {
	// MZ header: a Windows executable renamed to report.pdf.
	_, _, err := Validate([]byte{0x4D, 0x5A, 0x90, 0x00}, "report.pdf")
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeUnsupportedType))
}

func TestValidateRejectsTextWithoutTxtExtension(t *testing.T) {
	_, _, err := Validate([]byte("plain text body"), "notes.md")
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeUnsupportedType))
}

func TestValidateRejectsInvalidUTF8ClaimingTxt(t *testing.T) {
	_, _, err := Validate([]byte{0xff, 0xfe, 0x00, 0x01}, "notes.txt")
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeUnsupportedType))
}

func TestValidateRejectsEmptyFile(t *testing.T) {
	_, _, err := Validate(nil, "empty.txt")
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeUnsupportedType))
}

func TestKindContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", KindPDF.ContentType())
	assert.Equal(t, "text/plain; charset=utf-8", KindText.ContentType())
}

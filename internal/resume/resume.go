// Package resume extracts skills from a résumé and merges them into the
// learner profile.
package resume

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/kalambet/skillagent/internal/profile"
	"github.com/kalambet/skillagent/internal/skillclaim"
)

// maxSize caps how much of a résumé file is read.
const maxSize = 10 << 20

// ErrUnsupported is returned for file types other than PDF and plain text.
var ErrUnsupported = errors.New("unsupported résumé format (want .pdf, .txt or .md)")

// ReadFile returns the text of the résumé at path.
func ReadFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxSize))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return ExtractPDF(data)
	case ".txt", ".md", "":
		return string(data), nil
	default:
		return "", ErrUnsupported
	}
}

// ExtractPDF returns the plain text content of a PDF document.
func ExtractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf plaintext: %w", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("pdf read: %w", err)
	}
	return strings.Join(strings.Fields(string(b)), " "), nil
}

// Result describes what an import found and changed.
type Result struct {
	Found []string `json:"found"`
	Added []string `json:"added"`
}

// Apply merges the skills mentioned in text into p.
func Apply(p *profile.UserProfile, text string) Result {
	found := skillclaim.Mentions(text)
	return Result{Found: found, Added: p.MergeSkills(found)}
}

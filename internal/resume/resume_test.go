package resume

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/kalambet/skillagent/internal/profile"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadFile_PlainText(t *testing.T) {
	path := writeTemp(t, "cv.txt", "Experienced with Python and PostgreSQL.")
	text, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if text != "Experienced with Python and PostgreSQL." {
		t.Errorf("text = %q", text)
	}
}

func TestReadFile_Unsupported(t *testing.T) {
	path := writeTemp(t, "cv.docx", "binary")
	if _, err := ReadFile(path); !errors.Is(err, ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
}

func TestReadFile_Missing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "nope.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestExtractPDF_Invalid(t *testing.T) {
	if _, err := ExtractPDF([]byte("not a pdf")); err == nil {
		t.Error("expected error for invalid PDF")
	}
}

func TestApply(t *testing.T) {
	p := profile.UserProfile{Skills: []string{"Python"}}
	text := "Built REST services in Python and Node.js, versioned with Git. Styled with CSS3."

	res := Apply(&p, text)

	wantFound := []string{"python", "node", "css", "git"}
	if !slices.Equal(res.Found, wantFound) {
		t.Errorf("Found = %v, want %v", res.Found, wantFound)
	}
	wantAdded := []string{"node", "css", "git"}
	if !slices.Equal(res.Added, wantAdded) {
		t.Errorf("Added = %v, want %v", res.Added, wantAdded)
	}
	wantSkills := []string{"Python", "node", "css", "git"}
	if !slices.Equal(p.Skills, wantSkills) {
		t.Errorf("Skills = %v, want %v", p.Skills, wantSkills)
	}
}

func TestApply_NothingFound(t *testing.T) {
	p := profile.UserProfile{}
	res := Apply(&p, "Ten years of accounting.")
	if len(res.Found) != 0 || len(res.Added) != 0 || len(p.Skills) != 0 {
		t.Errorf("res = %+v, skills = %v", res, p.Skills)
	}
}

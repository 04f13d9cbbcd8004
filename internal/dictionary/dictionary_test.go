package dictionary

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dgallion1/versefix/internal/errs"
)

func TestLoad_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words")
	_, err := Load(path)
	var missing *errs.MissingInputError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingInputError, got %v", err)
	}
	if missing.Path != path {
		t.Errorf("expected path %q, got %q", path, missing.Path)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("expected the underlying not-exist error to be wrapped")
	}
}

func TestLoad_ExactMatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words")
	if err := os.WriteFile(path, []byte("the\nquick\nFox\nlord's\n\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Len() != 4 {
		t.Errorf("expected 4 words, got %d", d.Len())
	}
	for _, w := range []string{"the", "quick", "Fox", "lord's"} {
		if !d.IsWord(w) {
			t.Errorf("expected %q to be a word", w)
		}
	}
	if d.IsWord("fox") {
		t.Error("lookup must be case-sensitive")
	}
	if d.IsWord("") {
		t.Error("empty string must not be a word")
	}
}

func TestParse_NoTrailingNewline(t *testing.T) {
	d, err := Parse(strings.NewReader("alpha\nomega"))
	if err != nil {
		t.Fatal(err)
	}
	if !d.IsWord("omega") || d.Len() != 2 {
		t.Errorf("expected both entries, got %d", d.Len())
	}
}

func TestUnnormalized(t *testing.T) {
	d, err := Parse(strings.NewReader("the\nGod\nlord's\nmoses'\nwell-known\ncafé\nend\r\n"))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"God", "café", "end\r", "moses'"}
	if diff := cmp.Diff(want, d.Unnormalized()); diff != "" {
		t.Errorf("unnormalized mismatch (-want +got):\n%s", diff)
	}
}

func TestUnnormalized_CleanList(t *testing.T) {
	if got := New("the", "quick", "70", "o-neill").Unnormalized(); len(got) != 0 {
		t.Errorf("expected no anomalies, got %v", got)
	}
}

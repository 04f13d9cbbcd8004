package corpus

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const genesisFragment = `<div class="chapter">
<div class="p">
<span class="verse v1" data-usfm="GEN.1.1"><span class="label">1</span><span class="content">In the beginning God created the heavens and the earth.</span></span>
<span class="verse v2" data-usfm="GEN.1.2"><span class="label">2</span><span class="content">The earth was formless and  empty,</span><span class="content"> and darkness covered the deep water.</span></span>
</div>
<div class="p">
<span class="verse v4"><span class="label">4</span><span class="content">God saw that the light was good.</span></span>
<span class="verse v5"><span class="label"></span><span class="content">   </span></span>
</div>
</div>`

func TestParseVerses_BareHTML(t *testing.T) {
	verses, err := ParseVerses([]byte(genesisFragment))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Verse{
		{Number: 1, Text: "In the beginning God created the heavens and the earth."},
		{Number: 2, Text: "The earth was formless and  empty, and darkness covered the deep water."},
		{Number: 4, Text: "God saw that the light was good."},
	}
	if diff := cmp.Diff(want, verses); diff != "" {
		t.Errorf("verses mismatch (-want +got):\n%s", diff)
	}
}

func TestParseVerses_JSONEnvelope(t *testing.T) {
	doc, err := json.Marshal(map[string]string{"content": genesisFragment})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	verses, err := ParseVerses(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(verses) != 3 {
		t.Fatalf("expected 3 verses, got %d", len(verses))
	}
	if verses[2].Number != 4 {
		t.Errorf("expected non-contiguous verse number 4, got %d", verses[2].Number)
	}
}

func TestParseVerses_BadEnvelope(t *testing.T) {
	for _, doc := range []string{`{"content": `, `{"reference": "GEN.1"}`} {
		if _, err := ParseVerses([]byte(doc)); err == nil {
			t.Errorf("expected error for %q", doc)
		}
	}
}

func TestParseVerses_ClassMatchIsExact(t *testing.T) {
	doc := `<div class="verses"><span class="label">9</span><span class="content">not a verse</span></div>
<p class="q verse"><span class="label">7a</span><span class="content">Sing</span></p>`
	verses, err := ParseVerses([]byte(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Verse{{Number: 7, Text: "Sing"}}
	if diff := cmp.Diff(want, verses); diff != "" {
		t.Errorf("verses mismatch (-want +got):\n%s", diff)
	}
}

func TestParseVerses_NoVerses(t *testing.T) {
	verses, err := ParseVerses([]byte("<p>Introduction</p>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(verses) != 0 {
		t.Errorf("expected no verses, got %d", len(verses))
	}
}

func TestCheckDownload(t *testing.T) {
	doc, err := json.Marshal(map[string]string{"content": genesisFragment})
	if err != nil {
		t.Fatal(err)
	}
	if err := CheckDownload(doc); err != nil {
		t.Errorf("expected the envelope to pass, got %v", err)
	}
	if err := CheckDownload([]byte(genesisFragment)); !errors.Is(err, ErrNotChapterDocument) {
		t.Errorf("expected a bare fragment download to be rejected, got %v", err)
	}
}

func TestLeadingInt(t *testing.T) {
	tests := map[string]int{"12": 12, " 3 ": 3, "4-5": 4, "": 0, "x": 0}
	for in, want := range tests {
		if got := leadingInt(in); got != want {
			t.Errorf("leadingInt(%q) = %d, want %d", in, got, want)
		}
	}
}

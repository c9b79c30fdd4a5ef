package research

import (
	"encoding/json"
	"testing"

	"gorm.io/datatypes"
)

func TestPaperJSONFieldsRoundTrip(t *testing.T) {
	p := Paper{
		Title:   "P",
		Authors: datatypes.JSONSlice[string]{"Ada Lovelace", "Alan Turing"},
		Metadata: datatypes.NewJSONType(PaperMetadata{
			CitationCount: 12,
			Categories:    []string{"cs.LG"},
		}),
	}
	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Paper
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(back.Authors) != 2 || back.Authors[1] != "Alan Turing" {
		t.Fatalf("authors lost: %#v", back.Authors)
	}
	if back.Metadata.Data().CitationCount != 12 || back.Metadata.Data().Categories[0] != "cs.LG" {
		t.Fatalf("metadata lost: %#v", back.Metadata.Data())
	}
}

func TestPaperBeforeCreateDefaults(t *testing.T) {
	p := &Paper{Title: "P"}
	if err := p.BeforeCreate(nil); err != nil {
		t.Fatalf("BeforeCreate: %v", err)
	}
	if p.Authors == nil {
		t.Fatalf("authors should default to an empty list")
	}
	if p.Source != SourceManual {
		t.Fatalf("source default: got %q", p.Source)
	}
	raw, _ := json.Marshal(p.Authors)
	if string(raw) != "[]" {
		t.Fatalf("empty authors should encode as [], got %s", raw)
	}
}

func TestValidSource(t *testing.T) {
	for _, s := range []string{"arxiv", "semantic_scholar", "manual"} {
		if !ValidSource(s) {
			t.Fatalf("%s should be valid", s)
		}
	}
	if ValidSource("pubmed") || ValidSource("") {
		t.Fatalf("unexpected valid source")
	}
}

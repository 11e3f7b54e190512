package jsonl

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docs.jsonl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `{"id":"d1","text":"bad bad hombre","attrs":{"party":"rep"}}
{"id":"d2","text":"very bad idea"}

{"id":"d3","text":"third"}
`)

	docs, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 docs, got %d", len(docs))
	}
	if docs[0].ID != "d1" || docs[0].Text != "bad bad hombre" {
		t.Errorf("docs[0] = %+v", docs[0])
	}
	if docs[0].Attrs["party"] != "rep" {
		t.Errorf("docs[0].Attrs = %v", docs[0].Attrs)
	}
	if docs[1].Attrs != nil {
		t.Errorf("docs[1].Attrs = %v, want nil", docs[1].Attrs)
	}
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	path := writeFile(t, `{"id":"d1","text":"fine"}
{not json at all
{"id":"d2","text":"also fine"}
`)

	docs, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 docs after skipping bad line, got %d", len(docs))
	}
	if docs[1].ID != "d2" {
		t.Errorf("docs[1].ID = %q", docs[1].ID)
	}
}

func TestLoadNoValidDocs(t *testing.T) {
	path := writeFile(t, "\n\nnot json\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for file without valid documents")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.jsonl")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestToCorpus(t *testing.T) {
	docs := []Raw{
		{ID: "b", Text: "second first"},
		{ID: "a", Text: "alpha", Attrs: map[string]string{"k": "v"}},
	}

	c, err := ToCorpus(docs)
	if err != nil {
		t.Fatalf("ToCorpus: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
	if c.Docs()[0].ID != "b" {
		t.Errorf("order not preserved: %v", c.Docs()[0].ID)
	}
	got, err := c.Get("a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Attr("k") != "v" {
		t.Errorf("Attr(k) = %q", got.Attr("k"))
	}
}

func TestToCorpusDuplicateID(t *testing.T) {
	docs := []Raw{{ID: "d1", Text: "x"}, {ID: "d1", Text: "y"}}
	if _, err := ToCorpus(docs); err == nil {
		t.Fatal("expected error for duplicate IDs")
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"plain", "no markup here", "no markup here"},
		{"tags", "<p>Strong <b>coffee</b></p>", "Strong coffee"},
		{"entities", "caf&eacute; &amp; donuts", "café & donuts"},
		{"script dropped", "<p>keep</p><script>var x = 1;</script><p>this</p>", "keep this"},
		{"style dropped", "<style>p{color:red}</style>visible", "visible"},
		{"nested", "<div><ul><li>one</li><li>two</li></ul></div>", "one two"},
		{"whitespace", "<p>a</p>\n\n<p>b</p>", "a b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripHTML(tt.in); got != tt.want {
				t.Errorf("StripHTML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

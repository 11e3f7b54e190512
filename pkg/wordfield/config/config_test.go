package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/parchlabs/wordfield/pkg/wordfield/internalerr"
)

func TestLoadStoplist(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "stoplist.yaml")

	content := `terms:
  - the
  - a
  - and
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	sl, err := LoadStoplist(path)
	if err != nil {
		t.Fatalf("LoadStoplist: %v", err)
	}

	if len(sl.Terms) != 3 {
		t.Errorf("Terms = %v, want 3 entries", sl.Terms)
	}
}

func TestLoadDictYAML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "dict.yaml")

	content := `entries:
  ml:
    - machine learning
    - deep learning
  game:
    - games
    - gaming
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	df, err := LoadDict(path)
	if err != nil {
		t.Fatalf("LoadDict: %v", err)
	}

	if len(df.Entries) != 2 {
		t.Errorf("Entries = %v, want 2 keys", df.Entries)
	}
	if len(df.Entries["ml"]) != 2 {
		t.Errorf("ml patterns = %v, want 2", df.Entries["ml"])
	}

	keys := df.SortedKeys()
	if len(keys) != 2 || keys[0] != "game" || keys[1] != "ml" {
		t.Errorf("SortedKeys() = %v, want [game ml]", keys)
	}
}

func TestLoadDictPipe(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "dict.txt")

	content := `# comment line
ml|machine learning|deep learning

game|games|gaming
broken-line-without-pipes
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	df, err := LoadDict(path)
	if err != nil {
		t.Fatalf("LoadDict: %v", err)
	}

	if len(df.Entries) != 2 {
		t.Errorf("Entries = %v, want 2 keys (comments and broken lines skipped)", df.Entries)
	}
	if len(df.Entries["ml"]) != 2 || df.Entries["ml"][0] != "machine learning" {
		t.Errorf("ml patterns = %v", df.Entries["ml"])
	}
}

func TestLoadParamsOverlaysDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "params.yaml")

	content := `min_count: 5
group_by: source
min_termfreq: 3
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadParams(path)
	if err != nil {
		t.Fatalf("LoadParams: %v", err)
	}

	if p.MinCount != 5 || p.GroupBy != "source" || p.MinTermFreq != 3 {
		t.Errorf("file values not applied: %+v", p)
	}
	// Untouched fields keep defaults
	if p.MinN != 2 || p.MaxN != 3 || p.Method != "pmi" || p.Language != "english" {
		t.Errorf("defaults lost: %+v", p)
	}
}

func TestParamsValidate(t *testing.T) {
	good := DefaultParams()
	if err := good.Validate(); err != nil {
		t.Errorf("default params should validate, got %v", err)
	}

	cases := []func(*Params){
		func(p *Params) { p.MinN = 1 },
		func(p *Params) { p.MaxN = 1 },
		func(p *Params) { p.MinCount = 0 },
		func(p *Params) { p.Method = "chi2" },
		func(p *Params) { p.MinTermFreq = -1 },
		func(p *Params) { p.MinDocFreq = -0.5 },
		func(p *Params) { p.DocFreqType = "percent" },
		func(p *Params) { p.DocFreqType = "proportion"; p.MinDocFreq = 1.5 },
		func(p *Params) { p.Workers = -2 },
	}
	for i, mutate := range cases {
		p := DefaultParams()
		mutate(&p)
		err := p.Validate()
		if !errors.Is(err, internalerr.ErrInvalidConfig) {
			t.Errorf("case %d: Validate() = %v, want ErrInvalidConfig", i, err)
		}
	}
}

func TestLoaderDefaults(t *testing.T) {
	loader := &Loader{}
	comp, err := loader.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Built-in English list via the default language
	if !comp.Stopwords.Contains("the") {
		t.Error("default stopwords should be the built-in English list")
	}
	if comp.Dictionary != nil {
		t.Error("no dictionary path should mean nil dictionary")
	}
	if comp.Params.MinCount != 2 {
		t.Errorf("Params.MinCount = %d, want default 2", comp.Params.MinCount)
	}
}

func TestLoaderWithFiles(t *testing.T) {
	tmpDir := t.TempDir()

	slPath := filepath.Join(tmpDir, "stops.yaml")
	os.WriteFile(slPath, []byte("terms: [foo, bar]"), 0644)

	dictPath := filepath.Join(tmpDir, "dict.yaml")
	os.WriteFile(dictPath, []byte("entries:\n  ml:\n    - machine learning\n"), 0644)

	paramsPath := filepath.Join(tmpDir, "params.yaml")
	os.WriteFile(paramsPath, []byte("min_count: 7"), 0644)

	loader := &Loader{StoplistPath: slPath, DictPath: dictPath, ParamsPath: paramsPath}
	comp, err := loader.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !comp.Stopwords.Contains("foo") {
		t.Error("custom stoplist not loaded")
	}
	if comp.Stopwords.Contains("the") {
		t.Error("custom stoplist should replace the built-in list")
	}
	if comp.Dictionary == nil {
		t.Fatal("dictionary not loaded")
	}
	if key, ok := comp.Dictionary.Match("machine learning"); !ok || key != "ml" {
		t.Errorf("Dictionary.Match = %q, %v", key, ok)
	}
	if comp.Params.MinCount != 7 {
		t.Errorf("Params.MinCount = %d, want 7", comp.Params.MinCount)
	}
}

func TestLoaderMissingFile(t *testing.T) {
	loader := &Loader{StoplistPath: "/nonexistent/stops.yaml"}
	if _, err := loader.Load(); err == nil {
		t.Error("missing stoplist file should error")
	}
}

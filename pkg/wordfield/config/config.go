package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/parchlabs/wordfield/pkg/wordfield/internalerr"
)

// Stoplist represents a stopword list file
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}

	return &sl, nil
}

// DictFile represents a dictionary file: key to patterns
type DictFile struct {
	Entries map[string][]string `yaml:"entries"`
}

// SortedKeys returns the dictionary keys in stable order.
func (d *DictFile) SortedKeys() []string {
	keys := make([]string, 0, len(d.Entries))
	for k := range d.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LoadDictYAML loads a dictionary from a YAML file
func LoadDictYAML(path string) (*DictFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var df DictFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, err
	}
	if df.Entries == nil {
		df.Entries = map[string][]string{}
	}

	return &df, nil
}

// LoadDictPipe loads a dictionary from a pipe-separated file
// Format: key|pattern1|pattern2|...
func LoadDictPipe(path string) (*DictFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	df := &DictFile{Entries: map[string][]string{}}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "|")
		if len(parts) < 2 {
			continue
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		key := parts[0]
		df.Entries[key] = append(df.Entries[key], parts[1:]...)
	}

	return df, nil
}

// LoadDict picks the dictionary format from the file extension:
// .yaml/.yml parse as YAML, anything else as pipe-separated lines.
func LoadDict(path string) (*DictFile, error) {
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		return LoadDictYAML(path)
	}
	return LoadDictPipe(path)
}

// Params holds the pipeline parameters of one analysis run. The JSON
// form is what gets persisted alongside stored runs.
type Params struct {
	Language      string  `yaml:"language" json:"language"`
	MinN          int     `yaml:"min_n" json:"min_n"`
	MaxN          int     `yaml:"max_n" json:"max_n"`
	MinCount      int64   `yaml:"min_count" json:"min_count"`
	Method        string  `yaml:"method" json:"method"`
	Top           int     `yaml:"top" json:"top"`
	Separator     string  `yaml:"separator" json:"separator"`
	Stemming      bool    `yaml:"stemming" json:"stemming"`
	StemCompounds bool    `yaml:"stem_compounds" json:"stem_compounds"`
	GroupBy       string  `yaml:"group_by" json:"group_by"`
	MinTermFreq   int64   `yaml:"min_termfreq" json:"min_termfreq"`
	MinDocFreq    float64 `yaml:"min_docfreq" json:"min_docfreq"`
	DocFreqType   string  `yaml:"docfreq_type" json:"docfreq_type"`
	Workers       int     `yaml:"workers" json:"workers"`
	Strict        bool    `yaml:"strict" json:"strict"`
}

// DefaultParams returns the standard pipeline settings.
func DefaultParams() Params {
	return Params{
		Language:    "english",
		MinN:        2,
		MaxN:        3,
		MinCount:    2,
		Method:      "pmi",
		Separator:   " ",
		Stemming:    true,
		DocFreqType: "count",
	}
}

// LoadParams reads parameters from a YAML file, with file values
// overlaying the defaults.
func LoadParams(path string) (Params, error) {
	p := DefaultParams()

	data, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, err
	}

	return p, p.Validate()
}

// Validate checks parameter ranges.
func (p Params) Validate() error {
	if p.MinN < 2 {
		return fmt.Errorf("%w: min_n must be at least 2, got %d", internalerr.ErrInvalidConfig, p.MinN)
	}
	if p.MaxN < p.MinN {
		return fmt.Errorf("%w: max_n %d below min_n %d", internalerr.ErrInvalidConfig, p.MaxN, p.MinN)
	}
	if p.MinCount < 1 {
		return fmt.Errorf("%w: min_count must be positive, got %d", internalerr.ErrInvalidConfig, p.MinCount)
	}
	switch p.Method {
	case "pmi", "loglik":
	default:
		return fmt.Errorf("%w: unknown method %q", internalerr.ErrInvalidConfig, p.Method)
	}
	if p.MinTermFreq < 0 {
		return fmt.Errorf("%w: min_termfreq must not be negative", internalerr.ErrInvalidConfig)
	}
	if p.MinDocFreq < 0 {
		return fmt.Errorf("%w: min_docfreq must not be negative", internalerr.ErrInvalidConfig)
	}
	switch p.DocFreqType {
	case "count", "proportion":
	default:
		return fmt.Errorf("%w: docfreq_type must be count or proportion, got %q", internalerr.ErrInvalidConfig, p.DocFreqType)
	}
	if p.DocFreqType == "proportion" && p.MinDocFreq > 1 {
		return fmt.Errorf("%w: proportional min_docfreq must be at most 1, got %g", internalerr.ErrInvalidConfig, p.MinDocFreq)
	}
	if p.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", internalerr.ErrInvalidConfig)
	}
	return nil
}

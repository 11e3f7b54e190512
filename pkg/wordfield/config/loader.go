package config

import (
	"fmt"

	"github.com/parchlabs/wordfield/pkg/wordfield/dict"
	"github.com/parchlabs/wordfield/pkg/wordfield/stopwords"
)

// Loader loads resource files and constructs ready-to-use components
type Loader struct {
	StoplistPath string
	DictPath     string
	ParamsPath   string
}

// Components holds the loaded configuration components
type Components struct {
	Stopwords  *stopwords.Set
	Dictionary *dict.Dictionary
	Params     Params
}

// Load reads the configured files and returns initialized components.
// A stoplist file replaces the built-in language list; without one,
// the Params language selects the built-in set.
func (l *Loader) Load() (*Components, error) {
	comp := &Components{Params: DefaultParams()}

	if l.ParamsPath != "" {
		p, err := LoadParams(l.ParamsPath)
		if err != nil {
			return nil, fmt.Errorf("load params: %w", err)
		}
		comp.Params = p
	}

	if l.StoplistPath != "" {
		sl, err := LoadStoplist(l.StoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		comp.Stopwords = stopwords.New(sl.Terms)
	} else {
		set, err := stopwords.ForLanguage(comp.Params.Language)
		if err != nil {
			return nil, fmt.Errorf("load stopwords: %w", err)
		}
		comp.Stopwords = set
	}

	if l.DictPath != "" {
		df, err := LoadDict(l.DictPath)
		if err != nil {
			return nil, fmt.Errorf("load dictionary: %w", err)
		}
		entries := make([]dict.Entry, 0, len(df.Entries))
		for _, key := range df.SortedKeys() {
			entries = append(entries, dict.Entry{Key: key, Patterns: df.Entries[key]})
		}
		comp.Dictionary = dict.New(entries)
	}

	return comp, nil
}

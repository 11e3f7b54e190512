// Package jsonl loads corpora from JSON-lines files, one document per
// line.
package jsonl

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/parchlabs/wordfield/pkg/wordfield/corpus"
)

// Raw is one document line: {"id": ..., "text": ..., "attrs": {...}}.
type Raw struct {
	ID    string            `json:"id"`
	Text  string            `json:"text"`
	Attrs map[string]string `json:"attrs"`
}

// Load reads documents from a JSONL file with proper error handling.
// Malformed lines are logged and skipped.
func Load(path string) ([]Raw, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	var docs []Raw
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var doc Raw
		if err := json.Unmarshal([]byte(line), &doc); err != nil {
			log.Printf("Warning: skipping malformed JSON at line %d in %s: %v", i+1, path, err)
			continue
		}
		docs = append(docs, doc)
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("no valid documents found in %s", path)
	}

	return docs, nil
}

// ToCorpus converts loaded documents into a corpus, preserving file
// order. A duplicate ID fails the whole conversion.
func ToCorpus(docs []Raw) (*corpus.Corpus, error) {
	c := corpus.New()
	for _, d := range docs {
		doc := corpus.Document{ID: d.ID, Text: d.Text, Attrs: d.Attrs}
		if err := c.Add(doc); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// StripHTML returns the visible text of markup, with entities decoded
// and whitespace collapsed. Script and style bodies are dropped.
// Strings without markup come back unchanged.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}

	tok := html.NewTokenizer(strings.NewReader(s))
	var (
		b    strings.Builder
		skip int
	)
	for {
		switch tok.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.StartTagToken:
			if name, _ := tok.TagName(); isOpaque(string(name)) {
				skip++
			}
		case html.EndTagToken:
			if name, _ := tok.TagName(); isOpaque(string(name)) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(tok.Text())
				b.WriteByte(' ')
			}
		}
	}
}

func isOpaque(tag string) bool {
	return tag == "script" || tag == "style"
}

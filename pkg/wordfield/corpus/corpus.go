package corpus

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/parchlabs/wordfield/pkg/wordfield/internalerr"
)

// Document is one unit of text with optional attributes.
// Attributes carry document variables such as source or author and are
// the basis for grouping downstream.
type Document struct {
	ID    string
	Text  string
	Attrs map[string]string
}

// Attr returns the named attribute value, or "" when absent.
func (d *Document) Attr(name string) string {
	if d.Attrs == nil {
		return ""
	}
	return d.Attrs[name]
}

// Validate checks that the document can enter the pipeline.
// Empty text is legal. A missing ID or undecodable text is not.
func (d *Document) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("%w: document ID is required", internalerr.ErrInvalidInput)
	}

	if !utf8.ValidString(d.Text) {
		return fmt.Errorf("%w: document %s: text is not valid UTF-8", internalerr.ErrInvalidInput, d.ID)
	}

	if d.Text != "" && !hasPrintable(d.Text) {
		return fmt.Errorf("%w: document %s: text contains no printable characters", internalerr.ErrInvalidInput, d.ID)
	}

	return nil
}

func hasPrintable(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) || r == utf8.RuneError {
			continue
		}
		return true
	}
	return false
}

// Corpus is an ordered collection of documents. Order is insertion
// order and stays stable through every downstream stage.
type Corpus struct {
	docs []Document
	byID map[string]int
}

// New creates an empty corpus.
func New() *Corpus {
	return &Corpus{byID: make(map[string]int)}
}

// Add appends a document. A duplicate ID is rejected so grouping and
// per-document counts stay unambiguous.
func (c *Corpus) Add(doc Document) error {
	if _, ok := c.byID[doc.ID]; ok {
		return fmt.Errorf("%w: document %s", internalerr.ErrDuplicate, doc.ID)
	}
	c.byID[doc.ID] = len(c.docs)
	c.docs = append(c.docs, doc)
	return nil
}

// Len returns the number of documents.
func (c *Corpus) Len() int {
	return len(c.docs)
}

// Docs returns the documents in corpus order. The slice is shared;
// callers must not modify it.
func (c *Corpus) Docs() []Document {
	return c.docs
}

// Get returns the document with the given ID.
func (c *Corpus) Get(id string) (Document, error) {
	i, ok := c.byID[id]
	if !ok {
		return Document{}, fmt.Errorf("%w: document %s", internalerr.ErrNotFound, id)
	}
	return c.docs[i], nil
}

// AttrValues returns the distinct values of the named attribute in
// first-appearance order. Documents without the attribute contribute "".
func (c *Corpus) AttrValues(name string) []string {
	seen := make(map[string]struct{})
	var values []string
	for i := range c.docs {
		v := c.docs[i].Attr(name)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return values
}

// GroupLabels maps each document ID to its value for the named
// attribute. Used when collapsing a matrix to group rows.
func (c *Corpus) GroupLabels(name string) map[string]string {
	labels := make(map[string]string, len(c.docs))
	for i := range c.docs {
		labels[c.docs[i].ID] = c.docs[i].Attr(name)
	}
	return labels
}

// Package freq derives ranked frequency tables from document-feature
// matrices. Tables are terminal read-only summaries: feature, group,
// total count, rank, and the number of member documents containing the
// feature.
package freq

import (
	"sort"

	"github.com/parchlabs/wordfield/pkg/wordfield/dfm"
)

// Entry is one row of a frequency table.
type Entry struct {
	Feature string `json:"feature"`
	Group   string `json:"group"`
	Count   int64  `json:"count"`
	Rank    int64  `json:"rank"`
	DocFreq int64  `json:"docfreq"`
}

// Table ranks all features of a per-document matrix corpus-wide. The
// group column reads "all".
func Table(m *dfm.Matrix) []Entry {
	labels := make(map[string]string, m.NRows())
	for _, row := range m.Rows() {
		labels[row] = "all"
	}
	return TableByGroup(m, labels)
}

// TableByGroup ranks features within each group of a per-document
// matrix. labels maps document rows to group labels; rows missing from
// labels fall into the "" group. Within a group, rank 1 is the highest
// count and ties order lexicographically by feature, so every run of
// the same input yields the same table. DocFreq counts the group's
// member documents containing the feature.
func TableByGroup(docs *dfm.Matrix, labels map[string]string) []Entry {
	type key struct{ group, feature string }
	counts := make(map[key]int64)
	docfreq := make(map[key]int64)
	for _, tr := range docs.Triples() {
		k := key{group: labels[tr.Row], feature: tr.Feature}
		counts[k] += tr.Count
		docfreq[k]++
	}

	byGroup := make(map[string][]Entry)
	for k, c := range counts {
		byGroup[k.group] = append(byGroup[k.group], Entry{
			Feature: k.feature,
			Group:   k.group,
			Count:   c,
			DocFreq: docfreq[k],
		})
	}

	// Groups appear in first-appearance order of their member rows
	var groups []string
	seen := make(map[string]struct{})
	for _, row := range docs.Rows() {
		g := labels[row]
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		groups = append(groups, g)
	}

	var out []Entry
	for _, g := range groups {
		entries := byGroup[g]
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].Count != entries[j].Count {
				return entries[i].Count > entries[j].Count
			}
			return entries[i].Feature < entries[j].Feature
		})
		for i := range entries {
			entries[i].Rank = int64(i + 1)
		}
		out = append(out, entries...)
	}
	return out
}

// TopN keeps the entries ranked n or better in each group.
func TopN(entries []Entry, n int) []Entry {
	if n <= 0 {
		return nil
	}
	var out []Entry
	for _, e := range entries {
		if e.Rank <= int64(n) {
			out = append(out, e)
		}
	}
	return out
}

// Package knowledge holds the static advisory corpus and the scored lookup
// the assistant grounds its answers on. Ranking is heuristic keyword +
// metadata scoring; there is deliberately no embedding/vector search here.
package knowledge

import (
	"sort"
	"strings"
	"time"
)

// Document is one advisory entry. Immutable once loaded; the corpus is only
// reloaded at process restart.
type Document struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Country         string    `json:"country"`
	VisaType        string    `json:"visa_type"`
	Content         string    `json:"content"`
	SourceAuthority string    `json:"source_authority"`
	LastVerified    time.Time `json:"last_verified"`
}

// Base answers scored lookups over a loaded corpus. Safe for concurrent use:
// the document slice is never mutated after construction.
type Base struct {
	docs []Document
}

// New builds a Base over the given documents. An empty or nil corpus is
// valid and produces a Base whose searches return no results, letting the
// caller degrade instead of failing.
func New(docs []Document) *Base {
	return &Base{docs: docs}
}

// Len reports the number of loaded documents.
func (b *Base) Len() int {
	return len(b.docs)
}

type scoredDoc struct {
	doc          Document
	countryMatch bool
	visaMatch    bool
	overlap      int
	pos          int
}

// Search returns up to limit documents ranked for the query. Country exact
// matches (case-insensitive) outrank non-matches, then visa-type matches,
// then keyword-token overlap with title+content, descending. Ties keep
// corpus order. When nothing overlaps lexically but a country filter was
// given, the top documents for that country are returned instead of an
// empty result, because natural questions often share no tokens with the
// corpus headings.
func (b *Base) Search(query, country, visaType string, limit int) []Document {
	if limit <= 0 || len(b.docs) == 0 {
		return nil
	}

	queryTokens := tokenize(query)
	scored := make([]scoredDoc, 0, len(b.docs))
	anyOverlap := false

	for i, doc := range b.docs {
		s := scoredDoc{
			doc:          doc,
			countryMatch: country != "" && strings.EqualFold(doc.Country, country),
			visaMatch:    visaType != "" && strings.EqualFold(doc.VisaType, visaType),
			overlap:      overlapCount(queryTokens, doc),
			pos:          i,
		}
		if s.overlap > 0 {
			anyOverlap = true
		}
		scored = append(scored, s)
	}

	if !anyOverlap {
		if country == "" {
			return nil
		}
		return b.topForCountry(country, limit)
	}

	// Keep documents that matched lexically or satisfy a metadata filter.
	kept := scored[:0]
	for _, s := range scored {
		if s.overlap > 0 || s.countryMatch || s.visaMatch {
			kept = append(kept, s)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].countryMatch != kept[j].countryMatch {
			return kept[i].countryMatch
		}
		if kept[i].visaMatch != kept[j].visaMatch {
			return kept[i].visaMatch
		}
		if kept[i].overlap != kept[j].overlap {
			return kept[i].overlap > kept[j].overlap
		}
		return kept[i].pos < kept[j].pos
	})

	if len(kept) > limit {
		kept = kept[:limit]
	}
	out := make([]Document, len(kept))
	for i, s := range kept {
		out[i] = s.doc
	}
	return out
}

func (b *Base) topForCountry(country string, limit int) []Document {
	var out []Document
	for _, doc := range b.docs {
		if strings.EqualFold(doc.Country, country) {
			out = append(out, doc)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

func tokenize(text string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,;:!?\"'()")
		if tok != "" {
			set[tok] = true
		}
	}
	return set
}

func overlapCount(queryTokens map[string]bool, doc Document) int {
	if len(queryTokens) == 0 {
		return 0
	}
	count := 0
	for tok := range tokenize(doc.Title + " " + doc.Content) {
		if queryTokens[tok] {
			count++
		}
	}
	return count
}

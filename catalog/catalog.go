// Package catalog holds the menu catalog, alias match index and the
// free-text item matcher used by the conversation engine.
package catalog

import (
	"regexp"
	"sort"
	"strings"
)

// Entry is one sellable menu item. Price is in the smallest currency unit.
// Keys holds the normalized base match strings (at minimum the normalized
// display name). Entries are immutable once the catalog is built.
type Entry struct {
	SKU   string
	Name  string
	Price int
	Keys  []string
}

// Catalog is an ordered set of entries. Iteration order is the menu file
// order, which also fixes the matcher's evaluation order.
type Catalog struct {
	Entries []*Entry
	bySKU   map[string]*Entry
}

// NewCatalog builds a catalog preserving the given entry order.
func NewCatalog(entries []*Entry) *Catalog {
	c := &Catalog{
		Entries: entries,
		bySKU:   make(map[string]*Entry, len(entries)),
	}
	for _, e := range entries {
		c.bySKU[e.SKU] = e
	}
	return c
}

// Get returns the entry for a SKU, or nil.
func (c *Catalog) Get(sku string) *Entry {
	return c.bySKU[sku]
}

var beverageNameWords = []string{"coca", "gaseosa", "agua", "bebida", "jugo", "pepsi", "sprite", "fanta"}

// HasBeverages reports whether any entry name looks like a beverage. Used to
// answer "quiero una coca" honestly when the menu has no drinks that day.
func (c *Catalog) HasBeverages() bool {
	var names []string
	for _, e := range c.Entries {
		names = append(names, Normalize(e.Name))
	}
	joined := strings.Join(names, " ")
	for _, w := range beverageNameWords {
		if strings.Contains(joined, w) {
			return true
		}
	}
	return false
}

// candidate is one precompiled match string, tied back to its entry.
type candidate struct {
	sku        string
	text       string
	entryOrder int
	re         *regexp.Regexp // whole-word occurrence of text
}

// MatchIndex is the precompiled matcher state of one catalog: every alias of
// every entry in a single try order sorted by descending string length, then
// lexicographically, then catalog order. Longer, more specific phrases are
// tried before shorter substrings so a generic alias ("sandwich") never
// shadows a more specific one ("sandwich especial"), within one entry or
// across entries.
type MatchIndex []candidate

// BuildMatchIndex combines entry keys with configured synonyms, adds the
// mechanical sandwich/sanguche spelling variants, and compiles the whole-word
// patterns in try order.
func BuildMatchIndex(c *Catalog, synonyms map[string][]string) MatchIndex {
	var idx MatchIndex
	for order, e := range c.Entries {
		set := make(map[string]struct{})
		for _, k := range e.Keys {
			if k != "" {
				set[k] = struct{}{}
			}
		}
		for _, a := range synonyms[e.SKU] {
			if a = Normalize(a); a != "" {
				set[a] = struct{}{}
			}
		}
		// regional spelling variants, derived mechanically from each alias
		for k := range set {
			set[strings.ReplaceAll(k, "sandwich", "sanguche")] = struct{}{}
			set[strings.ReplaceAll(k, "sanguche", "sandwich")] = struct{}{}
		}
		for t := range set {
			idx = append(idx, candidate{
				sku:        e.SKU,
				text:       t,
				entryOrder: order,
				re:         regexp.MustCompile(`\b` + regexp.QuoteMeta(t) + `\b`),
			})
		}
	}
	sort.Slice(idx, func(i, j int) bool {
		if len(idx[i].text) != len(idx[j].text) {
			return len(idx[i].text) > len(idx[j].text)
		}
		if idx[i].text != idx[j].text {
			return idx[i].text < idx[j].text
		}
		return idx[i].entryOrder < idx[j].entryOrder
	})
	return idx
}

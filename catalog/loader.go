package catalog

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

var priceRe = regexp.MustCompile(`\$?\s*\d[\d\.]*`)

// ParsePrice extracts an integer price from text such as "$10000", "10000" or
// "$ 10.000" (dots are thousands separators). Returns ok=false when the text
// carries no price.
func ParsePrice(s string) (int, bool) {
	m := priceRe.FindString(s)
	if m == "" {
		return 0, false
	}
	m = strings.NewReplacer("$", "", " ", "", ".", "").Replace(m)
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// LoadMenu parses the menu file. Each line is "Name = $price" or "Name $price";
// blank lines and "#" comments are skipped, as are lines missing a name or a
// price. A missing file is a configuration error, not a conversation error.
func LoadMenu(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read menu file %s", path)
	}
	var entries []*Entry
	for _, ln := range strings.Split(string(raw), "\n") {
		line := strings.TrimSpace(ln)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var name string
		var price int
		var ok bool
		if left, right, split := strings.Cut(line, "="); split {
			name = strings.TrimSpace(left)
			price, ok = ParsePrice(right)
		} else {
			name = strings.TrimSpace(priceRe.ReplaceAllString(line, ""))
			price, ok = ParsePrice(line)
		}
		if name == "" || !ok {
			continue
		}
		entries = append(entries, &Entry{
			SKU:   Slugify(name),
			Name:  name,
			Price: price,
			Keys:  []string{Normalize(name)},
		})
	}
	return NewCatalog(entries), nil
}

// LoadSynonyms parses the optional synonyms file. Each line is
// "sku|alias, alias, ...". A missing file simply yields no synonyms.
func LoadSynonyms(path string) (map[string][]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string][]string{}, nil
		}
		return nil, errors.Wrapf(err, "failed to read synonyms file %s", path)
	}
	syn := make(map[string][]string)
	for _, ln := range strings.Split(string(raw), "\n") {
		line := strings.TrimSpace(ln)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sku, rhs, split := strings.Cut(line, "|")
		if !split {
			continue
		}
		sku = strings.TrimSpace(sku)
		var aliases []string
		for _, a := range strings.Split(rhs, ",") {
			if a = Normalize(a); a != "" {
				aliases = append(aliases, a)
			}
		}
		if len(aliases) > 0 {
			syn[sku] = aliases
		}
	}
	return syn, nil
}

// Loader rebuilds the catalog and match index from disk per invocation, so
// menu edits take effect without a restart. Concurrent loads are collapsed
// into one file read via singleflight.
type Loader struct {
	MenuPath     string
	SynonymsPath string

	group singleflight.Group
}

type loaded struct {
	cat *Catalog
	idx MatchIndex
}

// Load reads the menu and synonym files and builds the match index.
func (l *Loader) Load() (*Catalog, MatchIndex, error) {
	v, err, _ := l.group.Do("catalog", func() (any, error) {
		cat, err := LoadMenu(l.MenuPath)
		if err != nil {
			return nil, err
		}
		syn, err := LoadSynonyms(l.SynonymsPath)
		if err != nil {
			return nil, err
		}
		return loaded{cat: cat, idx: BuildMatchIndex(cat, syn)}, nil
	})
	if err != nil {
		return nil, nil, err
	}
	ld := v.(loaded)
	return ld.cat, ld.idx, nil
}

package catalog

import (
	"regexp"
	"strconv"
)

// Spelled-out Spanish quantities recognized immediately before an alias.
var numberWords = map[string]int{
	"un": 1, "una": 1, "uno": 1,
	"dos": 2, "tres": 3, "cuatro": 4, "cinco": 5,
	"seis": 6, "siete": 7, "ocho": 8, "nueve": 9, "diez": 10,
}

// Quantity patterns are anchored to the matched alias span: qtyAfter runs
// against the text following the alias, the rest against the text before it.
var (
	qtyAfter      = regexp.MustCompile(`^\s*x\s*(\d+)\b`)
	qtyBeforeX    = regexp.MustCompile(`\b(\d+)\s*x\s*$`)
	qtyBeforeBare = regexp.MustCompile(`\b(\d+)\s+$`)
	qtyBeforeWord = regexp.MustCompile(`\b(un|una|uno|dos|tres|cuatro|cinco|seis|siete|ocho|nueve|diez)\s+$`)
)

// Match scans normalized text for catalog entries and returns SKU → quantity.
// Aliases are tried longest-first across the whole catalog; a matched span is
// claimed so a shorter alias cannot re-match inside a longer one, and an
// entry contributes at most once per message no matter how often it is
// mentioned. Returns an empty map when nothing matches; it never fails.
func Match(text string, idx MatchIndex) map[string]int {
	found := make(map[string]int)
	var claimed [][2]int
	for _, cand := range idx {
		if _, done := found[cand.sku]; done {
			continue
		}
		for _, loc := range cand.re.FindAllStringIndex(text, -1) {
			if overlaps(claimed, loc[0], loc[1]) {
				continue
			}
			claimed = append(claimed, [2]int{loc[0], loc[1]})
			found[cand.sku] = quantityNear(text, loc[0], loc[1])
			break
		}
	}
	return found
}

func overlaps(claimed [][2]int, start, end int) bool {
	for _, c := range claimed {
		if start < c[1] && end > c[0] {
			return true
		}
	}
	return false
}

// quantityNear resolves the quantity for an alias occupying text[start:end].
// Priority: "alias x N", "N x alias", "N alias", "dos alias", default 1.
// Numbers elsewhere in the message are ignored.
func quantityNear(text string, start, end int) int {
	after, before := text[end:], text[:start]
	if m := qtyAfter.FindStringSubmatch(after); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	if m := qtyBeforeX.FindStringSubmatch(before); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	if m := qtyBeforeBare.FindStringSubmatch(before); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	if m := qtyBeforeWord.FindStringSubmatch(before); m != nil {
		return numberWords[m[1]]
	}
	return 1
}

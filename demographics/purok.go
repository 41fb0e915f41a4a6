package demographics

import (
	"sort"
	"strconv"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// PurokLabelPrefix is prepended to the raw purok key for display.
// The key itself is never reformatted or zero-padded.
const PurokLabelPrefix = "Purok "

// PurokLabel renders a purok key as its display label, e.g. "Purok 7".
func PurokLabel(key string) string {
	return PurokLabelPrefix + key
}

// SortPurokKeys orders purok keys for display: ascending numerically when
// every key parses as a number, otherwise by locale-aware string comparison.
func SortPurokKeys(keys []string) []string {
	sorted := make([]string, len(keys))
	copy(sorted, keys)

	numeric := true
	values := make(map[string]float64, len(sorted))
	for _, k := range sorted {
		n, err := strconv.ParseFloat(k, 64)
		if err != nil {
			numeric = false
			break
		}
		values[k] = n
	}

	if numeric {
		sort.Slice(sorted, func(i, j int) bool {
			return values[sorted[i]] < values[sorted[j]]
		})
		return sorted
	}

	// Collators are not safe for concurrent use, so build one per call.
	c := collate.New(language.English)
	sort.Slice(sorted, func(i, j int) bool {
		return c.CompareString(sorted[i], sorted[j]) < 0
	})
	return sorted
}

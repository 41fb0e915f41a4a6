package demographics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortPurokKeysNumeric(t *testing.T) {
	got := SortPurokKeys([]string{"10", "2", "1"})
	assert.Equal(t, []string{"1", "2", "10"}, got)

	labels := make([]string, len(got))
	for i, k := range got {
		labels[i] = PurokLabel(k)
	}
	assert.Equal(t, []string{"Purok 1", "Purok 2", "Purok 10"}, labels)
}

func TestSortPurokKeysLexical(t *testing.T) {
	// One non-numeric key switches the whole ordering to string compare.
	got := SortPurokKeys([]string{"10", "2", "Riverside"})
	assert.Equal(t, []string{"10", "2", "Riverside"}, got)
}

func TestSortPurokKeysDoesNotMutateInput(t *testing.T) {
	keys := []string{"3", "1", "2"}
	SortPurokKeys(keys)
	assert.Equal(t, []string{"3", "1", "2"}, keys)
}

func TestPurokLabelKeepsRawKey(t *testing.T) {
	assert.Equal(t, "Purok 7", PurokLabel("7"))
	assert.Equal(t, "Purok 07", PurokLabel("07"), "keys are never reformatted")
}

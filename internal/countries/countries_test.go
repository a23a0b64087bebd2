package countries

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogCodesAreUniqueTwoLetter(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range All() {
		assert.Len(t, c.Code, 2, "code %q", c.Code)
		assert.False(t, seen[c.Code], "duplicate code %q", c.Code)
		seen[c.Code] = true
		assert.NotEmpty(t, c.Name)
		assert.NotEmpty(t, c.Region)
	}
}

func TestByRegionCoversCatalog(t *testing.T) {
	total := 0
	for region, list := range ByRegion() {
		for _, c := range list {
			assert.Equal(t, region, c.Region)
		}
		total += len(list)
	}
	assert.Equal(t, len(All()), total)
}

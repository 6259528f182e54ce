package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/store-locator/internal/domain"
	"github.com/pkordes/store-locator/testutil"
)

func TestTagRepo_Counts(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	for slug, tags := range map[string][]string{
		"one":   {"Wifi", "Vegan"},
		"two":   {"Wifi"},
		"three": {"Wifi", "Licensed"},
		"none":  {},
	} {
		s := testutil.StoreFixture(slug, slug)
		s.Tags = tags
		_, err := r.stores.Create(ctx, s)
		require.NoError(t, err)
	}

	got, err := r.tags.Counts(ctx)

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, domain.TagCount{Tag: "Wifi", Count: 3}, got[0])
	assert.ElementsMatch(t,
		[]domain.TagCount{{Tag: "Vegan", Count: 1}, {Tag: "Licensed", Count: 1}},
		got[1:])
}

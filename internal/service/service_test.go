package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksomany/supply-chain-dashboard/internal/purchasefilter"
)

// An empty typeahead query must not reach the repository. The nil repo
// guarantees the test panics if it does.
func TestSuggestProductsEmptyQuerySkipsRepository(t *testing.T) {
	s := New(nil)

	got, err := s.SuggestProducts(context.Background(), purchasefilter.Filter{}, "")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSuggestSKUsEmptyQuerySkipsRepository(t *testing.T) {
	s := New(nil)

	got, err := s.SuggestSKUs(context.Background(), purchasefilter.Filter{}, "", 42)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

package helpers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHelpers(t *testing.T) {
	t.Run(`IsContextDone check`, func(t *testing.T) {
		require.True(t, IsContextDone(nil))
		ctx, cancel := context.WithCancel(context.Background())
		require.False(t, IsContextDone(ctx))
		cancel()
		require.True(t, IsContextDone(ctx))
	})

	t.Run(`NormalizeLocation check`, func(t *testing.T) {
		require.Equal(t, "new york city ny", NormalizeLocation("  New York City, NY "))
		require.Equal(t, "chicago il", NormalizeLocation("Chicago,IL."))
		require.Equal(t, "", NormalizeLocation("   "))
	})
}

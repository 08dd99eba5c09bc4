package words

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupported(t *testing.T) {
	t.Parallel()

	assert.True(t, Supported(5))
	assert.False(t, Supported(0))
	assert.False(t, Supported(40))
}

func TestRandom(t *testing.T) {
	t.Parallel()

	w, ok := Random(5, nil)
	require.True(t, ok)
	assert.Len(t, w, 5)

	_, ok = Random(40, nil)
	assert.False(t, ok)
}

func TestRandom_AvoidsExcluded(t *testing.T) {
	t.Parallel()

	first, ok := Random(5, nil)
	require.True(t, ok)

	exclude := map[string]bool{first: true}
	for i := 0; i < 50; i++ {
		w, ok := Random(5, exclude)
		require.True(t, ok)
		assert.NotEqual(t, first, w)
	}
}

func TestPick_Distinct(t *testing.T) {
	t.Parallel()

	picked, ok := Pick(5, 3)
	require.True(t, ok)
	require.Len(t, picked, 3)

	seen := make(map[string]bool)
	for _, w := range picked {
		assert.Len(t, w, 5)
		assert.False(t, seen[w], "duplicate word %q", w)
		seen[w] = true
	}
}

func TestPick_TooMany(t *testing.T) {
	t.Parallel()

	_, ok := Pick(5, 100000)
	assert.False(t, ok)

	_, ok = Pick(40, 1)
	assert.False(t, ok)
}

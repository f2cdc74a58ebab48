package apikey

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	key, err := New()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, Prefix))
	assert.True(t, Looks(key))
}

func TestNewIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		key, err := New()
		require.NoError(t, err)
		assert.False(t, seen[key], "duplicate key generated")
		seen[key] = true
	}
}

func TestLooksRejectsGarbage(t *testing.T) {
	assert.False(t, Looks(""))
	assert.False(t, Looks("qk_short"))
	assert.False(t, Looks("nok_aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"))
	assert.False(t, Looks("qk_%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%"))
}

func TestMask(t *testing.T) {
	key, err := New()
	require.NoError(t, err)
	masked := Mask(key)
	assert.True(t, strings.HasPrefix(masked, Prefix+"****"))
	assert.True(t, strings.HasSuffix(masked, key[len(key)-4:]))
	assert.NotContains(t, masked, key[len(Prefix):len(key)-4])
}

package booking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		assert.Len(t, code, 6)
		for _, r := range code {
			assert.Contains(t, codeAlphabet, string(r))
		}
		seen[code] = true
	}
	// 500 draws from a 32^6 space colliding down to a handful would mean
	// the generator is broken.
	assert.Greater(t, len(seen), 490)
}

func TestCodeAlphabetExcludesAmbiguousGlyphs(t *testing.T) {
	for _, banned := range []string{"0", "O", "1", "I"} {
		assert.False(t, strings.Contains(codeAlphabet, banned), "alphabet must not contain %q", banned)
	}
	// 256 mod 32 == 0, so the byte-modulo draw is uniform.
	assert.Equal(t, 32, len(codeAlphabet))
	assert.Equal(t, 0, 256%len(codeAlphabet))
}

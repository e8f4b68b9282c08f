package uniuri

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLenChars(t *testing.T) {
	testCases := []struct {
		name   string
		length int
		chars  []byte
	}{
		{name: "standard", length: StdLen, chars: StdChars},
		{name: "session key", length: 32, chars: StdChars},
		{name: "binary alphabet", length: 200, chars: []byte("01")},
		{name: "odd alphabet", length: 50, chars: []byte("abc")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := NewLenChars(tc.length, tc.chars)
			assert.Len(t, got, tc.length)

			for _, r := range got {
				assert.True(t, strings.ContainsRune(string(tc.chars), r), "unexpected character %q", r)
			}
		})
	}
}

func TestNewIsRandom(t *testing.T) {
	seen := map[string]bool{}

	for range 100 {
		id := New()
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestNewLenCharsEdgeCases(t *testing.T) {
	assert.Empty(t, NewLen(0))
	assert.Empty(t, NewLen(-1))
	assert.Panics(t, func() { NewLenChars(4, []byte("a")) })
}

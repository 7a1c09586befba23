package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedRandom_Default(t *testing.T) {
	buf := make([]byte, 3)
	n, err := NewFixedRandom().Read(buf)

	assert.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []byte{0xab, 0xab, 0xab}, buf)
}

func TestFixedRandom_PatternContinuesAcrossReads(t *testing.T) {
	r := NewFixedRandom(1, 2, 3)

	a := make([]byte, 2)
	b := make([]byte, 3)
	_, _ = r.Read(a)
	_, _ = r.Read(b)

	assert.Equal(t, []byte{1, 2}, a)
	assert.Equal(t, []byte{3, 1, 2}, b)
}

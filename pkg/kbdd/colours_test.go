package kbdd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColourForInBounds(t *testing.T) {
	scheme := ColourList("ffffff", "E6F0AF", "ff0000")

	for i, want := range []string{"ffffff", "E6F0AF", "ff0000"} {
		got, ok := scheme.ColourFor(i)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestColourForFallsBackToPreviousLayout(t *testing.T) {
	scheme := ColourList("ffffff", "E6F0AF")

	got, ok := scheme.ColourFor(5)
	assert.True(t, ok)
	assert.Equal(t, "E6F0AF", got)
}

func TestColourForNeverUnderflows(t *testing.T) {
	scheme := ColourList("ffffff")

	_, ok := scheme.ColourFor(-1)
	assert.False(t, ok)

	_, ok = NoColours().ColourFor(0)
	assert.False(t, ok)
}

func TestColourListEmptyIsDisabled(t *testing.T) {
	assert.False(t, ColourList().Enabled())
	assert.True(t, ColourList("fff").Enabled())
}

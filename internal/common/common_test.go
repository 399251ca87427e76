package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidMood(t *testing.T) {
	for _, m := range Moods {
		assert.True(t, IsValidMood(m), m)
	}
	assert.False(t, IsValidMood(""))
	assert.False(t, IsValidMood("happy"))
	assert.False(t, IsValidMood("Excited"))
}

func TestIsValidStress(t *testing.T) {
	tests := []struct {
		in   int
		want bool
	}{
		{0, false},
		{1, true},
		{5, true},
		{10, true},
		{11, false},
		{-3, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValidStress(tt.in), "stress=%d", tt.in)
	}
}

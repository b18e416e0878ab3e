package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignalEligible(t *testing.T) {
	s := Signal{Index: 3, Buy: true}
	assert.True(t, s.Eligible(Buy))
	assert.False(t, s.Eligible(Sell))
	assert.False(t, s.Eligible(Kind(9)))
}

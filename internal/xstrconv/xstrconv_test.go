package xstrconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseYes(t *testing.T) {
	assert.True(t, ParseYes("SIM"))
	assert.True(t, ParseYes(" sim "))
	assert.False(t, ParseYes("NÃO"))
	assert.False(t, ParseYes("yes"))
	assert.False(t, ParseYes(""))
}

func TestParseCount(t *testing.T) {
	assert.Equal(t, 0, ParseCount(""))
	assert.Equal(t, 54, ParseCount("54"))
	assert.Equal(t, 0, ParseCount("-3"))
	assert.Equal(t, 0, ParseCount("12a"))
	assert.Equal(t, 0, ParseCount(" 7"))
}

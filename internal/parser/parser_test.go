package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{name: "integer", input: "1500", expected: 1500},
		{name: "decimal", input: "99.90", expected: 99.9},
		{name: "surrounding whitespace", input: "  1500\n", expected: 1500},
		{name: "trailing currency", input: "1500 rub", expected: 1500},
		{name: "comma decimal keeps integer part", input: "1500,50", expected: 1500},
		{name: "not a number", input: "abc", expected: 0},
		{name: "empty", input: "", expected: 0},
		{name: "negative", input: "-10", expected: 0},
		{name: "exponent", input: "1e3", expected: 1000},
		{name: "leading dot", input: ".5", expected: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParsePrice(tt.input))
		})
	}
}

func TestParseOldPrice(t *testing.T) {
	value := ParseOldPrice("2000")
	require.NotNil(t, value)
	assert.Equal(t, 2000.0, *value)

	assert.Nil(t, ParseOldPrice("abc"))
	assert.Nil(t, ParseOldPrice(""))
	assert.Nil(t, ParseOldPrice("0"))
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "  Warm   leather boot \n", expected: "Warm leather boot"},
		{name: "paragraphs", input: "<p>Warm boot</p><p>Size <b>42</b></p>", expected: "Warm boot Size 42"},
		{name: "line breaks", input: "Line one<br>Line two", expected: "Line one Line two"},
		{name: "drops scripts", input: "<p>Boot</p><script>alert(1)</script>", expected: "Boot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PlainText(tt.input))
		})
	}
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", Excerpt("short", 10))
	assert.Equal(t, "Warm leather…", Excerpt("Warm leather boot for winter", 15))
	assert.Equal(t, "unlimited text", Excerpt("unlimited text", 0))
}

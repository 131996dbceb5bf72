package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnnotations(t *testing.T) {
	raw := `[
		{"type":"error","content":"Token expiry missing"},
		{"type":"suggestion","content":"Add an example request"},
		{"type":"keyInfo","content":"Tokens are JWTs"}
	]`
	cards, err := ParseAnnotations(raw)
	require.NoError(t, err)
	assert.Equal(t, []Annotation{
		{Category: Defect, Text: "Token expiry missing"},
		{Category: Suggestion, Text: "Add an example request"},
		{Category: KeyInfo, Text: "Tokens are JWTs"},
	}, cards)
	for _, c := range cards {
		assert.True(t, c.Category.Valid())
	}
}

func TestParseAnnotationsEmptyArray(t *testing.T) {
	cards, err := ParseAnnotations(" [] \n")
	require.NoError(t, err)
	assert.NotNil(t, cards)
	assert.Empty(t, cards)
}

func TestParseAnnotationsRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"truncated", `[{"type":"error","content":"x"`},
		{"object root", `{"flashcards":[]}`},
		{"code fence", "```json\n[]\n```"},
		{"null", "null"},
		{"unknown type", `[{"type":"warning","content":"x"}]`},
		{"missing content", `[{"type":"error"}]`},
		{"missing type", `[{"content":"x"}]`},
		{"numeric content", `[{"type":"error","content":3}]`},
		{"not an object", `["error"]`},
		{"null item", `[null]`},
		{"trailing garbage", `[] extra`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards, err := ParseAnnotations(tt.raw)
			assert.ErrorIs(t, err, ErrAnnotationParse)
			assert.Nil(t, cards)
		})
	}
}

func TestCheckDocument(t *testing.T) {
	out, err := CheckDocument("  # Title\n")
	require.NoError(t, err)
	assert.Equal(t, "  # Title\n", out)

	_, err = CheckDocument(" \n\t")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

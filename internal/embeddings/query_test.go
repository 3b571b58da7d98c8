package embeddings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryVariants(t *testing.T) {
	tests := []struct {
		name       string
		query      Query
		wantKind   Kind
		wantLen    int
		wantInput  any
		wantLabels []string
	}{
		{
			name:       "single text",
			query:      Text("Puppies are good"),
			wantKind:   KindText,
			wantLen:    1,
			wantInput:  "Puppies are good",
			wantLabels: []string{"Puppies are good"},
		},
		{
			name:       "multiple texts",
			query:      Texts("a", "b"),
			wantKind:   KindTexts,
			wantLen:    2,
			wantInput:  []string{"a", "b"},
			wantLabels: []string{"a", "b"},
		},
		{
			name:       "single token sequence",
			query:      Tokens([]int{47, 11, 92}),
			wantKind:   KindTokens,
			wantLen:    1,
			wantInput:  []int{47, 11, 92},
			wantLabels: []string{"tokens[0]"},
		},
		{
			name:       "token batch",
			query:      TokenBatch([][]int{{1, 2}, {3}}),
			wantKind:   KindTokenBatch,
			wantLen:    2,
			wantInput:  [][]int{{1, 2}, {3}},
			wantLabels: []string{"tokens[0]", "tokens[1]"},
		},
		{
			name:       "empty texts",
			query:      Texts(),
			wantKind:   KindTexts,
			wantLen:    0,
			wantInput:  []string{},
			wantLabels: []string{},
		},
		{
			name:    "zero query",
			query:   Query{},
			wantLen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantKind, tt.query.Kind())
			assert.Equal(t, tt.wantLen, tt.query.Len())
			assert.Equal(t, tt.wantInput, tt.query.Input())
			assert.Equal(t, tt.wantLabels, tt.query.Labels())
		})
	}
}

func TestTextsFromLines(t *testing.T) {
	q := TextsFromLines("Kittens are great\n\nKittens are evil\r\nThat person is great\n")

	assert.Equal(t, KindTexts, q.Kind())
	assert.Equal(t, []string{"Kittens are great", "Kittens are evil", "That person is great"}, q.Input())
}

func TestConstructorsCopyInput(t *testing.T) {
	ids := []int{1, 2}
	q := Tokens(ids)
	ids[0] = 99
	assert.Equal(t, []int{1, 2}, q.Input())

	batch := [][]int{{1}}
	b := TokenBatch(batch)
	batch[0][0] = 99
	assert.Equal(t, [][]int{{1}}, b.Input())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "text", KindText.String())
	assert.Equal(t, "token_batch", KindTokenBatch.String())
	assert.Equal(t, "unknown", Kind(0).String())
}

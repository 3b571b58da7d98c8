package embeddings

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRequestBody(t *testing.T) {
	tests := []struct {
		name         string
		query        Query
		model        string
		params       map[string]any
		wantBody     string
		wantExpected int
	}{
		{
			name:         "single text with default model",
			query:        Text("Puppies are good"),
			wantBody:     `{"input":"Puppies are good","model":"text-embedding-ada-002"}`,
			wantExpected: 1,
		},
		{
			name:         "configured model",
			query:        Texts("a", "b"),
			model:        "text-embedding-3-small",
			wantBody:     `{"input":["a","b"],"model":"text-embedding-3-small"}`,
			wantExpected: 2,
		},
		{
			name:         "tokens",
			query:        Tokens([]int{1, 2, 3}),
			wantBody:     `{"input":[1,2,3],"model":"text-embedding-ada-002"}`,
			wantExpected: 1,
		},
		{
			name:         "token batch",
			query:        TokenBatch([][]int{{1}, {2, 3}}),
			wantBody:     `{"input":[[1],[2,3]],"model":"text-embedding-ada-002"}`,
			wantExpected: 2,
		},
		{
			name:         "passthrough params are kept",
			query:        Text("x"),
			params:       map[string]any{"user": "u-1", "dimensions": 8},
			wantBody:     `{"dimensions":8,"input":"x","model":"text-embedding-ada-002","user":"u-1"}`,
			wantExpected: 1,
		},
		{
			name:         "model override wins",
			query:        Text("x"),
			model:        "configured",
			params:       map[string]any{"model": "override"},
			wantBody:     `{"input":"x","model":"override"}`,
			wantExpected: 1,
		},
		{
			name:         "input override wins and sets expected count",
			query:        Text("ignored"),
			params:       map[string]any{"input": []string{"p", "q", "r"}},
			wantBody:     `{"input":["p","q","r"],"model":"text-embedding-ada-002"}`,
			wantExpected: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, expected, err := BuildRequestBody(tt.query, tt.model, tt.params)
			require.NoError(t, err)
			assert.JSONEq(t, tt.wantBody, string(body))
			assert.Equal(t, tt.wantBody, string(body), "keys should serialize in sorted order")
			assert.Equal(t, tt.wantExpected, expected)
		})
	}
}

func TestBuildRequestBodyDoesNotMutateParams(t *testing.T) {
	params := map[string]any{"user": "u"}
	_, _, err := BuildRequestBody(Text("x"), "", params)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"user": "u"}, params)
}

func TestCountInputs(t *testing.T) {
	var decoded any
	require.NoError(t, json.Unmarshal([]byte(`[[1,2],[3]]`), &decoded))

	assert.Equal(t, 1, countInputs("x"))
	assert.Equal(t, 2, countInputs([]string{"a", "b"}))
	assert.Equal(t, 1, countInputs([]int{1, 2}))
	assert.Equal(t, 2, countInputs([][]int{{1}, {2}}))
	assert.Equal(t, 2, countInputs(decoded))
	assert.Equal(t, 1, countInputs([]any{1.0, 2.0}))
	assert.Equal(t, 2, countInputs([]any{"a", "b"}))
	assert.Equal(t, 0, countInputs([]any{}))
	assert.Equal(t, 0, countInputs(map[string]any{}))
}

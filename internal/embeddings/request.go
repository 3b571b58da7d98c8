package embeddings

import (
	"encoding/json"
	"fmt"
)

// BuildRequestBody serializes the request for q. Params pass through
// verbatim; "input" defaults to the query value and "model" to model (or
// DefaultModel when empty) unless params already set them. Keys are
// serialized in sorted order, so equal requests produce equal bytes.
//
// The returned count is the number of vectors the response must carry, or 0
// when an overridden input has a shape that cannot be counted.
func BuildRequestBody(q Query, model string, params map[string]any) ([]byte, int, error) {
	body := make(map[string]any, len(params)+2)
	for k, v := range params {
		body[k] = v
	}

	expected := q.Len()
	if override, ok := body[inputField]; ok {
		expected = countInputs(override)
	} else {
		body[inputField] = q.Input()
	}
	if _, ok := body[modelField]; !ok {
		if model == "" {
			model = DefaultModel
		}
		body[modelField] = model
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("embeddings: encode request: %w", err)
	}
	return raw, expected, nil
}

// countInputs mirrors how the API counts items for each accepted input shape.
func countInputs(v any) int {
	switch in := v.(type) {
	case string:
		return 1
	case []string:
		return len(in)
	case []int, []int64, []float64:
		return 1
	case [][]int:
		return len(in)
	case []any:
		if len(in) == 0 {
			return 0
		}
		switch in[0].(type) {
		case string, []any, []int:
			return len(in)
		case float64, int, int64, json.Number:
			return 1
		}
	}
	return 0
}

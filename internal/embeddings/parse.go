package embeddings

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrParse matches every *ParseError via errors.Is.
var ErrParse = errors.New("embeddings: parse error")

// ParseError reports an otherwise successful response that does not have
// the expected shape. Body is the raw response for diagnostics.
type ParseError struct {
	Reason string
	Body   []byte
}

func (e *ParseError) Error() string {
	return "embeddings: " + e.Reason
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

func parseError(body []byte, format string, args ...any) error {
	return &ParseError{Reason: fmt.Sprintf(format, args...), Body: body}
}

// ParseResponse extracts one vector per "data" record into a Table. Any
// record without an "embedding" fails the whole response. When expected is
// positive the vector count must match it.
func ParseResponse(body []byte, expected int) (Table, error) {
	if !gjson.ValidBytes(body) {
		return Table{}, parseError(body, "response is not valid JSON")
	}

	data := gjson.GetBytes(body, "data")
	if !data.Exists() || data.Type == gjson.Null {
		return Table{}, parseError(body, "no 'data' attribute in embedding response")
	}
	if !data.IsArray() {
		return Table{}, parseError(body, "'data' attribute in embedding response is not a list")
	}

	records := data.Array()
	columns := make([][]float64, 0, len(records))
	for i, record := range records {
		embedding := record.Get("embedding")
		if !embedding.Exists() || embedding.Type == gjson.Null {
			return Table{}, parseError(body, "no 'embedding' attribute in embedding data record %d", i)
		}
		if !embedding.IsArray() {
			return Table{}, parseError(body, "'embedding' in data record %d is not a list", i)
		}
		values := embedding.Array()
		vec := make([]float64, len(values))
		for j, v := range values {
			if v.Type != gjson.Number {
				return Table{}, parseError(body, "non-numeric value at data record %d position %d", i, j)
			}
			vec[j] = v.Float()
		}
		columns = append(columns, vec)
	}

	if expected > 0 && len(columns) != expected {
		return Table{}, parseError(body, "expected %d embeddings, got %d", expected, len(columns))
	}
	return NewTable(columns), nil
}

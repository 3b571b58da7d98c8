package connection

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// StatusError is a non-2xx answer from the embeddings endpoint.
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	if msg := gjson.GetBytes(e.Body, "error.message"); msg.Exists() && msg.String() != "" {
		return fmt.Sprintf("embeddings endpoint returned %d: %s", e.Code, msg.String())
	}
	return fmt.Sprintf("embeddings endpoint returned %d", e.Code)
}

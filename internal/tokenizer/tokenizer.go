// Package tokenizer encodes text into the token ids the embeddings API
// accepts in place of raw strings.
package tokenizer

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the BPE used by the ada-002 and text-embedding-3 models.
const DefaultEncoding = "cl100k_base"

var encoders sync.Map // encoding name -> *tiktoken.Tiktoken

// Tokenizer encodes text with one tiktoken encoding.
type Tokenizer struct {
	encoding string
	tke      *tiktoken.Tiktoken
}

// New returns a tokenizer for encoding (DefaultEncoding when empty).
// Encoders are loaded once per process and shared.
func New(encoding string) (*Tokenizer, error) {
	encoding = strings.TrimSpace(encoding)
	if encoding == "" {
		encoding = DefaultEncoding
	}
	if cached, ok := encoders.Load(encoding); ok {
		return &Tokenizer{encoding: encoding, tke: cached.(*tiktoken.Tiktoken)}, nil
	}
	tke, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("tokenizer: load encoding %q: %w", encoding, err)
	}
	actual, _ := encoders.LoadOrStore(encoding, tke)
	return &Tokenizer{encoding: encoding, tke: actual.(*tiktoken.Tiktoken)}, nil
}

// Encoding names the BPE in use.
func (t *Tokenizer) Encoding() string {
	return t.encoding
}

// Encode returns the token ids for text.
func (t *Tokenizer) Encode(text string) []int {
	return t.tke.Encode(text, nil, nil)
}

// EncodeAll encodes each text separately.
func (t *Tokenizer) EncodeAll(texts []string) [][]int {
	out := make([][]int, len(texts))
	for i, text := range texts {
		out[i] = t.Encode(text)
	}
	return out
}

// Decode turns token ids back into text.
func (t *Tokenizer) Decode(ids []int) string {
	return t.tke.Decode(ids)
}

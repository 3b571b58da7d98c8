package embeddings

import (
	"fmt"
	"strings"
)

// Kind tags which input shape a Query carries.
type Kind int

const (
	KindText Kind = iota + 1
	KindTexts
	KindTokens
	KindTokenBatch
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindTexts:
		return "texts"
	case KindTokens:
		return "tokens"
	case KindTokenBatch:
		return "token_batch"
	default:
		return "unknown"
	}
}

// Query is one of: a single text, a list of texts, a single pre-tokenized
// sequence, or a list of pre-tokenized sequences. Build it with Text, Texts,
// Tokens or TokenBatch; the zero Query has no items.
type Query struct {
	kind   Kind
	text   string
	texts  []string
	tokens []int
	batch  [][]int
}

// Text embeds a single string.
func Text(s string) Query {
	return Query{kind: KindText, text: s}
}

// Texts embeds each string separately, one column per string.
func Texts(texts ...string) Query {
	return Query{kind: KindTexts, texts: append([]string{}, texts...)}
}

// TextsFromLines splits s on newlines and embeds each non-empty line.
func TextsFromLines(s string) Query {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return Texts(lines...)
}

// Tokens embeds one pre-tokenized text.
func Tokens(ids []int) Query {
	return Query{kind: KindTokens, tokens: append([]int{}, ids...)}
}

// TokenBatch embeds several pre-tokenized texts, one column per sequence.
func TokenBatch(batch [][]int) Query {
	out := make([][]int, len(batch))
	for i, seq := range batch {
		out[i] = append([]int{}, seq...)
	}
	return Query{kind: KindTokenBatch, batch: out}
}

func (q Query) Kind() Kind { return q.kind }

// Len is the number of input items, and so the number of expected vectors.
func (q Query) Len() int {
	switch q.kind {
	case KindText, KindTokens:
		return 1
	case KindTexts:
		return len(q.texts)
	case KindTokenBatch:
		return len(q.batch)
	default:
		return 0
	}
}

// Input returns the raw value sent as the request's "input" field.
func (q Query) Input() any {
	switch q.kind {
	case KindText:
		return q.text
	case KindTexts:
		return q.texts
	case KindTokens:
		return q.tokens
	case KindTokenBatch:
		return q.batch
	default:
		return nil
	}
}

// Labels names each input item: the text itself for text queries and a
// positional name for token queries.
func (q Query) Labels() []string {
	switch q.kind {
	case KindText:
		return []string{q.text}
	case KindTexts:
		return append([]string{}, q.texts...)
	case KindTokens:
		return []string{"tokens[0]"}
	case KindTokenBatch:
		labels := make([]string, len(q.batch))
		for i := range q.batch {
			labels[i] = fmt.Sprintf("tokens[%d]", i)
		}
		return labels
	default:
		return nil
	}
}

package tokenizer

import "sync"

// Encoder turns texts into token id sequences.
type Encoder interface {
	EncodeAll(texts []string) ([][]int, error)
}

// Lazy defers loading the encoding until first use, so services start even
// when the BPE ranks are not reachable yet. A failed load is retried on the
// next call.
type Lazy struct {
	encoding string

	mu  sync.Mutex
	tok *Tokenizer
}

// NewLazy returns an Encoder for encoding that loads on first use.
func NewLazy(encoding string) *Lazy {
	return &Lazy{encoding: encoding}
}

func (l *Lazy) EncodeAll(texts []string) ([][]int, error) {
	tok, err := l.get()
	if err != nil {
		return nil, err
	}
	return tok.EncodeAll(texts), nil
}

func (l *Lazy) get() (*Tokenizer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.tok != nil {
		return l.tok, nil
	}
	tok, err := New(l.encoding)
	if err != nil {
		return nil, err
	}
	l.tok = tok
	return tok, nil
}

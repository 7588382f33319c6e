package doctag

import (
	"context"
	"errors"
)

var (
	// ErrTimeout marks a tokenizer call that ran past its deadline.
	ErrTimeout = errors.New("tokenizer timed out")
	// ErrTokenize marks any other tokenizer failure.
	ErrTokenize = errors.New("tokenizer failed")
)

// Tokenizer turns raw comment text into doc blocks.
// Implementations must be safe for concurrent use.
type Tokenizer interface {
	Tokenize(ctx context.Context, comment string) ([]Doc, error)
}

// TokenizerFunc adapts a function to Tokenizer.
type TokenizerFunc func(ctx context.Context, comment string) ([]Doc, error)

// Tokenize calls f.
func (f TokenizerFunc) Tokenize(ctx context.Context, comment string) ([]Doc, error) {
	return f(ctx, comment)
}

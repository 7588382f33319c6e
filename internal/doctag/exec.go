package doctag

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single external tokenizer call.
const DefaultTimeout = 10 * time.Second

// ExecTokenizer runs an external command per comment.
// The comment is passed as the last argument; stdout must hold a JSON array of
// {"description": ..., "tags": [{"tag","name","description"}]} objects.
type ExecTokenizer struct {
	Command []string
	Timeout time.Duration
}

// NewExecTokenizer validates the command line.
func NewExecTokenizer(command []string, timeout time.Duration) (*ExecTokenizer, error) {
	if len(command) == 0 || strings.TrimSpace(command[0]) == "" {
		return nil, errors.New("tokenizer command is empty")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ExecTokenizer{Command: command, Timeout: timeout}, nil
}

// Tokenize implements Tokenizer.
func (e *ExecTokenizer) Tokenize(ctx context.Context, comment string) ([]Doc, error) {
	ctx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	args := append(append([]string{}, e.Command[1:]...), comment)
	// #nosec G204 -- command comes from the user's config
	cmd := exec.CommandContext(ctx, e.Command[0], args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", ErrTimeout, e.Timeout)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("%w: %v: %s", ErrTokenize, err, msg)
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenize, err)
	}

	var docs []Doc
	if err := json.Unmarshal(stdout.Bytes(), &docs); err != nil {
		return nil, fmt.Errorf("%w: decode output: %v", ErrTokenize, err)
	}
	for i := range docs {
		if docs[i].Tags == nil {
			docs[i].Tags = []Tag{}
		}
	}
	return docs, nil
}

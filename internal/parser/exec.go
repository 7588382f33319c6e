package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"apidiff/internal/apinode"
)

// DefaultTimeout bounds one front-end run.
const DefaultTimeout = time.Minute

// ExecParser runs an external front end once per file. The file path is
// appended to Command; stdout must carry the node tree JSON.
type ExecParser struct {
	Command []string
	Timeout time.Duration
}

// NewExecParser validates the command line.
func NewExecParser(command []string, timeout time.Duration) (*ExecParser, error) {
	if len(command) == 0 || strings.TrimSpace(command[0]) == "" {
		return nil, errors.New("parser command is empty")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ExecParser{Command: command, Timeout: timeout}, nil
}

// Parse implements Parser.
func (e *ExecParser) Parse(ctx context.Context, path string) ([]*apinode.Node, error) {
	ctx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	args := append(append([]string{}, e.Command[1:]...), path)
	// #nosec G204 -- command comes from the user's config
	cmd := exec.CommandContext(ctx, e.Command[0], args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s: timed out after %s", ErrParse, path, e.Timeout)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s: %v: %s", ErrParse, path, err, msg)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}

	roots, err := apinode.DecodeBytes(stdout.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}
	return roots, nil
}

// Package askuser provides a capability that asks the human operator a
// question and returns the typed answer.
package askuser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/hupe1980/reactloop/tool"
)

// Tool prompts on Out and reads one line from In.
type Tool struct {
	mu  sync.Mutex // Serializes prompts so answers don't interleave
	in  *bufio.Reader
	out io.Writer
}

var _ tool.Tool = (*Tool)(nil)

// New creates an ask_user tool bound to the given streams. Nil streams fall
// back to stdin and stdout.
func New(in io.Reader, out io.Writer) *Tool {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Tool{in: bufio.NewReader(in), out: out}
}

// Name implements tool.Tool.
func (t *Tool) Name() string { return "ask_user" }

// Description implements tool.Tool.
func (t *Tool) Description() string { return "Ask the user a question and return the answer" }

// Schema implements tool.Tool.
func (t *Tool) Schema() tool.Schema {
	return tool.NewSchema(
		tool.Parameter{Name: "question", Type: tool.String, Description: "Question to the user to answer"},
	)
}

// Call prints the question and blocks until a line is read or ctx is done.
func (t *Tool) Call(ctx context.Context, args tool.Args) (any, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := fmt.Fprintln(t.out, args.String("question")); err != nil {
		return nil, fmt.Errorf("ask_user: write question: %w", err)
	}

	type answer struct {
		text string
		err  error
	}
	ch := make(chan answer, 1)
	go func() {
		line, err := t.in.ReadString('\n')
		if err == io.EOF && line != "" {
			err = nil
		}
		ch <- answer{text: strings.TrimRight(line, "\r\n"), err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case a := <-ch:
		if a.err != nil {
			return nil, fmt.Errorf("ask_user: read answer: %w", a.err)
		}
		return a.text, nil
	}
}

package blocker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrInvalidSelection is wrapped when operator input names a malformed or
// out-of-range position.
var ErrInvalidSelection = errors.New("invalid selection")

// Selector asks the operator to pick a subset of candidate addresses.
type Selector interface {
	Select(ctx context.Context, candidates []string) ([]string, error)
}

// ParseSelection turns comma-separated 1-indexed positions into 0-based
// indexes into a list of n items. Order is kept and repeats are dropped.
// Blank input is an invalid selection.
func ParseSelection(input string, n int) ([]int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("%w: no positions entered", ErrInvalidSelection)
	}
	var (
		out  []int
		seen = make(map[int]bool)
	)
	for _, tok := range strings.Split(input, ",") {
		tok = strings.TrimSpace(tok)
		pos, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidSelection, tok)
		}
		if pos < 1 || pos > n {
			return nil, fmt.Errorf("%w: %d is outside 1..%d", ErrInvalidSelection, pos, n)
		}
		if seen[pos] {
			continue
		}
		seen[pos] = true
		out = append(out, pos-1)
	}
	return out, nil
}

// Pick returns candidates at the given indexes.
func Pick(candidates []string, indexes []int) []string {
	out := make([]string, 0, len(indexes))
	for _, i := range indexes {
		out = append(out, candidates[i])
	}
	return out
}

// PromptSelector prints a numbered list and reads one line of positions.
type PromptSelector struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPromptSelector reads from in. When in is a *bufio.Reader it is used
// directly, so later prompts on the same reader see the remaining input.
func NewPromptSelector(in io.Reader, out io.Writer) *PromptSelector {
	return &PromptSelector{in: bufio.NewReader(in), out: out}
}

func (p *PromptSelector) Select(ctx context.Context, candidates []string) ([]string, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	fmt.Fprint(p.out, "\nHere are the unique senders found in the database:\n\n")
	for i, c := range candidates {
		fmt.Fprintf(p.out, "%d. %s\n", i+1, c)
	}
	fmt.Fprint(p.out, "\nEnter the numbers of the senders you want to block (comma-separated): ")

	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return nil, fmt.Errorf("read selection: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	idx, err := ParseSelection(line, len(candidates))
	if err != nil {
		return nil, err
	}
	return Pick(candidates, idx), nil
}

package blocker

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailsweep/internal/metrics"
)

type fakeFilters struct {
	fail  map[string]error
	calls []string
}

func (f *fakeFilters) CreateTrashFilter(_ context.Context, address string) error {
	f.calls = append(f.calls, address)
	return f.fail[address]
}

type fakeAddresses struct {
	addrs []string
	err   error
}

func (f fakeAddresses) ListDistinctAddresses(context.Context) ([]string, error) {
	return f.addrs, f.err
}

type fixedSelector struct {
	pick []string
	err  error
	seen []string
}

func (s *fixedSelector) Select(_ context.Context, candidates []string) ([]string, error) {
	s.seen = candidates
	return s.pick, s.err
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		n       int
		want    []int
		wantErr bool
	}{
		{name: "single", input: "2", n: 3, want: []int{1}},
		{name: "list with spaces", input: " 1, 3 \n", n: 3, want: []int{0, 2}},
		{name: "repeat dropped", input: "3,1,3", n: 3, want: []int{2, 0}},
		{name: "blank", input: "  \n", n: 3, wantErr: true},
		{name: "not a number", input: "1,x", n: 3, wantErr: true},
		{name: "empty token", input: "1,,2", n: 3, wantErr: true},
		{name: "zero", input: "0", n: 3, wantErr: true},
		{name: "past end", input: "4", n: 3, wantErr: true},
		{name: "negative", input: "-1", n: 3, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSelection(tt.input, tt.n)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSelection)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPromptSelector(t *testing.T) {
	var out bytes.Buffer
	sel := NewPromptSelector(strings.NewReader("1,3\n"), &out)

	got, err := sel.Select(context.Background(), []string{"a@x.com", "b@y.com", "c@z.com"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com", "c@z.com"}, got)
	assert.Contains(t, out.String(), "1. a@x.com\n2. b@y.com\n3. c@z.com\n")
	assert.Contains(t, out.String(), "Enter the numbers of the senders you want to block (comma-separated): ")
}

func TestPromptSelectorNoTrailingNewline(t *testing.T) {
	sel := NewPromptSelector(strings.NewReader("2"), &bytes.Buffer{})
	got, err := sel.Select(context.Background(), []string{"a@x.com", "b@y.com"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b@y.com"}, got)
}

func TestPromptSelectorMalformed(t *testing.T) {
	sel := NewPromptSelector(strings.NewReader("one\n"), &bytes.Buffer{})
	_, err := sel.Select(context.Background(), []string{"a@x.com"})
	assert.ErrorIs(t, err, ErrInvalidSelection)
}

func TestPromptSelectorLeavesRestOfSharedReader(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("2\n4/0AbCdEf\n"))
	sel := NewPromptSelector(in, &bytes.Buffer{})

	got, err := sel.Select(context.Background(), []string{"a@x.com", "b@y.com"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b@y.com"}, got)

	rest, err := in.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "4/0AbCdEf\n", rest)
}

func TestPromptSelectorBlankLine(t *testing.T) {
	sel := NewPromptSelector(strings.NewReader("\n"), &bytes.Buffer{})
	got, err := sel.Select(context.Background(), []string{"a@x.com", "b@y.com"})
	assert.ErrorIs(t, err, ErrInvalidSelection)
	assert.Nil(t, got)
}

func TestPromptSelectorEmptyCandidates(t *testing.T) {
	var out bytes.Buffer
	sel := NewPromptSelector(strings.NewReader("1\n"), &out)
	got, err := sel.Select(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, out.String())
}

func TestCreateAllIsolatesFailures(t *testing.T) {
	svc := &fakeFilters{fail: map[string]error{"b@y.com": errors.New("quota")}}
	var out bytes.Buffer
	failedBefore := testutil.ToFloat64(metrics.Filters.WithLabelValues("failed"))

	res := NewRuleCreator(svc, false, &out).CreateAll(context.Background(), []string{"a@x.com", "b@y.com", "c@z.com"})

	assert.Equal(t, []string{"a@x.com", "b@y.com", "c@z.com"}, svc.calls)
	assert.Equal(t, []string{"a@x.com", "c@z.com"}, res.Created)
	require.Len(t, res.Failed, 1)
	assert.EqualError(t, res.Failed["b@y.com"], "quota")
	assert.Contains(t, out.String(), "Filter created for: a@x.com\n")
	assert.Contains(t, out.String(), "Filter created for: c@z.com\n")
	assert.NotContains(t, out.String(), "Filter created for: b@y.com")
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(metrics.Filters.WithLabelValues("failed")))
}

func TestCreateAllDryRun(t *testing.T) {
	var out bytes.Buffer
	res := NewRuleCreator(nil, true, &out).CreateAll(context.Background(), []string{"a@x.com"})
	assert.Equal(t, []string{"a@x.com"}, res.Created)
	assert.Empty(t, res.Failed)
	assert.Contains(t, out.String(), "Would create filter for: a@x.com")
}

func TestCreateAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := &fakeFilters{}
	res := NewRuleCreator(svc, false, nil).CreateAll(ctx, []string{"a@x.com", "b@y.com"})
	assert.Empty(t, svc.calls)
	assert.Len(t, res.Failed, 2)
	assert.ErrorIs(t, res.Failed["a@x.com"], context.Canceled)
}

func TestBlockerRun(t *testing.T) {
	svc := &fakeFilters{}
	sel := &fixedSelector{pick: []string{"b@y.com"}}
	connects := 0
	connect := func(context.Context) (FilterService, error) {
		connects++
		return svc, nil
	}
	var out bytes.Buffer

	res, err := New(fakeAddresses{addrs: []string{"a@x.com", "b@y.com"}}, sel, connect, false, &out).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com", "b@y.com"}, sel.seen)
	assert.Equal(t, 1, connects)
	assert.Equal(t, []string{"b@y.com"}, svc.calls)
	assert.Equal(t, []string{"b@y.com"}, res.Created)
	assert.True(t, strings.HasPrefix(out.String(), "Starting the email blocking process...\n"))
	assert.True(t, strings.HasSuffix(out.String(), "Done blocking selected emails!\n"))
}

func TestBlockerRunNothingSelected(t *testing.T) {
	connect := func(context.Context) (FilterService, error) {
		t.Fatal("connect should not be called")
		return nil, nil
	}
	res, err := New(fakeAddresses{addrs: []string{"a@x.com"}}, &fixedSelector{}, connect, false, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Created)
}

func TestBlockerRunEmptyStore(t *testing.T) {
	sel := &fixedSelector{}
	var out bytes.Buffer
	_, err := New(fakeAddresses{}, sel, nil, false, &out).Run(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sel.seen)
	assert.Contains(t, out.String(), "No senders recorded yet")
}

func TestBlockerRunErrors(t *testing.T) {
	addrs := fakeAddresses{addrs: []string{"a@x.com"}}

	_, err := New(fakeAddresses{err: errors.New("disk")}, &fixedSelector{}, nil, false, nil).Run(context.Background())
	assert.ErrorContains(t, err, "list senders: disk")

	_, err = New(addrs, &fixedSelector{err: ErrInvalidSelection}, nil, false, nil).Run(context.Background())
	assert.ErrorIs(t, err, ErrInvalidSelection)

	authErr := errors.New("no token")
	connect := func(context.Context) (FilterService, error) { return nil, authErr }
	_, err = New(addrs, &fixedSelector{pick: []string{"a@x.com"}}, connect, false, nil).Run(context.Background())
	assert.ErrorIs(t, err, authErr)
}

func TestBlockerRunDryRunSkipsConnect(t *testing.T) {
	connect := func(context.Context) (FilterService, error) {
		t.Fatal("connect should not be called in dry run")
		return nil, nil
	}
	res, err := New(fakeAddresses{addrs: []string{"a@x.com"}}, &fixedSelector{pick: []string{"a@x.com"}}, connect, true, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com"}, res.Created)
}

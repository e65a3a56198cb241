package blocker

import (
	"context"
	"fmt"
	"io"
)

// AddressSource lists every sender address recorded so far.
type AddressSource interface {
	ListDistinctAddresses(ctx context.Context) ([]string, error)
}

// Connect authorizes against the mail service. It is called only after the
// operator has picked at least one address.
type Connect func(ctx context.Context) (FilterService, error)

// Blocker runs the select-then-block flow.
type Blocker struct {
	addresses AddressSource
	selector  Selector
	connect   Connect
	dryRun    bool
	out       io.Writer
}

func New(addresses AddressSource, selector Selector, connect Connect, dryRun bool, out io.Writer) *Blocker {
	if out == nil {
		out = io.Discard
	}
	return &Blocker{
		addresses: addresses,
		selector:  selector,
		connect:   connect,
		dryRun:    dryRun,
		out:       out,
	}
}

// Run lists known senders, asks the selector for a subset, and creates a
// trash filter for each. Selection and authorization errors are returned;
// per-address filter errors are only reported in the Result.
func (b *Blocker) Run(ctx context.Context) (Result, error) {
	fmt.Fprintln(b.out, "Starting the email blocking process...")

	addrs, err := b.addresses.ListDistinctAddresses(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list senders: %w", err)
	}
	if len(addrs) == 0 {
		fmt.Fprintln(b.out, "No senders recorded yet. Run collect-senders first.")
		return Result{}, nil
	}

	selected, err := b.selector.Select(ctx, addrs)
	if err != nil {
		return Result{}, err
	}
	if len(selected) == 0 {
		fmt.Fprintln(b.out, "No senders selected.")
		return Result{}, nil
	}

	var svc FilterService
	if !b.dryRun {
		svc, err = b.connect(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("connect: %w", err)
		}
	}

	res := NewRuleCreator(svc, b.dryRun, b.out).CreateAll(ctx, selected)
	fmt.Fprintln(b.out, "Done blocking selected emails!")
	return res, nil
}

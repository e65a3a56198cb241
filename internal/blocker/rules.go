package blocker

import (
	"context"
	"fmt"
	"io"

	"mailsweep/internal/logger"
	"mailsweep/internal/metrics"
)

// FilterService creates server-side rules.
type FilterService interface {
	// CreateTrashFilter makes future mail from address skip the inbox and land in trash.
	CreateTrashFilter(ctx context.Context, address string) error
}

// Result records the outcome per address.
type Result struct {
	Created []string
	Failed  map[string]error
}

// RuleCreator issues one filter per address. Failures are independent.
type RuleCreator struct {
	svc    FilterService
	dryRun bool
	out    io.Writer
}

// NewRuleCreator returns a RuleCreator. With dryRun set svc may be nil and
// nothing is sent.
func NewRuleCreator(svc FilterService, dryRun bool, out io.Writer) *RuleCreator {
	if out == nil {
		out = io.Discard
	}
	return &RuleCreator{svc: svc, dryRun: dryRun, out: out}
}

// CreateAll attempts every address even when earlier ones fail. It stops
// early only when ctx is done.
func (r *RuleCreator) CreateAll(ctx context.Context, addresses []string) Result {
	res := Result{Failed: make(map[string]error)}
	for _, addr := range addresses {
		if err := ctx.Err(); err != nil {
			res.Failed[addr] = err
			continue
		}
		if r.dryRun {
			metrics.Filters.WithLabelValues("dry_run").Inc()
			fmt.Fprintf(r.out, "Would create filter for: %s\n", addr)
			res.Created = append(res.Created, addr)
			continue
		}
		if err := r.svc.CreateTrashFilter(ctx, addr); err != nil {
			metrics.Filters.WithLabelValues("failed").Inc()
			logger.Error("Creating filter failed", "address", addr, "error", err)
			fmt.Fprintf(r.out, "An error occurred while creating the filter for %s: %v\n", addr, err)
			res.Failed[addr] = err
			continue
		}
		metrics.Filters.WithLabelValues("created").Inc()
		fmt.Fprintf(r.out, "Filter created for: %s\n", addr)
		res.Created = append(res.Created, addr)
	}
	return res
}

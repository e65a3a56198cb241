package collector

import (
	"context"
	"fmt"
	"io"
	"sort"

	"mailsweep/internal/logger"
	"mailsweep/internal/metrics"
	"mailsweep/internal/model"
)

// Collector scans folders and accumulates sender counts into a SenderStore.
type Collector struct {
	source    MailSource
	store     SenderStore
	fetcher   *Fetcher
	extractor *Extractor
	out       io.Writer
}

// New wires a Collector. Progress lines are written to out.
func New(source MailSource, store SenderStore, pageSize int64, out io.Writer) *Collector {
	if out == nil {
		out = io.Discard
	}
	return &Collector{
		source:    source,
		store:     store,
		fetcher:   NewFetcher(source, pageSize, out),
		extractor: NewExtractor(source),
		out:       out,
	}
}

// Run scans every planned folder in order. A folder that does not exist or
// whose total cannot be read is reported and skipped. Listing labels and
// writing to the store are fatal.
func (c *Collector) Run(ctx context.Context, plans []model.FolderPlan) error {
	labels, err := c.source.ListLabels(ctx)
	if err != nil {
		return fmt.Errorf("list labels: %w", err)
	}
	byName := LabelMap(labels)

	for _, plan := range plans {
		log := logger.With("folder", plan.Name)
		label, ok := byName[plan.Name]
		if !ok {
			fmt.Fprintf(c.out, "Error: %s folder not found.\n", plan.Name)
			log.Warn("Folder not found")
			continue
		}

		tallies, err := c.CollectFolder(ctx, label, plan)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			log.Error("Skipping folder", "error", err)
			continue
		}
		if err := c.Persist(ctx, plan.Name, tallies); err != nil {
			return err
		}
	}
	return nil
}

// CollectFolder fetches the plan's page window from label and tallies the
// senders found. The result is local to the call.
func (c *Collector) CollectFolder(ctx context.Context, label model.Label, plan model.FolderPlan) (map[string]*model.SenderTally, error) {
	fmt.Fprintf(c.out, "Fetching messages from %s folder...\n", plan.Name)
	ids, err := c.fetcher.MessageIDs(ctx, label, plan.StartPage, plan.EndPage)
	if err != nil {
		return nil, err
	}
	return c.Tally(ctx, ids)
}

// Tally extracts the sender of every message and counts them per address.
// Each address keeps the last non-empty display name seen for it.
func (c *Collector) Tally(ctx context.Context, messageIDs []string) (map[string]*model.SenderTally, error) {
	tallies := make(map[string]*model.SenderTally)
	for _, id := range messageIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sender, ok := c.extractor.Sender(ctx, id)
		if !ok {
			continue
		}
		t, ok := tallies[sender.Address]
		if !ok {
			t = &model.SenderTally{Address: sender.Address}
			tallies[sender.Address] = t
		}
		t.Count++
		if sender.DisplayName != "" {
			t.DisplayName = sender.DisplayName
		}
	}
	return tallies, nil
}

// Persist prints the folder summary and upserts every tally. The
// accumulated count across runs is logged at debug level.
func (c *Collector) Persist(ctx context.Context, folder string, tallies map[string]*model.SenderTally) error {
	log := logger.With("folder", folder)
	fmt.Fprintf(c.out, "\nUnique senders in the %s folder:\n", folder)
	for _, t := range SortTallies(tallies) {
		fmt.Fprintf(c.out, "Sender: %s, Count: %d\n", t.Address, t.Count)
		if err := c.store.Upsert(ctx, t.DisplayName, t.Address, folder, t.Count); err != nil {
			return fmt.Errorf("store sender: %w", err)
		}
		metrics.SenderUpserts.WithLabelValues(folder).Inc()

		rec, err := c.store.Get(ctx, t.Address, folder)
		if err != nil {
			return fmt.Errorf("read back sender: %w", err)
		}
		log.Debug("Sender stored", "address", rec.Address, "run", t.Count, "total", rec.Count)
	}
	return nil
}

// SortTallies returns a stable slice sorted by Count desc, then Address asc.
func SortTallies(m map[string]*model.SenderTally) []model.SenderTally {
	out := make([]model.SenderTally, 0, len(m))
	for _, t := range m {
		out = append(out, *t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Address < out[j].Address
		}
		return out[i].Count > out[j].Count
	})
	return out
}

package collector

import (
	"context"
	"fmt"
	"io"

	"mailsweep/internal/logger"
	"mailsweep/internal/metrics"
	"mailsweep/internal/model"
)

// Fetcher lists message identifiers from one folder inside a page window.
type Fetcher struct {
	source   MailSource
	pageSize int64
	out      io.Writer
}

func NewFetcher(source MailSource, pageSize int64, out io.Writer) *Fetcher {
	if out == nil {
		out = io.Discard
	}
	return &Fetcher{source: source, pageSize: pageSize, out: out}
}

// TotalPages is the number of pageSize batches needed for total messages,
// never less than one.
func TotalPages(total, pageSize int64) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return int((total + pageSize - 1) / pageSize)
}

// MessageIDs returns the identifiers on pages startPage..endPage (one-indexed,
// inclusive). endPage <= 0 means every page of the folder.
//
// Only batches that carry identifiers advance the page counter. Paging stops
// at endPage or when the continuation token runs out. A list error ends
// paging for the folder; it is logged and the identifiers gathered so far are
// returned without error. Failing to read the folder total is returned.
func (f *Fetcher) MessageIDs(ctx context.Context, label model.Label, startPage, endPage int) ([]string, error) {
	total, err := f.source.CountMessages(ctx, label.ID)
	if err != nil {
		return nil, fmt.Errorf("count messages in %s: %w", label.Name, err)
	}
	pages := TotalPages(total, f.pageSize)
	fmt.Fprintf(f.out, "Total messages in %s: %d (%d pages)\n", label.Name, total, pages)

	if startPage <= 0 {
		startPage = 1
	}
	if endPage <= 0 {
		endPage = pages
	}

	var ids []string
	page := 0
	pageToken := ""
	for {
		if err := ctx.Err(); err != nil {
			return ids, err
		}
		resp, err := f.source.ListMessages(ctx, label.ID, pageToken, f.pageSize)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ids, ctxErr
			}
			metrics.FetchErrors.WithLabelValues(label.Name).Inc()
			logger.Error("Fetching messages failed, keeping partial result",
				"folder", label.Name, "page", page+1, "collected", len(ids), "error", err)
			return ids, nil
		}

		if len(resp.IDs) > 0 {
			page++
			metrics.PagesFetched.WithLabelValues(label.Name).Inc()
			if page >= startPage && page <= endPage {
				ids = append(ids, resp.IDs...)
				metrics.MessagesListed.WithLabelValues(label.Name).Add(float64(len(resp.IDs)))
			}
		}

		pageToken = resp.NextPageToken
		if page >= endPage || pageToken == "" {
			break
		}
	}
	logger.Debug("Listed messages", "folder", label.Name, "pages", page, "kept", len(ids))
	return ids, nil
}

package collector

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"mailsweep/internal/model"
)

// fakeSource serves canned pages; page i is reached with token "t<i>".
type fakeSource struct {
	labels    []model.Label
	total     int64
	countErr  error
	pages     [][]string
	failPage  int // zero-based page index whose list call fails; -1 for none
	headers   map[string]string
	headerErr map[string]error

	listCalls int
}

func newFakeSource(pages ...[]string) *fakeSource {
	var total int64
	for _, p := range pages {
		total += int64(len(p))
	}
	return &fakeSource{
		labels:   []model.Label{{ID: "INBOX", Name: "INBOX"}},
		total:    total,
		pages:    pages,
		failPage: -1,
		headers:  map[string]string{},
	}
}

func (f *fakeSource) ListLabels(ctx context.Context) ([]model.Label, error) {
	return f.labels, nil
}

func (f *fakeSource) CountMessages(ctx context.Context, labelID string) (int64, error) {
	return f.total, f.countErr
}

func (f *fakeSource) ListMessages(ctx context.Context, labelID, pageToken string, pageSize int64) (model.MessagePage, error) {
	f.listCalls++
	idx := 0
	if pageToken != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(pageToken, "t"))
		if err != nil {
			return model.MessagePage{}, fmt.Errorf("bad token %q", pageToken)
		}
		idx = n
	}
	if idx == f.failPage {
		return model.MessagePage{}, errors.New("503 backend error")
	}
	if idx >= len(f.pages) {
		return model.MessagePage{}, nil
	}
	page := model.MessagePage{IDs: f.pages[idx]}
	if idx+1 < len(f.pages) {
		page.NextPageToken = fmt.Sprintf("t%d", idx+1)
	}
	return page, nil
}

func (f *fakeSource) FromHeader(ctx context.Context, messageID string) (string, error) {
	if err := f.headerErr[messageID]; err != nil {
		return "", err
	}
	return f.headers[messageID], nil
}

type upsertCall struct {
	name, address, folder string
	delta                 int
}

type fakeStore struct {
	calls    []upsertCall
	err      error
	getCalls int
}

func (s *fakeStore) Upsert(ctx context.Context, displayName, address, folder string, countDelta int) error {
	if s.err != nil {
		return s.err
	}
	s.calls = append(s.calls, upsertCall{displayName, address, folder, countDelta})
	return nil
}

// Get sums every recorded upsert for (address, folder).
func (s *fakeStore) Get(ctx context.Context, address, folder string) (model.SenderRecord, error) {
	s.getCalls++
	rec := model.SenderRecord{Address: address, Folder: folder}
	found := false
	for _, c := range s.calls {
		if c.address == address && c.folder == folder {
			found = true
			rec.Count += c.delta
			if c.name != "" {
				rec.DisplayName = c.name
			}
		}
	}
	if !found {
		return rec, errors.New("not found")
	}
	return rec, nil
}

package collector

import (
	"context"

	"mailsweep/internal/model"
)

// MailSource is the read side of the remote mail service.
type MailSource interface {
	ListLabels(ctx context.Context) ([]model.Label, error)
	// CountMessages returns the folder's total message count.
	CountMessages(ctx context.Context, labelID string) (int64, error)
	// ListMessages returns one batch of at most pageSize identifiers starting
	// at pageToken ("" for the first batch).
	ListMessages(ctx context.Context, labelID, pageToken string, pageSize int64) (model.MessagePage, error)
	// FromHeader returns the raw From header value, or "" when the message has none.
	FromHeader(ctx context.Context, messageID string) (string, error)
}

// SenderStore persists per-folder sender counts.
type SenderStore interface {
	Upsert(ctx context.Context, displayName, address, folder string, countDelta int) error
	// Get returns the accumulated row for (address, folder).
	Get(ctx context.Context, address, folder string) (model.SenderRecord, error)
}

// LabelMap indexes labels by name. Label IDs are added as a fallback key so
// a plan may name a folder by either.
func LabelMap(labels []model.Label) map[string]model.Label {
	m := make(map[string]model.Label, len(labels)*2)
	for _, l := range labels {
		if _, ok := m[l.ID]; !ok {
			m[l.ID] = l
		}
	}
	for _, l := range labels {
		m[l.Name] = l
	}
	return m
}

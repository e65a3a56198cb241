package gmail

import (
	"context"
	"fmt"

	gmailv1 "google.golang.org/api/gmail/v1"
)

// TrashFilter builds a filter that moves all future mail from address out of
// the inbox and into the trash.
func TrashFilter(address string) *gmailv1.Filter {
	return &gmailv1.Filter{
		Criteria: &gmailv1.FilterCriteria{
			From: address,
		},
		Action: &gmailv1.FilterAction{
			RemoveLabelIds: []string{"INBOX"},
			AddLabelIds:    []string{"TRASH"},
		},
	}
}

// CreateTrashFilter installs TrashFilter(address) on the account.
func (c *Client) CreateTrashFilter(ctx context.Context, address string) error {
	if _, err := c.svc.Users.Settings.Filters.Create(c.user, TrashFilter(address)).Context(ctx).Do(); err != nil {
		return fmt.Errorf("create filter for %s: %w", address, err)
	}
	return nil
}

package gmail

import (
	"context"
	"fmt"
	"strings"

	gmailv1 "google.golang.org/api/gmail/v1"

	"mailsweep/internal/model"
)

// Client adapts the Gmail API to collector.MailSource and blocker.FilterService.
type Client struct {
	svc  *gmailv1.Service
	user string
}

func NewClient(svc *gmailv1.Service) *Client {
	return &Client{svc: svc, user: "me"}
}

// ListLabels returns every system and user label of the account.
func (c *Client) ListLabels(ctx context.Context) ([]model.Label, error) {
	resp, err := c.svc.Users.Labels.List(c.user).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list labels: %w", err)
	}
	labels := make([]model.Label, 0, len(resp.Labels))
	for _, l := range resp.Labels {
		labels = append(labels, model.Label{ID: l.Id, Name: l.Name})
	}
	return labels, nil
}

// CountMessages reads messagesTotal from the label resource.
func (c *Client) CountMessages(ctx context.Context, labelID string) (int64, error) {
	l, err := c.svc.Users.Labels.Get(c.user, labelID).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("get label %s: %w", labelID, err)
	}
	return l.MessagesTotal, nil
}

// ListMessages returns one messages.list batch restricted to labelID.
func (c *Client) ListMessages(ctx context.Context, labelID, pageToken string, pageSize int64) (model.MessagePage, error) {
	call := c.svc.Users.Messages.List(c.user).
		LabelIds(labelID).
		MaxResults(pageSize). // page size, not an overall cap
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	resp, err := call.Do()
	if err != nil {
		return model.MessagePage{}, fmt.Errorf("list messages: %w", err)
	}
	page := model.MessagePage{
		IDs:           make([]string, 0, len(resp.Messages)),
		NextPageToken: resp.NextPageToken,
	}
	for _, m := range resp.Messages {
		page.IDs = append(page.IDs, m.Id)
	}
	return page, nil
}

// FromHeader fetches only the From header of a message.
func (c *Client) FromHeader(ctx context.Context, messageID string) (string, error) {
	msg, err := c.svc.Users.Messages.Get(c.user, messageID).
		Format("metadata").
		MetadataHeaders("From").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("get message %s: %w", messageID, err)
	}
	if msg.Payload == nil {
		return "", nil
	}
	for _, h := range msg.Payload.Headers {
		if strings.EqualFold(h.Name, "From") {
			return h.Value, nil
		}
	}
	return "", nil
}

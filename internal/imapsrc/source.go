// Package imapsrc reads folders and sender headers from an IMAP server.
package imapsrc

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"strconv"
	"strings"
	"sync"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/emersion/go-message/charset"

	"mailsweep/internal/config"
	"mailsweep/internal/logger"
	"mailsweep/internal/model"
)

// Source implements collector.MailSource over one IMAP connection.
// Message identifiers have the form "<mailbox>:<uid>".
type Source struct {
	client *imapclient.Client

	mu       sync.Mutex
	selected string
	exists   uint32
}

// Dial connects and logs in.
func Dial(cfg config.IMAP, password string) (*Source, error) {
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	opts := &imapclient.Options{
		WordDecoder: &mime.WordDecoder{CharsetReader: charset.Reader},
	}

	var (
		client *imapclient.Client
		err    error
	)
	if cfg.UseTLS {
		opts.TLSConfig = &tls.Config{ServerName: cfg.Host}
		client, err = imapclient.DialTLS(addr, opts)
	} else {
		client, err = imapclient.DialInsecure(addr, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("imap connect %s: %w", addr, err)
	}

	if err := client.Login(cfg.Username, password).Wait(); err != nil {
		client.Close()
		return nil, fmt.Errorf("imap login %s: %w", cfg.Username, err)
	}
	logger.Info("IMAP session established", "host", cfg.Host, "user", cfg.Username)
	return &Source{client: client}, nil
}

// Close logs out and closes the connection.
func (s *Source) Close() error {
	if err := s.client.Logout().Wait(); err != nil {
		logger.Warn("IMAP logout failed", "error", err)
	}
	return s.client.Close()
}

// ListLabels returns every selectable mailbox. ID and Name are both the
// mailbox name.
func (s *Source) ListLabels(ctx context.Context) ([]model.Label, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	boxes, err := s.client.List("", "*", nil).Collect()
	if err != nil {
		return nil, fmt.Errorf("imap list: %w", err)
	}
	out := make([]model.Label, 0, len(boxes))
	for _, b := range boxes {
		if hasAttr(b.Attrs, imap.MailboxAttrNoSelect) {
			continue
		}
		out = append(out, model.Label{ID: b.Mailbox, Name: b.Mailbox})
	}
	return out, nil
}

func (s *Source) CountMessages(ctx context.Context, mailbox string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	data, err := s.client.Status(mailbox, &imap.StatusOptions{NumMessages: true}).Wait()
	if err != nil {
		return 0, fmt.Errorf("imap status %s: %w", mailbox, err)
	}
	if data.NumMessages == nil {
		return 0, nil
	}
	return int64(*data.NumMessages), nil
}

// ListMessages pages from the newest message down. The page token is the
// highest sequence number of the next batch.
func (s *Source) ListMessages(ctx context.Context, mailbox, pageToken string, pageSize int64) (model.MessagePage, error) {
	if err := ctx.Err(); err != nil {
		return model.MessagePage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.selectLocked(mailbox); err != nil {
		return model.MessagePage{}, err
	}

	top, err := parseToken(pageToken, s.exists)
	if err != nil {
		return model.MessagePage{}, err
	}
	lo, hi, next := pageRange(top, pageSize)
	if hi == 0 {
		return model.MessagePage{}, nil
	}

	var seqs imap.SeqSet
	seqs.AddRange(lo, hi)
	msgs, err := s.client.Fetch(seqs, &imap.FetchOptions{UID: true}).Collect()
	if err != nil {
		return model.MessagePage{}, fmt.Errorf("imap fetch %s %d:%d: %w", mailbox, lo, hi, err)
	}

	page := model.MessagePage{IDs: make([]string, 0, len(msgs))}
	// newest first, matching the Gmail listing order
	for i := len(msgs) - 1; i >= 0; i-- {
		page.IDs = append(page.IDs, messageID(mailbox, msgs[i].UID))
	}
	if next > 0 {
		page.NextPageToken = strconv.FormatUint(uint64(next), 10)
	}
	return page, nil
}

func (s *Source) FromHeader(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	mailbox, uid, err := splitMessageID(id)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.selectLocked(mailbox); err != nil {
		return "", err
	}

	msgs, err := s.client.Fetch(imap.UIDSetNum(uid), &imap.FetchOptions{Envelope: true}).Collect()
	if err != nil {
		return "", fmt.Errorf("imap fetch envelope %s: %w", id, err)
	}
	if len(msgs) == 0 || msgs[0].Envelope == nil || len(msgs[0].Envelope.From) == 0 {
		return "", nil
	}
	return formatFrom(msgs[0].Envelope.From[0]), nil
}

func (s *Source) selectLocked(mailbox string) error {
	if s.selected == mailbox {
		return nil
	}
	data, err := s.client.Select(mailbox, &imap.SelectOptions{ReadOnly: true}).Wait()
	if err != nil {
		return fmt.Errorf("imap select %s: %w", mailbox, err)
	}
	s.selected = mailbox
	s.exists = data.NumMessages
	return nil
}

func hasAttr(attrs []imap.MailboxAttr, want imap.MailboxAttr) bool {
	for _, a := range attrs {
		if strings.EqualFold(string(a), string(want)) {
			return true
		}
	}
	return false
}

func parseToken(token string, exists uint32) (uint32, error) {
	if token == "" {
		return exists, nil
	}
	n, err := strconv.ParseUint(token, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("bad page token %q: %w", token, err)
	}
	if uint32(n) > exists {
		return exists, nil
	}
	return uint32(n), nil
}

// pageRange returns the sequence range [lo, hi] ending at top and the top
// of the following page, or 0 when this page reaches message 1.
func pageRange(top uint32, pageSize int64) (lo, hi, next uint32) {
	if top == 0 || pageSize <= 0 {
		return 0, 0, 0
	}
	hi = top
	if int64(top) <= pageSize {
		return 1, hi, 0
	}
	lo = top - uint32(pageSize) + 1
	return lo, hi, lo - 1
}

func messageID(mailbox string, uid imap.UID) string {
	return mailbox + ":" + strconv.FormatUint(uint64(uid), 10)
}

func splitMessageID(id string) (string, imap.UID, error) {
	i := strings.LastIndexByte(id, ':')
	if i <= 0 {
		return "", 0, fmt.Errorf("bad message id %q", id)
	}
	n, err := strconv.ParseUint(id[i+1:], 10, 32)
	if err != nil || n == 0 {
		return "", 0, fmt.Errorf("bad message id %q", id)
	}
	return id[:i], imap.UID(n), nil
}

// formatFrom renders an envelope address as a From header value.
func formatFrom(a imap.Address) string {
	addr := a.Addr()
	name := strings.TrimSpace(strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', '"':
			return -1
		}
		return r
	}, a.Name))
	if name == "" {
		return addr
	}
	return name + " <" + addr + ">"
}

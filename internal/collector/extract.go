package collector

import (
	"context"

	"mailsweep/internal/logger"
	"mailsweep/internal/metrics"
	"mailsweep/internal/model"
	"mailsweep/internal/util"
)

// Extractor resolves a message identifier to its sender.
type Extractor struct {
	source MailSource
}

func NewExtractor(source MailSource) *Extractor {
	return &Extractor{source: source}
}

// Sender fetches the message's From header and parses it. ok is false when
// the header is missing, empty, or could not be fetched; fetch errors are
// logged and never returned.
func (e *Extractor) Sender(ctx context.Context, messageID string) (sender model.Sender, ok bool) {
	from, err := e.source.FromHeader(ctx, messageID)
	if err != nil {
		metrics.SendersExtracted.WithLabelValues("error").Inc()
		logger.Warn("Error extracting sender", "message_id", messageID, "error", err)
		return model.Sender{}, false
	}

	sender = util.ParseSender(from)
	if sender.Address == "" {
		metrics.SendersExtracted.WithLabelValues("missing").Inc()
		logger.Debug("Message has no sender", "message_id", messageID)
		return model.Sender{}, false
	}
	metrics.SendersExtracted.WithLabelValues("ok").Inc()
	return sender, true
}

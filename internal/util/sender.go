package util

import (
	"mime"
	"strings"

	"github.com/emersion/go-message/charset"

	"mailsweep/internal/model"
)

var wordDecoder = &mime.WordDecoder{CharsetReader: charset.Reader}

// ParseSender splits a From header value into display name and address.
//   - `Display Name <local@domain>`: the text before the first '<' (quotes and
//     surrounding whitespace removed) is the name, the text inside the angle
//     brackets is the address.
//   - anything else: the whole value is the address and the name is empty.
//
// The address is not validated. RFC 2047 encoded names are decoded.
func ParseSender(value string) model.Sender {
	value = strings.TrimSpace(value)
	lt := strings.IndexByte(value, '<')
	if lt < 0 || !strings.Contains(value, ">") {
		return model.Sender{Address: value}
	}

	rest := value[lt+1:]
	if gt := strings.IndexByte(rest, '>'); gt >= 0 {
		rest = rest[:gt]
	}
	name := strings.TrimSpace(strings.ReplaceAll(value[:lt], `"`, ""))
	return model.Sender{
		DisplayName: DecodeDisplayName(name),
		Address:     strings.TrimSpace(rest),
	}
}

// DecodeDisplayName decodes RFC 2047 encoded-words (=?charset?enc?text?=).
// Values that fail to decode are returned unchanged.
func DecodeDisplayName(name string) string {
	if !strings.Contains(name, "=?") {
		return name
	}
	decoded, err := wordDecoder.DecodeHeader(name)
	if err != nil {
		return name
	}
	return strings.TrimSpace(decoded)
}

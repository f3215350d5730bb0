package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// SensitiveHeaders are request headers, lower-cased, whose values never
// reach a log line. The access log's header dump reads the same set.
var SensitiveHeaders = map[string]bool{
	"authorization": true,
	"x-api-key":     true,
	"cookie":        true,
}

// SensitiveFields are attribute keys masked wherever they appear, keys of
// a logged actor Result included.
var SensitiveFields = []string{"card_number", "cvv", "password", "secret", "token"}

var (
	// panPattern matches a card number that slipped into free text, such as
	// an argument error quoting the value: 13 to 19 digits in a row, or four
	// space-separated groups of four.
	panPattern    = regexp.MustCompile(`\b(?:\d{13,19}|\d{4}(?: \d{4}){3})\b`)
	bearerPattern = regexp.MustCompile(`(?i)bearer\s+[a-z0-9\-._~+/]+=*`)
)

func redactor() func([]string, slog.Attr) slog.Attr {
	opts := make([]masq.Option, 0, len(SensitiveHeaders)+len(SensitiveFields)+2)
	for name := range SensitiveHeaders {
		opts = append(opts, masq.WithFieldName(name))
	}
	for _, name := range SensitiveFields {
		opts = append(opts, masq.WithFieldName(name))
	}
	opts = append(opts, masq.WithRegex(panPattern), masq.WithRegex(bearerPattern))
	return masq.New(opts...)
}

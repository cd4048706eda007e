package adapter

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/manasnilorout-blv/decode-contacts/internal/fetcher"
	"github.com/manasnilorout-blv/decode-contacts/internal/model"
)

// Mail column labels as written by the mail client's message-log export.
const (
	colFromName    = "From: (Name)"
	colFromAddress = "From: (Address)"
	colToName      = "To: (Name)"
	colToAddress   = "To: (Address)"
	colCCName      = "CC: (Name)"
	colCCAddress   = "CC: (Address)"
)

// Mail parses a mail-client message log. Each row yields up to one sender
// mention plus one mention per recipient in the semicolon-delimited To and
// CC lists.
type Mail struct{}

// Name implements Adapter.
func (a *Mail) Name() string { return "mail" }

// Parse implements Adapter.
func (a *Mail) Parse(ctx context.Context, path string) ([]model.RawContact, error) {
	log := zap.L().With(zap.String("adapter", a.Name()), zap.String("path", path))

	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	header, rows, err := fetcher.ReadCSV(ctx, f, fetcher.CSVOptions{HasHeader: true, LazyQuotes: true, TrimSpace: true})
	if err != nil {
		return nil, eris.Wrap(err, "mail: read csv")
	}
	idx := fetcher.HeaderIndex(header)

	var contacts []model.RawContact
	for _, row := range rows {
		// Sender follows the same rule as each recipient position: a
		// complete (name, extractable-email) pair or nothing.
		fromName := fetcher.Field(idx, row, colFromName)
		fromAddr := fetcher.Field(idx, row, colFromAddress)
		if fromName != "" && fromAddr != "" {
			if c, ok := newMention(model.SourceMailFrom, fromName, fromAddr, ""); ok && c.Email != "" {
				contacts = append(contacts, c)
			}
		}
		contacts = append(contacts, zipRecipients(model.SourceMailTo,
			fetcher.Field(idx, row, colToName),
			fetcher.Field(idx, row, colToAddress))...)
		contacts = append(contacts, zipRecipients(model.SourceMailCC,
			fetcher.Field(idx, row, colCCName),
			fetcher.Field(idx, row, colCCAddress))...)
	}

	log.Info("mail log parsed", zap.Int("rows", len(rows)), zap.Int("mentions", len(contacts)))
	return contacts, nil
}

// zipRecipients pairs the semicolon-delimited name and address lists by
// position, up to the longer list's length. A position with a name but no
// extractable address, or vice versa, is skipped.
func zipRecipients(src model.Source, names, addresses string) []model.RawContact {
	nameList := splitList(names)
	addrList := splitList(addresses)

	n := len(nameList)
	if len(addrList) > n {
		n = len(addrList)
	}

	var out []model.RawContact
	for i := 0; i < n; i++ {
		var name, addr string
		if i < len(nameList) {
			name = nameList[i]
		}
		if i < len(addrList) {
			addr = addrList[i]
		}
		if name == "" || addr == "" {
			continue
		}
		c, ok := newMention(src, name, addr, "")
		if !ok || c.Email == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

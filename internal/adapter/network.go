package adapter

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/manasnilorout-blv/decode-contacts/internal/fetcher"
	"github.com/manasnilorout-blv/decode-contacts/internal/model"
)

// Network header marker and positional columns. The export ships with a
// free-text preamble ("Notes: ...") before the real header row; everything
// up to and including the header is skipped.
const (
	networkHeaderFirst = "first name"
	networkHeaderLast  = "last name"
	networkEmailCol    = 3 // First Name, Last Name, URL, Email Address, ...
)

// Network parses a professional-network connections export. Rows are
// positional: the adapter locates the header row by its two known leading
// labels and treats subsequent rows as data.
type Network struct{}

// Name implements Adapter.
func (a *Network) Name() string { return "network" }

// Parse implements Adapter.
func (a *Network) Parse(ctx context.Context, path string) ([]model.RawContact, error) {
	log := zap.L().With(zap.String("adapter", a.Name()), zap.String("path", path))

	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	// No HasHeader: the header's position is unknown until we see it.
	_, rows, err := fetcher.ReadCSV(ctx, f, fetcher.CSVOptions{LazyQuotes: true, TrimSpace: true})
	if err != nil {
		return nil, eris.Wrap(err, "network: read csv")
	}

	var contacts []model.RawContact
	headerSeen := false
	skipped := 0
	for _, row := range rows {
		if !headerSeen {
			if isNetworkHeader(row) {
				headerSeen = true
			} else {
				skipped++
			}
			continue
		}
		if len(row) < 2 {
			continue
		}

		name := strings.TrimSpace(row[0] + " " + row[1])
		if name == "" {
			continue
		}
		email := ""
		if len(row) > networkEmailCol {
			email = row[networkEmailCol]
		}
		if c, ok := newMention(model.SourceNetworkExport, name, email, ""); ok {
			contacts = append(contacts, c)
		}
	}

	if !headerSeen {
		log.Warn("network export header row not found; no rows accepted")
	}
	log.Info("network export parsed",
		zap.Int("preamble_rows", skipped),
		zap.Int("mentions", len(contacts)),
	)
	return contacts, nil
}

func isNetworkHeader(row []string) bool {
	return len(row) >= 2 &&
		strings.EqualFold(strings.TrimSpace(row[0]), networkHeaderFirst) &&
		strings.EqualFold(strings.TrimSpace(row[1]), networkHeaderLast)
}

package adapter

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/manasnilorout-blv/decode-contacts/internal/fetcher"
	"github.com/manasnilorout-blv/decode-contacts/internal/model"
)

// Column preference orders for the phone-book export. Vendors label the
// same field differently between versions, so each field is resolved from
// the first present, non-empty column.
var (
	phoneBookNameCols  = []string{"Full Name", "Name"}
	phoneBookEmailCols = []string{"E-mail Address", "E-mail 2 Address", "E-mail 3 Address", "Email", "Email Address"}
	phoneBookPhoneCols = []string{"Mobile Phone", "Primary Phone", "Home Phone", "Business Phone", "Other Phone"}
)

// PhoneBook parses a phone-book contacts export (.csv or .xlsx), resolving
// columns by header name. A row is admitted only when it has a full name
// and at least one of email/phone.
type PhoneBook struct{}

// Name implements Adapter.
func (a *PhoneBook) Name() string { return "phonebook" }

// Parse implements Adapter.
func (a *PhoneBook) Parse(ctx context.Context, path string) ([]model.RawContact, error) {
	log := zap.L().With(zap.String("adapter", a.Name()), zap.String("path", path))

	header, rows, err := a.readRows(ctx, path)
	if err != nil {
		return nil, err
	}
	idx := fetcher.HeaderIndex(header)

	var contacts []model.RawContact
	for _, row := range rows {
		name := firstField(idx, row, phoneBookNameCols)
		if name == "" {
			continue
		}

		email := firstField(idx, row, phoneBookEmailCols)
		phone := firstField(idx, row, phoneBookPhoneCols)
		c, ok := newMention(model.SourcePhoneBook, name, email, phone)
		if !ok || (c.Email == "" && c.Phone == "") {
			continue
		}
		contacts = append(contacts, c)
	}

	log.Info("phone book parsed", zap.Int("rows", len(rows)), zap.Int("mentions", len(contacts)))
	return contacts, nil
}

func (a *PhoneBook) readRows(ctx context.Context, path string) (header []string, rows [][]string, err error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		all, err := fetcher.ReadXLSX(path, fetcher.XLSXOptions{})
		if err != nil {
			return nil, nil, eris.Wrap(err, "phonebook: read xlsx")
		}
		if len(all) == 0 {
			return nil, nil, nil
		}
		return all[0], all[1:], nil
	}

	f, err := openInput(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close() //nolint:errcheck

	header, rows, err = fetcher.ReadCSV(ctx, f, fetcher.CSVOptions{HasHeader: true, LazyQuotes: true, TrimSpace: true})
	if err != nil {
		return nil, nil, eris.Wrap(err, "phonebook: read csv")
	}
	return header, rows, nil
}

// firstField returns the first non-empty value among the candidate columns.
func firstField(idx map[string]int, row []string, cols []string) string {
	for _, col := range cols {
		if v := fetcher.Field(idx, row, col); v != "" {
			return v
		}
	}
	return ""
}

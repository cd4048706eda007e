// Package adapter converts vendor-specific export files into the generic
// RawContact records the dedupe core consumes. Each adapter owns one file
// shape and is tolerant of ragged rows; a bad row costs that row, never the
// file.
package adapter

import (
	"context"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/manasnilorout-blv/decode-contacts/internal/model"
	"github.com/manasnilorout-blv/decode-contacts/internal/normalize"
)

// Adapter parses one export file into contact mentions.
type Adapter interface {
	// Name identifies the adapter in logs and run metadata.
	Name() string

	// Parse reads the file at path and returns every admissible mention.
	// Mentions with no email, no phone, and no name are dropped here so the
	// core never sees them.
	Parse(ctx context.Context, path string) ([]model.RawContact, error)
}

func openInput(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "adapter: open %s", path)
	}
	return f, nil
}

// newMention builds a RawContact from raw name/email/phone text, applying
// the field normalizers. Returns ok=false when nothing usable survives.
func newMention(src model.Source, rawName, rawEmail, rawPhone string) (model.RawContact, bool) {
	c := model.RawContact{
		Source:         src,
		OriginalName:   strings.TrimSpace(rawName),
		NormalizedName: normalize.Name(rawName),
		Email:          normalize.Email(rawEmail),
		Phone:          normalize.Phone(rawPhone),
	}
	return c, c.HasIdentity()
}

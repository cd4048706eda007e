package pipeline

import (
	"encoding/csv"
	"os"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/manasnilorout-blv/decode-contacts/internal/model"
)

// exportRow is the flat-file schema. Unfilled name slots serialize as
// empty cells, not the N/A sentinel.
type exportRow struct {
	LinkedInName  string `csv:"LinkedIn Name"`
	PhoneBookName string `csv:"Phone Book Name"`
	EmailName     string `csv:"Email Name"`
	Email         string `csv:"email"`
	Phone         string `csv:"phone"`
}

// ExportCSV writes the ranked contacts to a CSV file, one row per record,
// preserving slice order.
func ExportCSV(contacts []*model.Candidate, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return eris.Wrap(err, "export: create file")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	enc := csvutil.NewEncoder(w)

	for _, c := range contacts {
		row := exportRow{
			LinkedInName:  blankSentinel(c.LinkedInName),
			PhoneBookName: blankSentinel(c.PhoneBookName),
			EmailName:     blankSentinel(c.EmailName),
			Email:         c.Email,
			Phone:         c.Phone,
		}
		if err := enc.Encode(row); err != nil {
			return eris.Wrap(err, "export: encode row")
		}
	}

	// An empty batch still gets a header line.
	if len(contacts) == 0 {
		if err := enc.EncodeHeader(exportRow{}); err != nil {
			return eris.Wrap(err, "export: write header")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "export: flush")
	}
	return nil
}

func blankSentinel(name string) string {
	if name == model.NotAvailable {
		return ""
	}
	return name
}

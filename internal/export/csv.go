package export

import (
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"

	"github.com/rendetalje/lead-cli/internal/model"
)

// WriteCSV writes a header row and one row per lead.
func WriteCSV(w io.Writer, leads []model.CanonicalLead) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return eris.Wrap(err, "csv: write header")
	}
	for _, l := range leads {
		if err := cw.Write(Row(l)); err != nil {
			return eris.Wrap(err, "csv: write row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "csv: flush")
}

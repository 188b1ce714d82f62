package export

import (
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"

	"github.com/tars-systems/leadscout/internal/model"
)

// WriteCSV writes leads to w as CSV with a header row.
func WriteCSV(w io.Writer, leads []model.Candidate) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, lead := range leads {
		if err := cw.Write(Row(lead)); err != nil {
			return eris.Wrapf(err, "export: write csv row %s", lead.Name)
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

package followup

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
)

// WriteTables prints the three priority tables.
func WriteTables(w io.Writer, plan Plan) error {
	tables := []struct {
		p    Priority
		rows []Row
		info string
	}{
		{P1, plan.P1, "INFO"},
		{P2, plan.P2, "TILBUD"},
		{P3, plan.P3, "ANBEFALING"},
	}

	for i, t := range tables {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%d)\n", t.p.Title(), len(t.rows))
		if len(t.rows) == 0 {
			fmt.Fprintln(w, "  Ingen leads.")
			continue
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "NAVN\tEMAIL\tTYPE\tSIDSTE KONTAKT\tDAGE\t%s\n", t.info)
		for _, r := range t.rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
				dash(r.Name), dash(r.Email), r.Type,
				r.LastContact.Format(time.DateOnly), r.DaysSince, r.Info,
			)
		}
		if err := tw.Flush(); err != nil {
			return eris.Wrap(err, "followup: flush table")
		}
	}
	return nil
}

// CSVHeader is the header row written by WriteCSV.
var CSVHeader = []string{"priority", "name", "email", "type", "last_contact", "days_since", "info", "identity_key"}

// WriteCSV writes every row of the plan as CSV.
func WriteCSV(w io.Writer, plan Plan) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return eris.Wrap(err, "followup: write csv header")
	}
	for _, r := range plan.Rows() {
		rec := []string{
			"P" + strconv.Itoa(int(r.Priority)),
			r.Name,
			r.Email,
			string(r.Type),
			r.LastContact.Format(time.DateOnly),
			strconv.Itoa(r.DaysSince),
			r.Info,
			r.Key,
		}
		if err := cw.Write(rec); err != nil {
			return eris.Wrap(err, "followup: write csv row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "followup: flush csv")
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Package report persists filtered job tables as timestamped CSV files.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"jobmate/jobcollect/internal/model"
)

// DirDateLayout is the yyMMdd layout used in report directory names.
const DirDateLayout = "060102"

// Columns is the fixed CSV header. The description is never exported.
var Columns = []string{
	"date_posted", "location", "company", "title",
	"job_url", "job_url_direct", "company_url_direct",
	"min_amount", "max_amount", "currency", "interval",
}

// Sink accepts a final table and the path it should be written to.
type Sink interface {
	Write(path string, table model.JobTable) error
}

// Path returns <root>/<start>_<end>/<group>.csv where end is the run start
// and start is end minus the recency window.
func Path(root, group string, end time.Time, hoursOld int) string {
	start := end.Add(-time.Duration(hoursOld) * time.Hour)
	dir := fmt.Sprintf("%s_%s", start.Format(DirDateLayout), end.Format(DirDateLayout))
	return filepath.Join(root, dir, group+".csv")
}

// Row projects a record onto Columns.
func Row(r model.JobRecord) []string {
	date := ""
	if !r.DatePosted.IsZero() {
		date = r.DatePosted.Format(time.DateOnly)
	}
	title := ""
	if r.Title != nil {
		title = *r.Title
	}
	return []string{
		date,
		r.Location,
		r.Company,
		title,
		r.JobURL,
		r.JobURLDirect,
		r.CompanyURLDirect,
		formatAmount(r.MinAmount),
		formatAmount(r.MaxAmount),
		r.Currency,
		r.Interval,
	}
}

func formatAmount(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// CSVWriter writes tables as CSV with every field quoted.
type CSVWriter struct{}

// Write creates the parent directory if needed and writes table to path.
func (CSVWriter) Write(path string, table model.JobTable) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := Encode(f, table); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// Encode writes the header and one row per record to w, quoting every
// field. encoding/csv only quotes when needed, so quoting is done here.
func Encode(w io.Writer, table model.JobTable) error {
	bw := bufio.NewWriter(w)
	writeRow(bw, Columns)
	for _, r := range table {
		writeRow(bw, Row(r))
	}
	return bw.Flush()
}

func writeRow(bw *bufio.Writer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			bw.WriteByte(',')
		}
		bw.WriteByte('"')
		bw.WriteString(strings.ReplaceAll(f, `"`, `""`))
		bw.WriteByte('"')
	}
	bw.WriteByte('\n')
}

package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"gstledger/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the register CSV header row.
var columns = []string{
	"Document Number",
	"Document Type",
	"Date",
	"Party Name",
	"Party GSTIN",
	"B2B",
	"Rate",
	"Taxable Amount",
	"CGST",
	"SGST",
	"IGST",
	"Total",
}

// Writer wraps csv.Writer for exporting register rows as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteRegisterRows converts register rows to CSV and writes them. A bill
// mixing tax rates gets one child row per rate bucket beneath its own row.
func (w *Writer) WriteRegisterRows(rows []domain.RegisterRow) error {
	for i := range rows {
		r := &rows[i]
		if err := w.csv.Write(registerToRow(r)); err != nil {
			return err
		}
		for _, bucket := range r.Breakdown {
			if err := w.csv.Write(bucketToRow(r, &bucket)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func registerToRow(r *domain.RegisterRow) []string {
	return []string{
		r.Number,
		string(r.BillType),
		r.Date.Format("2006-01-02"),
		r.PartyName,
		r.PartyGSTIN,
		formatBool(r.B2B),
		r.PrimaryRate.String(),
		domain.Rupees(r.Taxable),
		domain.Rupees(r.CGST),
		domain.Rupees(r.SGST),
		domain.Rupees(r.IGST),
		domain.Rupees(r.Total),
	}
}

// bucketToRow renders one rate slice of a mixed-rate bill. Identity columns
// stay empty so the child rows read as a breakdown.
func bucketToRow(r *domain.RegisterRow, b *domain.RateBucket) []string {
	return []string{
		"", "", "", "", "", "",
		b.Rate.String(),
		domain.Rupees(b.Taxable),
		domain.Rupees(b.CGST),
		domain.Rupees(b.SGST),
		domain.Rupees(b.IGST),
		"",
	}
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a report name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {sanitized_report_name}_{YYYY-MM-DD}.{ext}
func BuildFilename(reportName, ext string) string {
	sanitized := SanitizeFilename(reportName)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.%s", sanitized, date, ext)
}

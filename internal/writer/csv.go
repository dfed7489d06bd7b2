package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/insightdelivered/dirham-statement-importer/internal/models"
)

// CSVWriter writes transaction records to CSV format.
type CSVWriter struct {
	// IncludeHeader adds "# Variant" and "# Period" rows when known.
	IncludeHeader bool
}

// WriteToFile writes the statement to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, st *models.Statement) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	if err := w.Write(f, st); err != nil {
		return err
	}
	return f.Close()
}

// Write writes the statement in CSV format to out.
func (w *CSVWriter) Write(out io.Writer, st *models.Statement) error {
	writer := csv.NewWriter(out)

	if w.IncludeHeader {
		if st.Variant != models.VariantUnknown {
			writer.Write([]string{"# Variant", string(st.Variant)})
		}
		if st.Period.Year != 0 {
			writer.Write([]string{"# Period", st.Period.String()})
		}
	}

	header := []string{"Operation Date", "Value Date", "Code", "Description", "Category", "Direction", "Amount"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range st.Records {
		code := ""
		if r.Code != nil {
			code = *r.Code
		}
		row := []string{
			r.OperationDate,
			r.ValueDate,
			code,
			r.Description,
			r.Category,
			string(r.Direction),
			r.Amount.StringFixed(2),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// WriteCSV writes rows as a CSV with the stable Header() ordering.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := NewCSVWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.WriteRow(r); err != nil {
			return err
		}
	}
	return cw.Flush()
}

// CSVWriter streams rows to an output, flushing after every row so that a
// killed run keeps everything classified so far.
type CSVWriter struct {
	cw *csv.Writer
}

func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{cw: csv.NewWriter(w)}
}

func (w *CSVWriter) WriteHeader() error {
	if err := w.cw.Write(Header()); err != nil {
		return err
	}
	return w.Flush()
}

func (w *CSVWriter) WriteRow(r Row) error {
	if err := w.cw.Write(record(r)); err != nil {
		return err
	}
	return w.Flush()
}

func (w *CSVWriter) Flush() error {
	w.cw.Flush()
	return w.cw.Error()
}

func record(r Row) []string {
	return []string{
		r.Domain,
		r.Category,
		r.FoundName,
		r.FoundEmail,
		r.EmailVerified,
		r.JobTitle,
		r.LinkedInURL,
		r.SearchSuccess,
		r.APIErrorType,
		r.APIErrorExplanation,
	}
}

// ReadCSV reads rows from a CSV using the stable Header() contract.
//
// Extra columns are ignored. Required columns from Header() must exist.
// Used by resume runs to reuse prior successful rows.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, name := range Header() {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}

		get := func(col string) string {
			i := index[col]
			if i < 0 || i >= len(rec) {
				return ""
			}
			return rec[i]
		}

		rows = append(rows, Row{
			Domain:              get("Domain Searched"),
			Category:            get("Category Searched"),
			FoundName:           get("Found Name"),
			FoundEmail:          get("Found Email"),
			EmailVerified:       get("Email Verified"),
			JobTitle:            get("Job Title"),
			LinkedInURL:         get("LinkedIn URL"),
			SearchSuccess:       get("Search Success"),
			APIErrorType:        get("API Error Type"),
			APIErrorExplanation: get("API Error Explanation"),
		})
	}
}

package codec

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"voterroll/internal/domain"
	"voterroll/internal/ingest"
)

// CSVCodec reads and writes the roll file layout
type CSVCodec struct{}

// NewCSVCodec creates a new CSV codec
func NewCSVCodec() *CSVCodec {
	return &CSVCodec{}
}

// Format returns the codec format identifier
func (c *CSVCodec) Format() string {
	return "csv"
}

// ContentType returns the MIME type of exported documents
func (c *CSVCodec) ContentType() string {
	return "text/csv; charset=utf-8"
}

// Parse imports voters from a roll file with a header line.
// Malformed rows are skipped the same way ingestion skips them.
func (c *CSVCodec) Parse(r io.Reader) ([]domain.Voter, error) {
	voters, _, err := ingest.Parse(context.Background(), r, ingest.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return voters, nil
}

// Export writes voters in the roll file layout, header first
func (c *CSVCodec) Export(voters []domain.Voter, w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ingest.Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, v := range voters {
		if err := writer.Write(ingest.FormatRow(v)); err != nil {
			return fmt.Errorf("failed to write voter %s: %w", v.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

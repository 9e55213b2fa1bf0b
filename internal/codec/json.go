package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"voterroll/internal/domain"
)

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// ContentType returns the MIME type of exported documents
func (c *JSONCodec) ContentType() string {
	return "application/json"
}

// Parse imports voters from a JSON array
func (c *JSONCodec) Parse(r io.Reader) ([]domain.Voter, error) {
	var voters []domain.Voter
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&voters); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return voters, nil
}

// Export exports voters as a JSON array
func (c *JSONCodec) Export(voters []domain.Voter, w io.Writer) error {
	if voters == nil {
		voters = []domain.Voter{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(voters); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

package codec

import (
	"fmt"
	"io"
	"sort"

	"voterroll/internal/domain"
)

// Importer interface for reading voters from various formats
type Importer interface {
	Parse(r io.Reader) ([]domain.Voter, error)
	Format() string
}

// Exporter interface for writing voters to various formats
type Exporter interface {
	Export(voters []domain.Voter, w io.Writer) error
	Format() string
	ContentType() string
}

// Codec both reads and writes a format
type Codec interface {
	Importer
	Exporter
}

var codecs = map[string]Codec{
	"json": NewJSONCodec(),
	"yaml": NewYAMLCodec(),
	"csv":  NewCSVCodec(),
}

// ForFormat returns the codec registered for format
func ForFormat(format string) (Codec, error) {
	c, ok := codecs[format]
	if !ok {
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	return c, nil
}

// Formats lists the registered format identifiers
func Formats() []string {
	formats := make([]string, 0, len(codecs))
	for f := range codecs {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

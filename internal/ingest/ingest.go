// Package ingest loads the voter roll from its CSV export.
//
// Each row maps positionally onto a domain.Voter. Malformed rows are skipped
// and reported; they never abort the batch. Loading replaces the store's
// full contents.
package ingest

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"voterroll/internal/domain"
	"voterroll/internal/metrics"

	"github.com/google/uuid"
)

// FieldCount is the number of columns in a roll row
const FieldCount = 17

// Column positions in a roll row
const (
	colID = iota
	colLastName
	colFirstName
	colStreetNumber
	colStreetName
	colApartment
	colZipCode
	colDateOfBirth
	colDateOfRegistration
	colParty
	colPrecinct
	colV20State
	colV21Town
	colV21Primary
	colV22General
	colV23Town
	colScore
)

// Header is the column header written before the rows of an exported roll
var Header = []string{
	"Voter ID Number", "Last Name", "First Name",
	"Residential Address - Street Number", "Residential Address - Street Name",
	"Residential Address - Apartment Number", "Residential Address - Zip Code",
	"Date of Birth", "Date of Registration", "Party Affiliation", "Precinct Number",
	"v20state", "v21town", "v21primary", "v22general", "v23town", "voter_score",
}

// Row parse failures
var (
	ErrFieldCount = errors.New("wrong number of fields")
	ErrMissingID  = errors.New("missing voter id")
	ErrDuplicate  = errors.New("duplicate voter id")
)

// RowError describes one skipped row
type RowError struct {
	Line   int      `json:"line"`
	Fields []string `json:"fields"`
	Err    error    `json:"-"`
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Report summarizes one ingestion batch
type Report struct {
	BatchID  string        `json:"batch_id"`
	Source   string        `json:"source,omitempty"`
	Rows     int           `json:"rows"`
	Created  int           `json:"created"`
	Skipped  []*RowError   `json:"skipped,omitempty"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
}

// SkippedCount returns the number of rows that were not loaded
func (r *Report) SkippedCount() int {
	return len(r.Skipped)
}

// Options control parsing
type Options struct {
	// SkipHeader discards the first line
	SkipHeader bool
}

// DefaultOptions matches the roll file export: one header line
func DefaultOptions() Options {
	return Options{SkipHeader: true}
}

// ParseRow converts one roll row into a voter
func ParseRow(fields []string) (domain.Voter, error) {
	if len(fields) != FieldCount {
		return domain.Voter{}, fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(fields), FieldCount)
	}

	field := func(i int) string { return strings.TrimSpace(fields[i]) }

	id := field(colID)
	if id == "" {
		return domain.Voter{}, ErrMissingID
	}

	dob, err := time.Parse(domain.DateLayout, field(colDateOfBirth))
	if err != nil {
		return domain.Voter{}, fmt.Errorf("date of birth: %w", err)
	}
	dor, err := time.Parse(domain.DateLayout, field(colDateOfRegistration))
	if err != nil {
		return domain.Voter{}, fmt.Errorf("date of registration: %w", err)
	}
	score, err := strconv.Atoi(field(colScore))
	if err != nil {
		return domain.Voter{}, fmt.Errorf("voter score: %w", err)
	}

	return domain.Voter{
		ID:        id,
		LastName:  field(colLastName),
		FirstName: field(colFirstName),
		Address: domain.Address{
			StreetNumber: field(colStreetNumber),
			StreetName:   field(colStreetName),
			Apartment:    field(colApartment),
			ZipCode:      field(colZipCode),
		},
		DateOfBirth:        dob,
		DateOfRegistration: dor,
		Party:              field(colParty),
		Precinct:           field(colPrecinct),
		Voted: domain.Participation{
			State2020:   parseFlag(field(colV20State)),
			Town2021:    parseFlag(field(colV21Town)),
			Primary2021: parseFlag(field(colV21Primary)),
			General2022: parseFlag(field(colV22General)),
			Town2023:    parseFlag(field(colV23Town)),
		},
		Score: score,
	}, nil
}

// parseFlag reads a participation flag; anything unrecognized is false
func parseFlag(s string) bool {
	switch s {
	case "1", "True", "TRUE", "true":
		return true
	}
	return false
}

// FormatRow is the inverse of ParseRow
func FormatRow(v domain.Voter) []string {
	flag := func(b bool) string {
		if b {
			return "TRUE"
		}
		return "FALSE"
	}
	return []string{
		v.ID, v.LastName, v.FirstName,
		v.Address.StreetNumber, v.Address.StreetName, v.Address.Apartment, v.Address.ZipCode,
		v.DateOfBirth.Format(domain.DateLayout), v.DateOfRegistration.Format(domain.DateLayout),
		v.Party, v.Precinct,
		flag(v.Voted.State2020), flag(v.Voted.Town2021), flag(v.Voted.Primary2021),
		flag(v.Voted.General2022), flag(v.Voted.Town2023),
		strconv.Itoa(v.Score),
	}
}

// maxLineSize bounds a single roll line
const maxLineSize = 1 << 20

// Parse reads every row from r, one physical line per row. Malformed rows are
// logged and collected in the report; only read failures of the underlying
// reader are returned.
func Parse(ctx context.Context, r io.Reader, opts Options) ([]domain.Voter, *Report, error) {
	report := &Report{
		BatchID: uuid.NewString(),
		Started: time.Now(),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		voters []domain.Voter
		seen   = make(map[string]bool)
		line   int
	)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, report, err
		}
		line++

		text := strings.TrimRight(scanner.Text(), "\r")
		if line == 1 && opts.SkipHeader {
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		report.Rows++

		fields, err := splitLine(text)
		if err != nil {
			skip(report, &RowError{Line: line, Fields: []string{text}, Err: err})
			continue
		}

		v, err := ParseRow(fields)
		if err != nil {
			skip(report, &RowError{Line: line, Fields: fields, Err: err})
			continue
		}
		if seen[v.ID] {
			skip(report, &RowError{Line: line, Fields: fields, Err: fmt.Errorf("%w: %s", ErrDuplicate, v.ID)})
			continue
		}
		seen[v.ID] = true
		voters = append(voters, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, report, fmt.Errorf("read roll: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, report, err
	}

	report.Created = len(voters)
	report.Duration = time.Since(report.Started)
	metrics.RowsIngested.Add(float64(report.Created))
	metrics.RowsSkipped.Add(float64(report.SkippedCount()))

	return voters, report, nil
}

// splitLine parses one line as a CSV record. Quoting never spans lines, so a
// stray quote only spoils its own row.
func splitLine(text string) ([]string, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	fields, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: got 0, want %d", ErrFieldCount, FieldCount)
	}
	return fields, err
}

func skip(report *Report, rowErr *RowError) {
	log.Printf("Skipped: %v %q", rowErr, rowErr.Fields)
	report.Skipped = append(report.Skipped, rowErr)
}

// Replacer is the part of the store ingestion writes to
type Replacer interface {
	ReplaceAll(ctx context.Context, voters []domain.Voter) error
}

// Load parses r and replaces the store's contents with the result
func Load(ctx context.Context, r io.Reader, store Replacer, opts Options) (*Report, error) {
	voters, report, err := Parse(ctx, r, opts)
	if err != nil {
		return report, err
	}

	if err := store.ReplaceAll(ctx, voters); err != nil {
		return report, fmt.Errorf("replace voters: %w", err)
	}
	report.Duration = time.Since(report.Started)

	log.Printf("Done. Created %d voters, skipped %d rows (batch %s)",
		report.Created, report.SkippedCount(), report.BatchID)
	return report, nil
}

// LoadFile loads the roll file at path into store
func LoadFile(ctx context.Context, path string, store Replacer, opts Options) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roll: %w", err)
	}
	defer f.Close()

	report, err := Load(ctx, f, store, opts)
	if report != nil {
		report.Source = path
	}
	return report, err
}

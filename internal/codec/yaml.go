package codec

import (
	"fmt"
	"io"
	"time"

	"voterroll/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// ContentType returns the MIME type of exported documents
func (c *YAMLCodec) ContentType() string {
	return "application/yaml"
}

// yamlRoll represents the YAML structure for a voter roll
type yamlRoll struct {
	Voters []yamlVoter `yaml:"voters"`
}

type yamlVoter struct {
	ID               string   `yaml:"id"`
	FirstName        string   `yaml:"first_name"`
	LastName         string   `yaml:"last_name"`
	StreetNumber     string   `yaml:"street_number"`
	StreetName       string   `yaml:"street_name"`
	Apartment        string   `yaml:"apartment,omitempty"`
	ZipCode          string   `yaml:"zip_code"`
	DateOfBirth      string   `yaml:"date_of_birth"`
	DateRegistration string   `yaml:"date_of_registration"`
	Party            string   `yaml:"party,omitempty"`
	Precinct         string   `yaml:"precinct"`
	Voted            []string `yaml:"voted,flow,omitempty"`
	Score            int      `yaml:"voter_score"`
}

// Parse imports voters from YAML
func (c *YAMLCodec) Parse(r io.Reader) ([]domain.Voter, error) {
	var roll yamlRoll
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&roll); err != nil {
		if err == io.EOF {
			return []domain.Voter{}, nil
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	voters := make([]domain.Voter, 0, len(roll.Voters))
	for _, yv := range roll.Voters {
		v, err := yv.toDomain()
		if err != nil {
			return nil, fmt.Errorf("voter %s: %w", yv.ID, err)
		}
		voters = append(voters, v)
	}
	return voters, nil
}

// Export exports voters to YAML
func (c *YAMLCodec) Export(voters []domain.Voter, w io.Writer) error {
	roll := yamlRoll{Voters: make([]yamlVoter, 0, len(voters))}
	for _, v := range voters {
		roll.Voters = append(roll.Voters, fromDomain(v))
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(roll); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

func fromDomain(v domain.Voter) yamlVoter {
	yv := yamlVoter{
		ID:               v.ID,
		FirstName:        v.FirstName,
		LastName:         v.LastName,
		StreetNumber:     v.Address.StreetNumber,
		StreetName:       v.Address.StreetName,
		Apartment:        v.Address.Apartment,
		ZipCode:          v.Address.ZipCode,
		DateOfBirth:      v.DateOfBirth.Format(domain.DateLayout),
		DateRegistration: v.DateOfRegistration.Format(domain.DateLayout),
		Party:            v.Party,
		Precinct:         v.Precinct,
		Score:            v.Score,
	}
	for _, e := range domain.Elections {
		if v.Voted.Voted(e) {
			yv.Voted = append(yv.Voted, string(e))
		}
	}
	return yv
}

func (yv yamlVoter) toDomain() (domain.Voter, error) {
	dob, err := time.Parse(domain.DateLayout, yv.DateOfBirth)
	if err != nil {
		return domain.Voter{}, fmt.Errorf("date_of_birth: %w", err)
	}
	reg, err := time.Parse(domain.DateLayout, yv.DateRegistration)
	if err != nil {
		return domain.Voter{}, fmt.Errorf("date_of_registration: %w", err)
	}

	v := domain.Voter{
		ID:        yv.ID,
		FirstName: yv.FirstName,
		LastName:  yv.LastName,
		Address: domain.Address{
			StreetNumber: yv.StreetNumber,
			StreetName:   yv.StreetName,
			Apartment:    yv.Apartment,
			ZipCode:      yv.ZipCode,
		},
		DateOfBirth:        dob,
		DateOfRegistration: reg,
		Party:              yv.Party,
		Precinct:           yv.Precinct,
		Score:              yv.Score,
	}
	for _, name := range yv.Voted {
		e, ok := domain.ParseElection(name)
		if !ok {
			return domain.Voter{}, fmt.Errorf("unknown election %q", name)
		}
		v.Voted = v.Voted.With(e, true)
	}
	return v, nil
}

package config

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cloud.google.com/go/civil"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/acc/internal/date"
	"github.com/cleared-dev/acc/internal/ledger"
)

// DefaultPath is the config file used when nothing else is configured.
const DefaultPath = ".acc.conf"

// Header is the CSV header of the config file.
const Header = "date,ledger"

// Field names one value of the config record.
type Field string

const (
	FieldDate   Field = "date"
	FieldLedger Field = "ledger"
)

// Config is the persisted application state.
type Config struct {
	Date   civil.Date // simulated current date
	Ledger string     // active ledger path
}

// Default returns the state of a fresh installation.
func Default() Config {
	return Config{Date: date.Epoch, Ledger: ledger.DefaultPath}
}

// Get returns a field as text.
func (c Config) Get(f Field) (string, error) {
	switch f {
	case FieldDate:
		return c.Date.String(), nil
	case FieldLedger:
		return c.Ledger, nil
	}
	return "", fmt.Errorf("unknown config field %q", f)
}

// With returns a copy of c with one field replaced.
func (c Config) With(f Field, value string) (Config, error) {
	switch f {
	case FieldDate:
		d, err := date.Parse(value)
		if err != nil {
			return c, err
		}
		c.Date = d
	case FieldLedger:
		if value == "" {
			return c, errors.New("ledger path must not be empty")
		}
		c.Ledger = value
	default:
		return c, fmt.Errorf("unknown config field %q", f)
	}
	return c, nil
}

// codec converts a Config to and from file bytes.
type codec interface {
	encode(Config) ([]byte, error)
	decode([]byte) (Config, error)
}

// Store persists a single Config record at a path. Every mutation rewrites
// the whole file.
type Store struct {
	path  string
	codec codec
}

// NewStore binds a Store to path. Files ending in .yaml or .yml are kept as
// YAML; anything else uses the CSV layout.
func NewStore(path string) *Store {
	var c codec = csvCodec{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		c = yamlCodec{}
	}
	return &Store{path: path, codec: c}
}

// Path returns the config file path.
func (s *Store) Path() string { return s.path }

// Read returns the persisted config, or Default when the file is absent.
func (s *Store) Read() (Config, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := s.codec.decode(data)
	if err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", s.path, err)
	}
	return cfg, nil
}

// Write overwrites the config file with cfg.
func (s *Store) Write(cfg Config) error {
	data, err := s.codec.encode(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Get reads one field.
func (s *Store) Get(f Field) (string, error) {
	cfg, err := s.Read()
	if err != nil {
		return "", err
	}
	return cfg.Get(f)
}

// Set replaces one field and writes the record back. The other field keeps
// its stored value.
func (s *Store) Set(f Field, value string) error {
	cfg, err := s.Read()
	if err != nil {
		return err
	}
	cfg, err = cfg.With(f, value)
	if err != nil {
		return err
	}
	return s.Write(cfg)
}

// SetDate stores a new current date.
func (s *Store) SetDate(d civil.Date) error {
	return s.Set(FieldDate, d.String())
}

// SetLedger stores a new ledger path.
func (s *Store) SetLedger(path string) error {
	return s.Set(FieldLedger, path)
}

// fill replaces blank values with defaults and validates the date.
func fill(rawDate, rawLedger string) (Config, error) {
	cfg := Default()
	if rawDate != "" {
		d, err := date.Parse(rawDate)
		if err != nil {
			return Config{}, err
		}
		cfg.Date = d
	}
	if rawLedger != "" {
		cfg.Ledger = rawLedger
	}
	return cfg, nil
}

type csvCodec struct{}

func (csvCodec) encode(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	if err := cw.Write([]string{cfg.Date.String(), cfg.Ledger}); err != nil {
		return nil, fmt.Errorf("writing row: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (csvCodec) decode(data []byte) (Config, error) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = 2

	records, err := cr.ReadAll()
	if err != nil {
		return Config{}, fmt.Errorf("reading config CSV: %w", err)
	}
	if len(records) == 0 {
		return Default(), nil
	}
	if !slices.Equal(records[0], strings.Split(Header, ",")) {
		return Config{}, fmt.Errorf("unexpected config header %q", strings.Join(records[0], ","))
	}
	if len(records) == 1 {
		return Default(), nil
	}
	return fill(records[1][0], records[1][1])
}

type yamlConfig struct {
	Date   string `yaml:"date"`
	Ledger string `yaml:"ledger"`
}

type yamlCodec struct{}

func (yamlCodec) encode(cfg Config) ([]byte, error) {
	return yaml.Marshal(yamlConfig{Date: cfg.Date.String(), Ledger: cfg.Ledger})
}

func (yamlCodec) decode(data []byte) (Config, error) {
	var raw yamlConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, err
	}
	return fill(raw.Date, raw.Ledger)
}

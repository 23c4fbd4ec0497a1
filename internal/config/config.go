// Package config loads the service configuration: defaults, then the YAML
// file, then environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"Beamcalc/internal/calc/beam"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

// Environment overrides.
const (
	EnvSectionI = "BEAM_SECTION_I"
	EnvSectionS = "BEAM_SECTION_S"
	EnvSectionE = "BEAM_SECTION_E"
	EnvTokenKey = "BEAM_TOKEN_KEY"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Section SectionConfig `yaml:"section"`
	Policy  PolicyConfig  `yaml:"policy"`
	Limits  LimitsConfig  `yaml:"limits"`
	Auth    AuthConfig    `yaml:"auth"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	TLSCert         string        `yaml:"tls_cert"`
	TLSKey          string        `yaml:"tls_key"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	CORSOrigin      string        `yaml:"cors_origin"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type SectionConfig struct {
	MomentOfInertia      float64 `yaml:"moment_of_inertia"`
	SectionModulus       float64 `yaml:"section_modulus"`
	ElasticModulus       float64 `yaml:"elastic_modulus"`
	DeflectionLimitRatio float64 `yaml:"deflection_limit_ratio"`
}

func (s SectionConfig) Model() beam.SectionModel {
	return beam.SectionModel{
		MomentOfInertia: s.MomentOfInertia,
		SectionModulus:  s.SectionModulus,
		ElasticModulus:  s.ElasticModulus,
	}
}

type PolicyConfig struct {
	AllowNegativeLoad bool `yaml:"allow_negative_load"`
}

type LimitsConfig struct {
	ProfileSamples int     `yaml:"profile_samples"`
	MaxBatchItems  int     `yaml:"max_batch_items"`
	MaxBodyBytes   int64   `yaml:"max_body_bytes"`
	Rate           float64 `yaml:"rate"`
	Burst          int     `yaml:"burst"`
}

// AuthConfig enables bearer auth on /beam routes when TokenKey is set.
type AuthConfig struct {
	TokenKey string `yaml:"token_key"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 5 * time.Second,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			CORSOrigin:      "*",
		},
		Log: LogConfig{Level: "info", Format: "json"},
		Section: SectionConfig{
			MomentOfInertia:      beam.DefaultMomentOfInertia,
			SectionModulus:       beam.DefaultSectionModulus,
			ElasticModulus:       beam.DefaultElasticModulus,
			DeflectionLimitRatio: beam.DefaultDeflectionLimitRatio,
		},
		Policy: PolicyConfig{AllowNegativeLoad: true},
		Limits: LimitsConfig{
			ProfileSamples: beam.DefaultProfileSamples,
			MaxBatchItems:  500,
			MaxBodyBytes:   10 << 20,
			Rate:           5,
			Burst:          10,
		},
	}
}

// Load reads path over the defaults and applies env overrides. An empty
// path tries DefaultPath and falls back to defaults when it is absent.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := Decode(bytes.NewReader(data), &cfg); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	case explicit || !errors.Is(err, fs.ErrNotExist):
		return Config{}, fmt.Errorf("config: %w", err)
	}

	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode merges YAML from r into cfg. Keys absent from the document keep
// their current value; unknown keys are an error.
func Decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overrides the section constants and token key from lookup.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	for _, o := range []struct {
		name string
		dst  *float64
	}{
		{EnvSectionI, &cfg.Section.MomentOfInertia},
		{EnvSectionS, &cfg.Section.SectionModulus},
		{EnvSectionE, &cfg.Section.ElasticModulus},
	} {
		raw, ok := lookup(o.name)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return fmt.Errorf("config: %s: %w", o.name, err)
		}
		*o.dst = v
	}
	if key, ok := lookup(EnvTokenKey); ok && key != "" {
		cfg.Auth.TokenKey = key
	}
	return nil
}

func (c Config) Validate() error {
	if err := c.Section.Model().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Server.Addr == "" {
		return errors.New("config: server.addr is empty")
	}
	if (c.Server.TLSCert == "") != (c.Server.TLSKey == "") {
		return errors.New("config: server.tls_cert and server.tls_key must be set together")
	}
	if c.Limits.Rate <= 0 || c.Limits.Burst <= 0 {
		return errors.New("config: limits.rate and limits.burst must be positive")
	}
	if c.Limits.MaxBatchItems <= 0 {
		return errors.New("config: limits.max_batch_items must be positive")
	}
	if c.Limits.MaxBodyBytes <= 0 {
		return errors.New("config: limits.max_body_bytes must be positive")
	}
	return nil
}

// LoadDotEnv loads .env style files into the environment. Missing files are
// ignored; variables already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/hdrlog/blob"
	"github.com/arloliu/hdrlog/format"
)

// Config is the optional YAML configuration. Command line flags override it.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Decode  DecodeConfig  `yaml:"decode"`
	Encode  EncodeConfig  `yaml:"encode"`
	Archive ArchiveConfig `yaml:"archive"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type DecodeConfig struct {
	Policy       string   `yaml:"policy"`
	StrictBase64 bool     `yaml:"strictBase64"`
	Format       string   `yaml:"format"`
	ValueScale   float64  `yaml:"valueScale"`
	Tags         []string `yaml:"tags"`
}

type EncodeConfig struct {
	CompressionLevel int   `yaml:"compressionLevel"`
	MaxBufferSize    int   `yaml:"maxBufferSize"`
	Lowest           int64 `yaml:"lowest"`
	Highest          int64 `yaml:"highest"`
	SignificantFigs  int32 `yaml:"significantFigures"`
}

type ArchiveConfig struct {
	Compression string `yaml:"compression"`
}

func defaultConfig() Config {
	return Config{
		Log:     LogConfig{Level: "info", Format: "console"},
		Decode:  DecodeConfig{Policy: "skip", Format: "csv", ValueScale: 1},
		Encode:  EncodeConfig{CompressionLevel: blob.DefaultCompressionLevel, MaxBufferSize: blob.DefaultMaxBufferSize, Lowest: 1, Highest: 3600000000, SignificantFigs: 3},
		Archive: ArchiveConfig{Compression: "none"},
	}
}

// loadConfig reads path over the defaults. An empty path yields the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if _, ok := format.ParseFailurePolicy(c.Decode.Policy); !ok {
		return fmt.Errorf("unknown failure policy %q", c.Decode.Policy)
	}

	if _, ok := format.ParseCompressionType(c.Archive.Compression); !ok {
		return fmt.Errorf("unknown compression %q", c.Archive.Compression)
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return err
	}

	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}

	return nil
}

// newLogger builds a development (console) or production (json) logger writing to stderr.
func newLogger(cfg LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var zcfg zap.Config
	if cfg.Format == "json" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}

	return zcfg.Build()
}

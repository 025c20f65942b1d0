// Package config loads ukb settings from YAML.
//
//	rank:
//	  damping: 0.85
//	  max_iterations: 30
//	  threshold: 0.0001
//	  use_weight: true
//	snapshot:
//	  compression: zstd
//	storage:
//	  backend: s3
//	  bucket: graphs
//	  prefix: ukb/
//	  dynamodb_table: ukb-commits
//	log:
//	  level: info
//	  format: json
//
// Fields missing from the file keep the values of Default.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/PaulHuygen/ukb"
	"github.com/PaulHuygen/ukb/blobstore"
	"github.com/PaulHuygen/ukb/blobstore/minio"
	"github.com/PaulHuygen/ukb/blobstore/s3"
	"github.com/PaulHuygen/ukb/rank"
	"github.com/PaulHuygen/ukb/snapshot"
)

// ErrInvalid is returned for configurations that fail validation.
var ErrInvalid = errors.New("config: invalid")

// Config is the top-level configuration.
type Config struct {
	Rank     RankConfig     `yaml:"rank"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
	// Sources are the accepted relation origins for compilation.
	Sources []string `yaml:"sources,omitempty"`
}

// RankConfig configures personalized PageRank.
type RankConfig struct {
	Damping       float64 `yaml:"damping"`
	MaxIterations int     `yaml:"max_iterations"`
	Threshold     float64 `yaml:"threshold"`
	UseWeight     bool    `yaml:"use_weight"`
	Parallelism   int     `yaml:"parallelism"`
}

// SnapshotConfig configures snapshot encoding.
type SnapshotConfig struct {
	// Compression is none, lz4 or zstd.
	Compression string `yaml:"compression"`
	BlockSize   int    `yaml:"block_size"`
}

// StorageConfig selects where snapshots are stored.
type StorageConfig struct {
	// Backend is local, memory, s3 or minio.
	Backend string `yaml:"backend"`
	// Root is the directory of the local backend.
	Root string `yaml:"root"`

	Bucket   string `yaml:"bucket"`
	Prefix   string `yaml:"prefix"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`

	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Secure    bool   `yaml:"secure"`

	// DynamoDBTable enables the DynamoDB commit pointer for the s3 backend.
	DynamoDBTable string `yaml:"dynamodb_table"`

	// BytesPerSec and MaxConcurrent throttle any backend when positive.
	BytesPerSec   int   `yaml:"bytes_per_sec"`
	MaxConcurrent int64 `yaml:"max_concurrent"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	ro := rank.DefaultOptions()
	return Config{
		Rank: RankConfig{
			Damping:       ro.Damping,
			MaxIterations: ro.MaxIterations,
			Threshold:     ro.Threshold,
			UseWeight:     true,
		},
		Snapshot: SnapshotConfig{
			Compression: snapshot.CompressionNone.String(),
			BlockSize:   snapshot.DefaultBlockSize,
		},
		Storage: StorageConfig{
			Backend: "local",
			Root:    ".",
			Secure:  true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Load reads and parses the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// WriteDefault writes Default to path, creating parent directories.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	var errs []error
	if c.Rank.Damping < 0 || c.Rank.Damping > 1 {
		errs = append(errs, fmt.Errorf("%w: rank.damping %v not in [0, 1]", ErrInvalid, c.Rank.Damping))
	}
	if c.Rank.MaxIterations <= 0 {
		errs = append(errs, fmt.Errorf("%w: rank.max_iterations must be positive", ErrInvalid))
	}
	if c.Rank.Threshold <= 0 {
		errs = append(errs, fmt.Errorf("%w: rank.threshold must be positive", ErrInvalid))
	}
	if _, err := snapshot.ParseCompression(c.Snapshot.Compression); err != nil {
		errs = append(errs, fmt.Errorf("%w: snapshot.compression: %w", ErrInvalid, err))
	}
	if c.Snapshot.BlockSize < 0 {
		errs = append(errs, fmt.Errorf("%w: snapshot.block_size must not be negative", ErrInvalid))
	}
	switch c.Storage.Backend {
	case "local", "memory":
	case "s3", "minio":
		if c.Storage.Bucket == "" {
			errs = append(errs, fmt.Errorf("%w: storage.bucket is required for %s", ErrInvalid, c.Storage.Backend))
		}
		if c.Storage.Backend == "minio" && c.Storage.Endpoint == "" {
			errs = append(errs, fmt.Errorf("%w: storage.endpoint is required for minio", ErrInvalid))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: storage.backend %q", ErrInvalid, c.Storage.Backend))
	}
	if _, err := c.level(); err != nil {
		errs = append(errs, fmt.Errorf("%w: log.level: %w", ErrInvalid, err))
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		errs = append(errs, fmt.Errorf("%w: log.format %q", ErrInvalid, c.Log.Format))
	}
	return errors.Join(errs...)
}

func (c Config) level() (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(c.Log.Level))
	return l, err
}

// Logger builds the configured logger.
func (c Config) Logger() (*ukb.Logger, error) {
	level, err := c.level()
	if err != nil {
		return nil, fmt.Errorf("%w: log.level: %w", ErrInvalid, err)
	}
	if strings.EqualFold(c.Log.Format, "json") {
		return ukb.NewJSONLogger(level), nil
	}
	return ukb.NewTextLogger(level), nil
}

// RankOptions returns the ranker options.
func (c Config) RankOptions() rank.Options {
	return rank.Options{
		Damping:       c.Rank.Damping,
		MaxIterations: c.Rank.MaxIterations,
		Threshold:     c.Rank.Threshold,
	}
}

// Options converts the configuration to KB options. extra options are
// appended and take precedence.
func (c Config) Options(extra ...ukb.Option) ([]ukb.Option, error) {
	comp, err := snapshot.ParseCompression(c.Snapshot.Compression)
	if err != nil {
		return nil, fmt.Errorf("%w: snapshot.compression: %w", ErrInvalid, err)
	}
	logger, err := c.Logger()
	if err != nil {
		return nil, err
	}
	opts := []ukb.Option{
		ukb.WithLogger(logger),
		ukb.WithRankOptions(c.RankOptions()),
		ukb.WithCompression(comp),
		ukb.WithBlockSize(c.Snapshot.BlockSize),
	}
	return append(opts, extra...), nil
}

// OpenStore opens the configured snapshot store.
func (c Config) OpenStore(ctx context.Context) (blobstore.BlobStore, error) {
	sc := c.Storage
	var store blobstore.BlobStore
	switch sc.Backend {
	case "local":
		store = blobstore.NewLocalStore(sc.Root)
	case "memory":
		store = blobstore.NewMemoryStore()
	case "s3":
		opts := []s3.Option{s3.WithPrefix(sc.Prefix)}
		if sc.Region != "" {
			opts = append(opts, s3.WithRegion(sc.Region))
		}
		if sc.Endpoint != "" {
			opts = append(opts, s3.WithEndpoint(sc.Endpoint))
		}
		s, err := s3.New(ctx, sc.Bucket, opts...)
		if err != nil {
			return nil, err
		}
		store = s
		if sc.DynamoDBTable != "" {
			baseURI := "s3://" + sc.Bucket + "/" + strings.TrimPrefix(sc.Prefix, "/")
			ddb, err := s3.NewDDB(ctx, s, sc.DynamoDBTable, baseURI, sc.Region)
			if err != nil {
				return nil, err
			}
			store = ddb
		}
	case "minio":
		s, err := minio.Dial(sc.Endpoint, sc.AccessKey, sc.SecretKey, sc.Secure, sc.Bucket, sc.Prefix)
		if err != nil {
			return nil, err
		}
		store = s
	default:
		return nil, fmt.Errorf("%w: storage.backend %q", ErrInvalid, sc.Backend)
	}

	if sc.BytesPerSec > 0 || sc.MaxConcurrent > 0 {
		store = blobstore.NewThrottledStore(store, blobstore.ThrottleConfig{
			BytesPerSec:   sc.BytesPerSec,
			MaxConcurrent: sc.MaxConcurrent,
		})
	}
	return store, nil
}

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package config loads ddbstreams settings from defaults, an optional YAML file,
// an optional .env file and the process environment, in that order.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/suparena/ddbstreams/errors"
)

// Config is the full configuration of a change stream session.
type Config struct {
	AWS      AWSConfig   `yaml:"aws"`
	Table    TableConfig `yaml:"table"`
	Poll     PollConfig  `yaml:"poll"`
	LogLevel string      `yaml:"log_level"`
}

// AWSConfig holds the client settings shared by DynamoDB and DynamoDB Streams.
type AWSConfig struct {
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	// Endpoint overrides the service endpoint, e.g. http://localhost:8000 for DynamoDB Local.
	Endpoint string `yaml:"endpoint"`
}

// TableConfig describes the table that is created for a session.
type TableConfig struct {
	Name           string `yaml:"name"`
	StreamViewType string `yaml:"stream_view_type"`
	ReadCapacity   int64  `yaml:"read_capacity"`
	WriteCapacity  int64  `yaml:"write_capacity"`
	// Keep leaves the table in place when the session closes.
	Keep bool `yaml:"keep"`
}

// PollConfig tunes change stream reads.
type PollConfig struct {
	RecordLimit   int32 `yaml:"record_limit"`
	ShardPageSize int32 `yaml:"shard_page_size"`
}

var streamViewTypes = []string{"NEW_IMAGE", "OLD_IMAGE", "NEW_AND_OLD_IMAGES", "KEYS_ONLY"}

// Default returns the configuration used when nothing else is supplied.
func Default() *Config {
	return &Config{
		AWS: AWSConfig{
			Region: "us-east-1",
		},
		Table: TableConfig{
			Name:           "CustomerReviews",
			StreamViewType: "NEW_AND_OLD_IMAGES",
			ReadCapacity:   10,
			WriteCapacity:  5,
		},
		LogLevel: "INFO",
	}
}

// Load builds a Config. path may be empty, in which case no YAML file is read.
// A missing .env file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// godotenv never overrides variables that are already set
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables.
func (c *Config) ApplyEnv() error {
	setString(&c.AWS.Region, "AWS_REGION")
	setString(&c.AWS.AccessKeyID, "AWS_ACCESS_KEY_ID")
	setString(&c.AWS.SecretAccessKey, "AWS_SECRET_ACCESS_KEY")
	setString(&c.AWS.Endpoint, "DDB_ENDPOINT")
	setString(&c.Table.Name, "AWS_DDB_TABLE")
	setString(&c.Table.StreamViewType, "DDB_STREAM_VIEW_TYPE")
	setString(&c.LogLevel, "LOG_LEVEL")

	if v := os.Getenv("DDB_RECORD_LIMIT"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return errors.NewValidationError("DDB_RECORD_LIMIT", err.Error())
		}
		c.Poll.RecordLimit = int32(n)
	}
	return nil
}

// Validate checks the configuration for values the session cannot work with.
func (c *Config) Validate() error {
	if c.AWS.Region == "" {
		return errors.NewValidationError("aws.region", "is required")
	}
	if c.Table.Name == "" {
		return errors.NewValidationError("table.name", "is required")
	}
	c.Table.StreamViewType = strings.ToUpper(strings.TrimSpace(c.Table.StreamViewType))
	if !contains(streamViewTypes, c.Table.StreamViewType) {
		return errors.NewValidationError("table.stream_view_type",
			fmt.Sprintf("must be one of %s", strings.Join(streamViewTypes, ", ")))
	}
	if c.Table.ReadCapacity <= 0 || c.Table.WriteCapacity <= 0 {
		return errors.NewValidationError("table", "read and write capacity must be positive")
	}
	if c.Poll.RecordLimit < 0 || c.Poll.ShardPageSize < 0 {
		return errors.NewValidationError("poll", "limits must not be negative")
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

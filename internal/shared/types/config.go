package types

import "time"

const (
	DefaultDistilURL      = "https://api.cloud.catalyst.net.nz:9999"
	DefaultDistilRegion   = "nz_wlg_2"
	DefaultLookbackMonths = 2
	DefaultRetryAttempts  = 5
	DefaultRetryDelay     = time.Second
	DefaultTimeout        = 60 * time.Second
)

// S3Config describes the S3-compatible bucket exported reports are uploaded to.
type S3Config struct {
	Endpoint  string `json:"endpoint" yaml:"endpoint" toml:"endpoint"`
	Region    string `json:"region" yaml:"region" toml:"region"`
	Bucket    string `json:"bucket" yaml:"bucket" toml:"bucket"`
	AccessKey string `json:"access_key" yaml:"access_key" toml:"access_key"`
	SecretKey string `json:"secret_key" yaml:"secret_key" toml:"secret_key"`
	Prefix    string `json:"prefix" yaml:"prefix" toml:"prefix"`
}

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	DistilURL         string   `json:"distil_url" yaml:"distil_url" toml:"distil_url"`
	DistilRegion      string   `json:"distil_region" yaml:"distil_region" toml:"distil_region"`
	LookbackMonths    int      `json:"lookback_months" yaml:"lookback_months" toml:"lookback_months"`
	ReportType        []string `json:"report_type" yaml:"report_type" toml:"report_type"`
	Dir               string   `json:"dir" yaml:"dir" toml:"dir"`
	TimeoutSeconds    int      `json:"timeout_seconds" yaml:"timeout_seconds" toml:"timeout_seconds"`
	RetryAttempts     int      `json:"retry_attempts" yaml:"retry_attempts" toml:"retry_attempts"`
	RetryDelaySeconds int      `json:"retry_delay_seconds" yaml:"retry_delay_seconds" toml:"retry_delay_seconds"`
	S3                S3Config `json:"s3" yaml:"s3" toml:"s3"`
}

// WithDefaults returns a copy of the config with every unset field filled in.
func (c Config) WithDefaults() Config {
	if c.DistilURL == "" {
		c.DistilURL = DefaultDistilURL
	}
	if c.DistilRegion == "" {
		c.DistilRegion = DefaultDistilRegion
	}
	if c.LookbackMonths <= 0 {
		c.LookbackMonths = DefaultLookbackMonths
	}
	if c.RetryAttempts <= 0 {
		c.RetryAttempts = DefaultRetryAttempts
	}
	return c
}

// RetryDelay returns the fixed delay between invoice fetch attempts.
func (c Config) RetryDelay() time.Duration {
	if c.RetryDelaySeconds <= 0 {
		return DefaultRetryDelay
	}
	return time.Duration(c.RetryDelaySeconds) * time.Second
}

// Timeout returns the per-request HTTP timeout.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

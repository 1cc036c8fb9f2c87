package safebrowsing

import "time"

// Config holds configuration for verification runs. CLI arguments and flags
// take precedence; these values are the defaults when they are omitted.
type Config struct {
	// OldProfile is the legacy profile directory holding the
	// urlclassifier sqlite file.
	OldProfile string `mapstructure:"old_profile" default:""`
	// NewProfile is the migrated profile directory with .sbstore/.pset
	// pairs.
	NewProfile string `mapstructure:"new_profile" default:""`
	// StrictHeader rejects store files with unknown magic or version.
	StrictHeader bool `mapstructure:"strict_header" default:"false"`
	// VerifyChecksum verifies the stored MD5 checksum of each store file.
	VerifyChecksum bool `mapstructure:"verify_checksum" default:"false"`
	// CacheTTL is how long the serve mode caches a report.
	CacheTTL time.Duration `mapstructure:"cache_ttl" default:"5m"`
}

// Options returns the decode options selected by the configuration.
func (c Config) Options() DecodeOptions {
	return DecodeOptions{
		StrictHeader:   c.StrictHeader,
		VerifyChecksum: c.VerifyChecksum,
	}
}

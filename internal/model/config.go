package model

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultCommitPrefix starts every commit message written by mornpage.
const DefaultCommitPrefix = "Morning page"

// Config holds the application configuration
type Config struct {
	// Branch is the branch entries are read from and written to, empty means
	// the repository default branch
	Branch string `json:"branch"`

	// APIBaseURL points at a GitHub Enterprise API, empty means github.com
	APIBaseURL string `json:"api_base_url"`

	// CommitPrefix starts the commit message of every saved entry
	CommitPrefix string `json:"commit_prefix"`

	// ActivityMarkers are commit message substrings counted by the heatmap
	ActivityMarkers []string `json:"activity_markers"`

	// ScanSecrets runs a secret scan over entry content before saving
	ScanSecrets bool `json:"scan_secrets"`

	// TimeoutSeconds bounds each command's network calls
	TimeoutSeconds int `json:"timeout_seconds"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		Branch:          "",
		APIBaseURL:      "",
		CommitPrefix:    DefaultCommitPrefix,
		ActivityMarkers: []string{DefaultCommitPrefix, "from sukipi.me"},
		ScanSecrets:     true,
		TimeoutSeconds:  30,
	}
}

// ConfigKeys lists the keys accepted by Set, in display order.
var ConfigKeys = []string{"branch", "api_base_url", "commit_prefix", "activity_markers", "scan_secrets", "timeout_seconds"}

// Set assigns a single field from its string form.
func (c *Config) Set(key, value string) error {
	switch key {
	case "branch":
		c.Branch = strings.TrimSpace(value)
	case "api_base_url":
		c.APIBaseURL = strings.TrimSpace(value)
	case "commit_prefix":
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("commit_prefix cannot be empty")
		}

		c.CommitPrefix = value
	case "activity_markers":
		var markers []string

		for m := range strings.SplitSeq(value, ",") {
			if m = strings.TrimSpace(m); m != "" {
				markers = append(markers, m)
			}
		}

		c.ActivityMarkers = markers
	case "scan_secrets":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("scan_secrets: %w", err)
		}

		c.ScanSecrets = b
	case "timeout_seconds":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("timeout_seconds must be a positive integer, got %q", value)
		}

		c.TimeoutSeconds = n
	default:
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(ConfigKeys, ", "))
	}

	return nil
}

// Get returns the string form of a single field.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "branch":
		return c.Branch, nil
	case "api_base_url":
		return c.APIBaseURL, nil
	case "commit_prefix":
		return c.CommitPrefix, nil
	case "activity_markers":
		return strings.Join(c.ActivityMarkers, ","), nil
	case "scan_secrets":
		return strconv.FormatBool(c.ScanSecrets), nil
	case "timeout_seconds":
		return strconv.Itoa(c.TimeoutSeconds), nil
	default:
		return "", fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(ConfigKeys, ", "))
	}
}

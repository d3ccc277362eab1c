// Package security scans entry content for secrets before it is pushed to
// the journal repository.
package security

import (
	"fmt"
	"strings"

	"github.com/zricethezav/gitleaks/v8/detect"
	"github.com/zricethezav/gitleaks/v8/report"
)

// Scanner detects secrets with the default gitleaks rules
type Scanner struct {
	detector *detect.Detector
}

// Finding represents a detected secret
type Finding struct {
	RuleID      string `json:"rule_id"`
	Description string `json:"description"`
	Line        int    `json:"line"`
	Secret      string `json:"secret"` // redacted
}

// LeakError is returned by Check when content contains secrets
type LeakError struct {
	Path     string
	Findings []Finding
}

func (e *LeakError) Error() string {
	rules := make([]string, 0, len(e.Findings))
	for _, f := range e.Findings {
		rules = append(rules, f.RuleID)
	}

	return fmt.Sprintf("%s contains %d potential secret(s) (%s); remove them before saving",
		e.Path, len(e.Findings), strings.Join(rules, ", "))
}

// NewScanner creates a scanner with the default gitleaks rules
func NewScanner() (*Scanner, error) {
	detector, err := detect.NewDetectorDefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load gitleaks config: %w", err)
	}

	detector.Redact = 80 // Redact 80% of the secret

	return &Scanner{detector: detector}, nil
}

// Scan returns the secrets found in content.
func (s *Scanner) Scan(content string) []Finding {
	return convert(s.detector.DetectString(content))
}

// Check returns a *LeakError naming path when content contains secrets.
func (s *Scanner) Check(path, content string) error {
	findings := s.Scan(content)
	if len(findings) == 0 {
		return nil
	}

	return &LeakError{Path: path, Findings: findings}
}

func convert(findings []report.Finding) []Finding {
	out := make([]Finding, 0, len(findings))

	for _, f := range findings {
		out = append(out, Finding{
			RuleID:      f.RuleID,
			Description: f.Description,
			Line:        f.StartLine,
			Secret:      f.Secret,
		})
	}

	return out
}

// FormatFindings formats findings for display
func FormatFindings(findings []Finding) string {
	if len(findings) == 0 {
		return ""
	}

	var sb strings.Builder

	_, _ = fmt.Fprintf(&sb, "\nFound %d potential secret(s):\n\n", len(findings))

	for i, f := range findings {
		_, _ = fmt.Fprintf(&sb, "  %d. %s\n", i+1, f.Description)
		_, _ = fmt.Fprintf(&sb, "     Rule: %s\n", f.RuleID)
		_, _ = fmt.Fprintf(&sb, "     Secret: %s\n\n", f.Secret)
	}

	return sb.String()
}

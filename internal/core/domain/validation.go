package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var validLabelRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?$`)

const (
	// MinTTL and MaxTTL bound the TTL accepted for DNS records.
	MinTTL = 60
	MaxTTL = 86400
)

// ValidateDomainName checks if the provided name is a plausible
// registrable domain (at least two labels, no trailing dot).
func ValidateDomainName(name string) error {
	if name == "" {
		return &ValidationError{Field: "name", Reason: "domain name cannot be empty"}
	}
	if strings.HasSuffix(name, ".") {
		return &ValidationError{Field: "name", Reason: "domain name must not end with a dot"}
	}
	if len(name) > 253 {
		return &ValidationError{Field: "name", Reason: "domain name exceeds 253 characters"}
	}

	labels := strings.Split(name, ".")
	if len(labels) < 2 {
		return &ValidationError{Field: "name", Reason: "domain name must contain a TLD"}
	}
	for _, label := range labels {
		if label == "" {
			return &ValidationError{Field: "name", Reason: "domain name contains empty label"}
		}
		if len(label) > 63 {
			return &ValidationError{Field: "name", Reason: fmt.Sprintf("label '%s' exceeds 63 characters", label)}
		}
		if !validLabelRegex.MatchString(label) {
			return &ValidationError{Field: "name", Reason: fmt.Sprintf("label '%s' contains invalid characters", label)}
		}
	}
	return nil
}

// ValidateRecord enforces the record-type invariants before any network
// or database call is made: MX records carry a priority, CNAME records
// may not sit at the zone apex, TTL stays within [MinTTL, MaxTTL].
func ValidateRecord(rec *DNSRecord) error {
	known := false
	for _, t := range RecordTypes {
		if rec.Type == t {
			known = true
			break
		}
	}
	if !known {
		return &ValidationError{Field: "type", Reason: fmt.Sprintf("unsupported record type %q", rec.Type)}
	}

	if rec.Type == TypeMX && rec.Priority == nil {
		return &ValidationError{Field: "priority", Reason: "MX records require priority"}
	}
	if rec.Type == TypeCNAME && rec.Name == "@" {
		return &ValidationError{Field: "name", Reason: "CNAME records cannot be created at the zone apex"}
	}
	if rec.TTL < MinTTL || rec.TTL > MaxTTL {
		return &ValidationError{Field: "ttl", Reason: fmt.Sprintf("TTL must be between %d and %d", MinTTL, MaxTTL)}
	}
	if rec.Content == "" {
		return &ValidationError{Field: "content", Reason: "content cannot be empty"}
	}
	return nil
}

// ValidateRegisterOptions checks the contract-level constraints on a
// registration request. Registrant completeness is a per-provider
// concern and is not validated here.
func ValidateRegisterOptions(opts *RegisterOptions) error {
	if opts.Years < 1 {
		return &ValidationError{Field: "years", Reason: "registration period must be at least 1 year"}
	}
	return nil
}

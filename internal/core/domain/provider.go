package domain

import (
	"time"
)

// DomainAvailability is the result of an availability check. It is
// transient and never persisted.
type DomainAvailability struct {
	Available bool     `json:"available"`
	Premium   bool     `json:"premium,omitempty"`
	Price     *float64 `json:"price,omitempty"`
	Currency  string   `json:"currency,omitempty"` // ISO 4217, e.g. "JPY"
}

// DomainInfo is the normalized registrar-reported state of a domain.
type DomainInfo struct {
	Name           string          `json:"name"`
	Status         DomainStatus    `json:"status"`
	ExpiresAt      time.Time       `json:"expires_at"`
	AutoRenew      bool            `json:"auto_renew"`
	Locked         bool            `json:"locked"`
	PrivacyEnabled bool            `json:"privacy_enabled"`
	Nameservers    []string        `json:"nameservers"`
	Registrant     *RegistrantInfo `json:"registrant,omitempty"`
}

// RegistrantInfo is the contact attached to a registration. Optional at
// the contract level; individual registrars may reject a registration
// without one, which surfaces as a provider error, not local validation.
type RegistrantInfo struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"` // E.164-like
	Organization string `json:"organization,omitempty"`
	Street       string `json:"street,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	CountryCode  string `json:"country_code,omitempty"`
}

// RegisterOptions is the input to a domain registration.
type RegisterOptions struct {
	Years          int             `json:"years"`
	AutoRenew      bool            `json:"auto_renew"`
	PrivacyEnabled bool            `json:"privacy_enabled"`
	Nameservers    []string        `json:"nameservers,omitempty"`
	Registrant     *RegistrantInfo `json:"registrant,omitempty"`
}

// TransferResult describes an initiated inbound transfer. Completion is
// asynchronous at the registrar and outside this system's control.
type TransferResult struct {
	TransferID          string    `json:"transfer_id"`
	Status              string    `json:"status"`
	EstimatedCompletion time.Time `json:"estimated_completion"`
}

// Credentials carries the per-registrar API credentials handed to the
// provider registry at resolve time. One process-wide set per registrar;
// per-user credentials are a future extension behind this seam.
type Credentials struct {
	ValueDomainAPIKey  string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
	PorkbunAPIKey      string
	PorkbunAPISecret   string
}

// Package domain contains the core business entities for regctl.
package domain

import (
	"time"
)

// Registrar identifies one of the supported registrar backends.
type Registrar string

const (
	// RegistrarValueDomain is the VALUE-DOMAIN (GMO) registrar.
	RegistrarValueDomain Registrar = "value-domain"
	// RegistrarRoute53 is the AWS Route53 Domains registrar.
	RegistrarRoute53 Registrar = "route53"
	// RegistrarPorkbun is the Porkbun registrar.
	RegistrarPorkbun Registrar = "porkbun"
)

// Registrars lists every supported registrar in resolve order.
var Registrars = []Registrar{RegistrarValueDomain, RegistrarRoute53, RegistrarPorkbun}

// DomainStatus is the normalized lifecycle status of a domain. Each
// provider maps its native status vocabulary onto this set; anything a
// provider reports that we do not recognize becomes StatusUnknown.
type DomainStatus string

const (
	StatusActive       DomainStatus = "active"
	StatusPending      DomainStatus = "pending"
	StatusExpired      DomainStatus = "expired"
	StatusTransferring DomainStatus = "transferring"
	StatusSuspended    DomainStatus = "suspended"
	StatusUnknown      DomainStatus = "unknown"
)

// RecordType represents the type of a DNS record (e.g., A, AAAA, MX).
type RecordType string

const (
	TypeA     RecordType = "A"
	TypeAAAA  RecordType = "AAAA"
	TypeCNAME RecordType = "CNAME"
	TypeMX    RecordType = "MX"
	TypeTXT   RecordType = "TXT"
	TypeNS    RecordType = "NS"
	TypeSOA   RecordType = "SOA"
	TypeSRV   RecordType = "SRV"
	TypeCAA   RecordType = "CAA"
)

// RecordTypes lists every record type accepted by the API.
var RecordTypes = []RecordType{TypeA, TypeAAAA, TypeCNAME, TypeMX, TypeTXT, TypeNS, TypeSOA, TypeSRV, TypeCAA}

// Domain is a locally tracked domain. The local row is a cache/claim over
// the registrar's authoritative record, not a source of truth: the same
// (name, registrar) pair may be tracked by different users.
type Domain struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"` // e.g. example.com
	Registrar      Registrar    `json:"registrar"`
	Status         DomainStatus `json:"status"`
	UserID         string       `json:"user_id"`
	ExpiresAt      time.Time    `json:"expires_at"`
	AutoRenew      bool         `json:"auto_renew"`
	Locked         bool         `json:"locked"`
	PrivacyEnabled bool         `json:"privacy_enabled"`
	Nameservers    []string     `json:"nameservers"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// DNSRecord is a DNS record owned by exactly one Domain.
type DNSRecord struct {
	ID        string     `json:"id"`
	DomainID  string     `json:"domain_id"`
	Type      RecordType `json:"type"`
	Name      string     `json:"name"` // relative name, "@" for the apex
	Content   string     `json:"content"`
	TTL       int        `json:"ttl"`
	Priority  *int       `json:"priority,omitempty"` // required for MX
	Proxied   bool       `json:"proxied"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// AuditLog records administrative actions performed through the API.
type AuditLog struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Action       string    `json:"action"`        // e.g. "REGISTER_DOMAIN", "DELETE_RECORD"
	ResourceType string    `json:"resource_type"` // "DOMAIN" or "RECORD"
	ResourceID   string    `json:"resource_id"`
	Details      string    `json:"details"`
	CreatedAt    time.Time `json:"created_at"`
}

// Event is a webhook notification enqueued after a successful
// state-changing operation. Delivery and retry happen outside this core.
type Event struct {
	Type string         `json:"type"` // e.g. "domain.registered"
	Data map[string]any `json:"data"`
}

// SyncResult reports how many domains a sync pass inserted, per registrar.
type SyncResult struct {
	Total        int               `json:"total"`
	PerRegistrar map[Registrar]int `json:"per_registrar"`
}

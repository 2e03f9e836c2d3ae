package ports

import (
	"context"
	"time"

	"github.com/regctl/regctl/internal/core/domain"
)

// DomainProvider is the uniform contract over the three registrar
// backends. Every operation suspends on network I/O and may fail with a
// *domain.ProviderError (non-2xx HTTP response) or a
// *domain.ProviderLogicError (semantic failure after a successful call).
type DomainProvider interface {
	Registrar() domain.Registrar

	// CheckAvailability has no side effects. Some registrars allow it
	// unauthenticated.
	CheckAvailability(ctx context.Context, name string) (*domain.DomainAvailability, error)

	// GetDomainInfo is read-only. Registrars without a by-name lookup
	// resolve the domain id through a list call first.
	GetDomainInfo(ctx context.Context, name string) (*domain.DomainInfo, error)

	// RegisterDomain charges the registrar account. It is never retried
	// automatically; callers must treat it as at-most-once.
	RegisterDomain(ctx context.Context, name string, opts domain.RegisterOptions) (*domain.DomainInfo, error)

	// TransferDomain initiates an inbound transfer, which completes
	// asynchronously at the registrar.
	TransferDomain(ctx context.Context, name, authCode string) (*domain.TransferResult, error)

	// GetAuthCode returns the EPP-style transfer auth code.
	GetAuthCode(ctx context.Context, name string) (string, error)

	// UpdateNameservers is idempotent at the registrar.
	UpdateNameservers(ctx context.Context, name string, nameservers []string) error

	RenewDomain(ctx context.Context, name string, years int) error
	SetAutoRenew(ctx context.Context, name string, enabled bool) error
	SetPrivacy(ctx context.Context, name string, enabled bool) error
	LockDomain(ctx context.Context, name string) error
	UnlockDomain(ctx context.Context, name string) error
}

// DomainLister is implemented by providers whose API exposes the account
// inventory. The sync engine only syncs providers that implement it.
type DomainLister interface {
	ListDomains(ctx context.Context, limit, offset int) ([]domain.DomainInfo, error)
}

// RecordLister is implemented by providers that expose registrar-hosted
// DNS records for a domain.
type RecordLister interface {
	ListDNSRecords(ctx context.Context, name string) ([]domain.DNSRecord, error)
}

// RecordPusher is implemented by providers that accept writes to their
// hosted DNS record set. The dual-write path pushes the full local set;
// providers without hosted DNS take record changes locally only.
type RecordPusher interface {
	PutDNSRecords(ctx context.Context, name string, records []domain.DNSRecord) error
}

// ProviderRegistry resolves a registrar id to a constructed provider.
// Pure construction, no I/O; unknown ids fail with ErrUnknownRegistrar.
type ProviderRegistry interface {
	Resolve(registrar domain.Registrar) (DomainProvider, error)
}

// DomainRepository is the local relational store.
type DomainRepository interface {
	CreateDomain(ctx context.Context, d *domain.Domain) error
	GetDomain(ctx context.Context, name, userID string) (*domain.Domain, error)
	ListDomains(ctx context.Context, userID string) ([]domain.Domain, error)
	UpdateDomain(ctx context.Context, d *domain.Domain) error
	UpdateDomainStatus(ctx context.Context, id string, status domain.DomainStatus) error
	DeleteDomain(ctx context.Context, id string) error

	CreateRecord(ctx context.Context, rec *domain.DNSRecord) error
	GetRecord(ctx context.Context, id, domainID string) (*domain.DNSRecord, error)
	ListRecords(ctx context.Context, domainID string) ([]domain.DNSRecord, error)
	UpdateRecord(ctx context.Context, rec *domain.DNSRecord) error
	DeleteRecord(ctx context.Context, id, domainID string) error
	DeleteRecordsForDomain(ctx context.Context, domainID string) error

	GetAPIKeyByHash(ctx context.Context, keyHash string) (*domain.APIKey, error)
	CreateAPIKey(ctx context.Context, key *domain.APIKey) error
	ListAPIKeys(ctx context.Context, userID string) ([]domain.APIKey, error)
	DeleteAPIKey(ctx context.Context, id string) error

	SaveAuditLog(ctx context.Context, log *domain.AuditLog) error
	GetAuditLogs(ctx context.Context, userID string) ([]domain.AuditLog, error)

	Ping(ctx context.Context) error
}

// EventQueue enqueues webhook notifications. Delivery, retry and signing
// happen outside this core; enqueue failures never fail the caller.
type EventQueue interface {
	Enqueue(ctx context.Context, event *domain.Event) error
}

// RefreshTracker remembers when a domain's provider details were last
// refreshed, so stale local copies get re-fetched.
type RefreshTracker interface {
	LastRefresh(ctx context.Context, domainID string) (time.Time, bool)
	MarkRefreshed(ctx context.Context, domainID string)
}

// DomainService is the domain-level surface consumed by route handlers.
type DomainService interface {
	CheckAvailability(ctx context.Context, registrar domain.Registrar, name string) (*domain.DomainAvailability, error)
	RegisterDomain(ctx context.Context, userID string, registrar domain.Registrar, name string, opts domain.RegisterOptions) (*domain.Domain, error)
	GetDomain(ctx context.Context, userID, name string, refresh bool) (*domain.Domain, error)
	ListDomains(ctx context.Context, userID string) ([]domain.Domain, error)
	TransferDomain(ctx context.Context, userID, name string, from, to domain.Registrar, authCode string) (*domain.TransferResult, error)
	UpdateSettings(ctx context.Context, userID, name string, patch domain.SettingsPatch) error
	RenewDomain(ctx context.Context, userID, name string, years int) error
	LockDomain(ctx context.Context, userID, name string, locked bool) error
	DeleteDomain(ctx context.Context, userID, name string) error
}

// DNSService manages DNS records through the dual-write path.
type DNSService interface {
	ListRecords(ctx context.Context, userID, name string) ([]domain.DNSRecord, error)
	CreateRecord(ctx context.Context, userID, name string, rec *domain.DNSRecord) error
	UpdateRecord(ctx context.Context, userID, name, recordID string, patch domain.RecordPatch) (*domain.DNSRecord, error)
	DeleteRecord(ctx context.Context, userID, name, recordID string) error
	ImportZoneFile(ctx context.Context, userID, name string, zoneFile string) ([]domain.DNSRecord, error)
	SyncRecords(ctx context.Context, userID, name string) error
}

// SyncService reconciles the local store against the registrars.
type SyncService interface {
	SyncDomains(ctx context.Context, userID string) (*domain.SyncResult, error)
}

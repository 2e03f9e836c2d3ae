package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/regctl/regctl/internal/core/domain"
	"github.com/regctl/regctl/internal/core/ports"
	"github.com/regctl/regctl/internal/infrastructure/metrics"
)

const syncPageSize = 100

// defaultNameservers returns the registrar's standard pair for domains
// that report none during sync.
var defaultNameservers = map[domain.Registrar][]string{
	domain.RegistrarValueDomain: {"ns1.value-domain.com", "ns2.value-domain.com"},
}

type syncService struct {
	repo     ports.DomainRepository
	registry ports.ProviderRegistry
}

func NewSyncService(repo ports.DomainRepository, registry ports.ProviderRegistry) ports.SyncService {
	return &syncService{repo: repo, registry: registry}
}

// SyncDomains walks every registrar account and inserts domains the
// local store does not know about. It never updates or deletes existing
// rows, so a second pass over an unchanged account inserts nothing. A
// failing registrar is logged and skipped; the others still sync.
func (s *syncService) SyncDomains(ctx context.Context, userID string) (*domain.SyncResult, error) {
	existing, err := s.repo.ListDomains(ctx, userID)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(existing))
	for _, d := range existing {
		known[d.Name] = true
	}

	result := &domain.SyncResult{PerRegistrar: make(map[domain.Registrar]int)}
	for _, registrar := range domain.Registrars {
		provider, errResolve := s.registry.Resolve(registrar)
		if errResolve != nil {
			slog.Warn("skipping registrar during sync", "registrar", registrar, "error", errResolve)
			continue
		}
		lister, ok := provider.(ports.DomainLister)
		if !ok {
			continue
		}

		inserted, errSync := s.syncRegistrar(ctx, userID, registrar, lister, known)
		if errSync != nil {
			slog.Error("registrar sync failed", "registrar", registrar, "error", errSync)
			continue
		}
		result.PerRegistrar[registrar] = inserted
		result.Total += inserted
	}
	return result, nil
}

func (s *syncService) syncRegistrar(ctx context.Context, userID string, registrar domain.Registrar, lister ports.DomainLister, known map[string]bool) (int, error) {
	inserted := 0
	for offset := 0; ; offset += syncPageSize {
		page, err := lister.ListDomains(ctx, syncPageSize, offset)
		if err != nil {
			return inserted, err
		}
		for i := range page {
			info := &page[i]
			if info.Name == "" || known[info.Name] {
				continue
			}
			d := s.domainFromInfo(userID, registrar, info)
			if errCreate := s.repo.CreateDomain(ctx, d); errCreate != nil {
				// One bad row must not block the rest of the account.
				slog.Error("failed to insert synced domain", "registrar", registrar, "domain", info.Name, "error", errCreate)
				continue
			}
			known[info.Name] = true
			inserted++
			metrics.SyncInserted.WithLabelValues(string(registrar)).Inc()
		}
		if len(page) < syncPageSize {
			break
		}
	}
	return inserted, nil
}

func (s *syncService) domainFromInfo(userID string, registrar domain.Registrar, info *domain.DomainInfo) *domain.Domain {
	now := time.Now()

	status := info.Status
	if status == "" {
		status = domain.StatusActive
	}
	expires := info.ExpiresAt
	if expires.IsZero() {
		expires = now.AddDate(1, 0, 0)
	}
	ns := info.Nameservers
	if len(ns) == 0 {
		if defaults, ok := defaultNameservers[registrar]; ok {
			ns = defaults
		} else {
			ns = []string{}
		}
	}

	return &domain.Domain{
		ID:             uuid.New().String(),
		Name:           info.Name,
		Registrar:      registrar,
		Status:         status,
		UserID:         userID,
		ExpiresAt:      expires,
		AutoRenew:      info.AutoRenew,
		Locked:         info.Locked,
		PrivacyEnabled: info.PrivacyEnabled,
		Nameservers:    ns,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

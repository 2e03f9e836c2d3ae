package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/regctl/regctl/internal/core/domain"
	"github.com/regctl/regctl/internal/core/ports"
	"github.com/regctl/regctl/internal/infrastructure/metrics"
	"github.com/regctl/regctl/internal/zone"
)

type dnsService struct {
	repo     ports.DomainRepository
	registry ports.ProviderRegistry
}

func NewDNSService(repo ports.DomainRepository, registry ports.ProviderRegistry) ports.DNSService {
	return &dnsService{repo: repo, registry: registry}
}

func (s *dnsService) domainFor(ctx context.Context, userID, name string) (*domain.Domain, error) {
	d, err := s.repo.GetDomain(ctx, name, userID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrDomainNotFound
	}
	return d, nil
}

func (s *dnsService) ListRecords(ctx context.Context, userID, name string) ([]domain.DNSRecord, error) {
	d, err := s.domainFor(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	return s.repo.ListRecords(ctx, d.ID)
}

// CreateRecord inserts locally first, then pushes to the registrar. On
// remote failure the local row is compensated away; if that compensation
// fails too, the orphan is reported as a ConsistencyError.
func (s *dnsService) CreateRecord(ctx context.Context, userID, name string, rec *domain.DNSRecord) error {
	if err := domain.ValidateRecord(rec); err != nil {
		return err
	}
	d, err := s.domainFor(ctx, userID, name)
	if err != nil {
		return err
	}

	rec.ID = uuid.New().String()
	rec.DomainID = d.ID
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	if err := s.repo.CreateRecord(ctx, rec); err != nil {
		return err
	}

	if errRemote := s.pushRecords(ctx, d); errRemote != nil {
		if errDelete := s.repo.DeleteRecord(ctx, rec.ID, d.ID); errDelete != nil {
			metrics.DualWriteOrphans.Inc()
			consistency := &domain.ConsistencyError{Op: "create record", ResourceID: rec.ID, RemoteErr: errRemote, LocalErr: errDelete}
			slog.Error("orphaned record after failed push", "domain", name, "record", rec.ID, "error", consistency)
			return consistency
		}
		metrics.DualWriteRollbacks.Inc()
		return errRemote
	}
	return nil
}

// UpdateRecord writes locally then remotely, with no rollback: a failed
// remote push leaves the local row ahead of the registrar, and the next
// successful push reconverges.
func (s *dnsService) UpdateRecord(ctx context.Context, userID, name, recordID string, patch domain.RecordPatch) (*domain.DNSRecord, error) {
	d, err := s.domainFor(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	rec, err := s.repo.GetRecord(ctx, recordID, d.ID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrRecordNotFound
	}

	if patch.Content != nil {
		rec.Content = *patch.Content
	}
	if patch.TTL != nil {
		rec.TTL = *patch.TTL
	}
	if patch.Priority != nil {
		rec.Priority = patch.Priority
	}
	if patch.Proxied != nil {
		rec.Proxied = *patch.Proxied
	}
	if err := domain.ValidateRecord(rec); err != nil {
		return nil, err
	}

	rec.UpdatedAt = time.Now()
	if err := s.repo.UpdateRecord(ctx, rec); err != nil {
		return nil, err
	}
	if err := s.pushRecords(ctx, d); err != nil {
		return nil, err
	}
	return rec, nil
}

// DeleteRecord removes locally first. A remote push failure afterwards
// is logged and swallowed: the local intent is deletion and the next
// push converges the registrar.
func (s *dnsService) DeleteRecord(ctx context.Context, userID, name, recordID string) error {
	d, err := s.domainFor(ctx, userID, name)
	if err != nil {
		return err
	}
	rec, err := s.repo.GetRecord(ctx, recordID, d.ID)
	if err != nil {
		return err
	}
	if rec == nil {
		return domain.ErrRecordNotFound
	}

	if err := s.repo.DeleteRecord(ctx, recordID, d.ID); err != nil {
		return err
	}
	if errRemote := s.pushRecords(ctx, d); errRemote != nil {
		slog.Warn("record deleted locally but remote push failed", "domain", name, "record", recordID, "error", errRemote)
	}
	return nil
}

// ImportZoneFile parses a BIND-style zone file and inserts its records
// locally. The import is local-only; a subsequent sync or record change
// pushes the set to the registrar.
func (s *dnsService) ImportZoneFile(ctx context.Context, userID, name string, zoneFile string) ([]domain.DNSRecord, error) {
	d, err := s.domainFor(ctx, userID, name)
	if err != nil {
		return nil, err
	}

	parsed, err := zone.Parse(zoneFile)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	inserted := make([]domain.DNSRecord, 0, len(parsed))
	for i := range parsed {
		rec := parsed[i]
		if errValidate := domain.ValidateRecord(&rec); errValidate != nil {
			slog.Warn("skipping invalid record in zone import", "domain", name, "record", rec.Name, "error", errValidate)
			continue
		}
		rec.ID = uuid.New().String()
		rec.DomainID = d.ID
		rec.CreatedAt = now
		rec.UpdatedAt = now
		if errCreate := s.repo.CreateRecord(ctx, &rec); errCreate != nil {
			return nil, errCreate
		}
		inserted = append(inserted, rec)
	}
	return inserted, nil
}

// SyncRecords replaces the local record set for a domain with the
// registrar-hosted one.
func (s *dnsService) SyncRecords(ctx context.Context, userID, name string) error {
	d, err := s.domainFor(ctx, userID, name)
	if err != nil {
		return err
	}
	provider, err := s.registry.Resolve(d.Registrar)
	if err != nil {
		return err
	}
	lister, ok := provider.(ports.RecordLister)
	if !ok {
		return &domain.ProviderLogicError{Registrar: d.Registrar, Reason: "registrar does not expose hosted DNS records"}
	}

	remote, err := lister.ListDNSRecords(ctx, d.Name)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteRecordsForDomain(ctx, d.ID); err != nil {
		return err
	}
	now := time.Now()
	for i := range remote {
		rec := remote[i]
		rec.ID = uuid.New().String()
		rec.DomainID = d.ID
		rec.CreatedAt = now
		rec.UpdatedAt = now
		if errCreate := s.repo.CreateRecord(ctx, &rec); errCreate != nil {
			return errCreate
		}
	}
	return nil
}

// pushRecords sends the current local record set to the registrar when
// the provider supports record hosting. Providers without hosted DNS
// accept the change locally only.
func (s *dnsService) pushRecords(ctx context.Context, d *domain.Domain) error {
	provider, err := s.registry.Resolve(d.Registrar)
	if err != nil {
		return err
	}
	pusher, ok := provider.(ports.RecordPusher)
	if !ok {
		return nil
	}
	records, err := s.repo.ListRecords(ctx, d.ID)
	if err != nil {
		return err
	}
	return pusher.PutDNSRecords(ctx, d.Name, records)
}

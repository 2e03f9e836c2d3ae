package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/regctl/regctl/internal/core/domain"
	"github.com/regctl/regctl/internal/core/ports"
	"github.com/regctl/regctl/internal/infrastructure/metrics"
)

// refreshWindow is how long a locally cached domain detail stays fresh
// before a read with refresh semantics goes back to the registrar.
const refreshWindow = time.Hour

type domainService struct {
	repo      ports.DomainRepository
	registry  ports.ProviderRegistry
	queue     ports.EventQueue
	refreshes ports.RefreshTracker
}

func NewDomainService(repo ports.DomainRepository, registry ports.ProviderRegistry, queue ports.EventQueue, refreshes ports.RefreshTracker) ports.DomainService {
	return &domainService{repo: repo, registry: registry, queue: queue, refreshes: refreshes}
}

func (s *domainService) CheckAvailability(ctx context.Context, registrar domain.Registrar, name string) (*domain.DomainAvailability, error) {
	if err := domain.ValidateDomainName(name); err != nil {
		return nil, err
	}
	provider, err := s.registry.Resolve(registrar)
	if err != nil {
		return nil, err
	}
	return provider.CheckAvailability(ctx, name)
}

func (s *domainService) RegisterDomain(ctx context.Context, userID string, registrar domain.Registrar, name string, opts domain.RegisterOptions) (*domain.Domain, error) {
	if err := domain.ValidateDomainName(name); err != nil {
		return nil, err
	}
	if err := domain.ValidateRegisterOptions(&opts); err != nil {
		return nil, err
	}
	provider, err := s.registry.Resolve(registrar)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetDomain(ctx, name, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &domain.ProviderLogicError{Registrar: registrar, Reason: fmt.Sprintf("domain %s is already tracked", name)}
	}

	avail, err := provider.CheckAvailability(ctx, name)
	if err != nil {
		return nil, err
	}
	if !avail.Available {
		return nil, &domain.ProviderLogicError{Registrar: registrar, Reason: fmt.Sprintf("domain %s is not available", name)}
	}

	// Local row first, then the registrar. Registration charges money
	// and cannot be rolled back remotely, so on provider failure the
	// local row is compensated away instead.
	now := time.Now()
	d := &domain.Domain{
		ID:             uuid.New().String(),
		Name:           name,
		Registrar:      registrar,
		Status:         domain.StatusPending,
		UserID:         userID,
		ExpiresAt:      now.AddDate(opts.Years, 0, 0),
		AutoRenew:      opts.AutoRenew,
		PrivacyEnabled: opts.PrivacyEnabled,
		Nameservers:    opts.Nameservers,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if d.Nameservers == nil {
		d.Nameservers = []string{}
	}
	if err := s.repo.CreateDomain(ctx, d); err != nil {
		return nil, err
	}

	info, errRegister := provider.RegisterDomain(ctx, name, opts)
	if errRegister != nil {
		if errDelete := s.repo.DeleteDomain(ctx, d.ID); errDelete != nil {
			metrics.DualWriteOrphans.Inc()
			consistency := &domain.ConsistencyError{Op: "register", ResourceID: d.ID, RemoteErr: errRegister, LocalErr: errDelete}
			slog.Error("orphaned domain row after failed registration", "domain", name, "id", d.ID, "error", consistency)
			return nil, consistency
		}
		metrics.DualWriteRollbacks.Inc()
		return nil, errRegister
	}

	d.Status = info.Status
	d.ExpiresAt = info.ExpiresAt
	d.Nameservers = info.Nameservers
	d.UpdatedAt = time.Now()
	if err := s.repo.UpdateDomain(ctx, d); err != nil {
		slog.Error("failed to persist registrar response", "domain", name, "error", err)
	}

	s.audit(ctx, userID, "REGISTER_DOMAIN", "DOMAIN", d.ID, fmt.Sprintf("registered %s at %s", name, registrar))
	s.notify(ctx, "domain.registered", map[string]any{
		"domain":    name,
		"registrar": string(registrar),
		"user_id":   userID,
	})
	return d, nil
}

func (s *domainService) GetDomain(ctx context.Context, userID, name string, refresh bool) (*domain.Domain, error) {
	d, err := s.repo.GetDomain(ctx, name, userID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrDomainNotFound
	}

	stale := true
	if last, ok := s.refreshes.LastRefresh(ctx, d.ID); ok && time.Since(last) < refreshWindow {
		stale = false
	}
	if !refresh && !stale {
		return d, nil
	}

	provider, err := s.registry.Resolve(d.Registrar)
	if err != nil {
		return nil, err
	}
	info, err := provider.GetDomainInfo(ctx, d.Name)
	if err != nil {
		if refresh {
			return nil, err
		}
		// Background staleness refresh is best-effort.
		slog.Warn("domain refresh failed, serving cached copy", "domain", d.Name, "error", err)
		return d, nil
	}

	d.Status = info.Status
	d.ExpiresAt = info.ExpiresAt
	d.AutoRenew = info.AutoRenew
	d.Locked = info.Locked
	d.PrivacyEnabled = info.PrivacyEnabled
	d.Nameservers = info.Nameservers
	d.UpdatedAt = time.Now()
	if err := s.repo.UpdateDomain(ctx, d); err != nil {
		return nil, err
	}
	s.refreshes.MarkRefreshed(ctx, d.ID)
	return d, nil
}

func (s *domainService) ListDomains(ctx context.Context, userID string) ([]domain.Domain, error) {
	return s.repo.ListDomains(ctx, userID)
}

func (s *domainService) TransferDomain(ctx context.Context, userID, name string, from, to domain.Registrar, authCode string) (*domain.TransferResult, error) {
	if err := domain.ValidateDomainName(name); err != nil {
		return nil, err
	}
	target, err := s.registry.Resolve(to)
	if err != nil {
		return nil, err
	}

	// Without an explicit auth code, fetch one from the source registrar.
	if authCode == "" {
		source, errSource := s.registry.Resolve(from)
		if errSource != nil {
			return nil, errSource
		}
		authCode, err = source.GetAuthCode(ctx, name)
		if err != nil {
			return nil, err
		}
	}

	result, err := target.TransferDomain(ctx, name, authCode)
	if err != nil {
		return nil, err
	}

	if d, errGet := s.repo.GetDomain(ctx, name, userID); errGet == nil && d != nil {
		if errStatus := s.repo.UpdateDomainStatus(ctx, d.ID, domain.StatusTransferring); errStatus != nil {
			slog.Error("failed to mark domain transferring", "domain", name, "error", errStatus)
		}
		s.audit(ctx, userID, "TRANSFER_DOMAIN", "DOMAIN", d.ID, fmt.Sprintf("transfer %s from %s to %s", name, from, to))
	}
	s.notify(ctx, "domain.transfer.initiated", map[string]any{
		"domain":      name,
		"from":        string(from),
		"to":          string(to),
		"transfer_id": result.TransferID,
		"user_id":     userID,
	})
	return result, nil
}

// UpdateSettings writes locally first, then pushes to the registrar.
// There is no rollback on provider failure here: settings are cheap to
// re-apply and the next refresh reconverges on the registrar's view.
func (s *domainService) UpdateSettings(ctx context.Context, userID, name string, patch domain.SettingsPatch) error {
	d, err := s.repo.GetDomain(ctx, name, userID)
	if err != nil {
		return err
	}
	if d == nil {
		return domain.ErrDomainNotFound
	}
	provider, err := s.registry.Resolve(d.Registrar)
	if err != nil {
		return err
	}

	if patch.AutoRenew != nil {
		d.AutoRenew = *patch.AutoRenew
	}
	if patch.PrivacyEnabled != nil {
		d.PrivacyEnabled = *patch.PrivacyEnabled
	}
	if patch.Nameservers != nil {
		d.Nameservers = patch.Nameservers
	}
	d.UpdatedAt = time.Now()
	if err := s.repo.UpdateDomain(ctx, d); err != nil {
		return err
	}

	if patch.AutoRenew != nil {
		if err := provider.SetAutoRenew(ctx, name, *patch.AutoRenew); err != nil {
			return err
		}
	}
	if patch.PrivacyEnabled != nil {
		if err := provider.SetPrivacy(ctx, name, *patch.PrivacyEnabled); err != nil {
			return err
		}
	}
	if patch.Nameservers != nil {
		if err := provider.UpdateNameservers(ctx, name, patch.Nameservers); err != nil {
			return err
		}
	}

	s.audit(ctx, userID, "UPDATE_DOMAIN", "DOMAIN", d.ID, fmt.Sprintf("updated settings for %s", name))
	return nil
}

func (s *domainService) RenewDomain(ctx context.Context, userID, name string, years int) error {
	if years < 1 {
		return &domain.ValidationError{Field: "years", Reason: "renewal period must be at least 1 year"}
	}
	d, err := s.repo.GetDomain(ctx, name, userID)
	if err != nil {
		return err
	}
	if d == nil {
		return domain.ErrDomainNotFound
	}
	provider, err := s.registry.Resolve(d.Registrar)
	if err != nil {
		return err
	}
	if err := provider.RenewDomain(ctx, name, years); err != nil {
		return err
	}

	d.ExpiresAt = d.ExpiresAt.AddDate(years, 0, 0)
	d.UpdatedAt = time.Now()
	if err := s.repo.UpdateDomain(ctx, d); err != nil {
		slog.Error("renewal succeeded but local expiry not updated", "domain", name, "error", err)
	}
	s.audit(ctx, userID, "RENEW_DOMAIN", "DOMAIN", d.ID, fmt.Sprintf("renewed %s for %d years", name, years))
	return nil
}

func (s *domainService) LockDomain(ctx context.Context, userID, name string, locked bool) error {
	d, err := s.repo.GetDomain(ctx, name, userID)
	if err != nil {
		return err
	}
	if d == nil {
		return domain.ErrDomainNotFound
	}
	provider, err := s.registry.Resolve(d.Registrar)
	if err != nil {
		return err
	}

	if locked {
		err = provider.LockDomain(ctx, name)
	} else {
		err = provider.UnlockDomain(ctx, name)
	}
	if err != nil {
		return err
	}

	d.Locked = locked
	d.UpdatedAt = time.Now()
	if err := s.repo.UpdateDomain(ctx, d); err != nil {
		slog.Error("lock change succeeded but local state not updated", "domain", name, "error", err)
	}
	return nil
}

// DeleteDomain removes the local row. Registrars have no delete API for
// registered domains; the remote registration simply runs out. An
// unlock attempt is made so the domain stays transferable, and its
// failure is logged and swallowed.
func (s *domainService) DeleteDomain(ctx context.Context, userID, name string) error {
	d, err := s.repo.GetDomain(ctx, name, userID)
	if err != nil {
		return err
	}
	if d == nil {
		return domain.ErrDomainNotFound
	}

	if err := s.repo.DeleteRecordsForDomain(ctx, d.ID); err != nil {
		return err
	}
	if err := s.repo.DeleteDomain(ctx, d.ID); err != nil {
		return err
	}

	if provider, errResolve := s.registry.Resolve(d.Registrar); errResolve == nil {
		if errUnlock := provider.UnlockDomain(ctx, name); errUnlock != nil {
			slog.Warn("post-delete unlock failed", "domain", name, "error", errUnlock)
		}
	}
	s.audit(ctx, userID, "DELETE_DOMAIN", "DOMAIN", d.ID, fmt.Sprintf("stopped tracking %s", name))
	return nil
}

func (s *domainService) audit(ctx context.Context, userID, action, resourceType, resourceID, details string) {
	entry := &domain.AuditLog{
		ID:           uuid.New().String(),
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
		CreatedAt:    time.Now(),
	}
	if err := s.repo.SaveAuditLog(ctx, entry); err != nil {
		slog.Error("failed to save audit log", "action", action, "error", err)
	}
}

func (s *domainService) notify(ctx context.Context, eventType string, data map[string]any) {
	if s.queue == nil {
		return
	}
	if err := s.queue.Enqueue(ctx, &domain.Event{Type: eventType, Data: data}); err != nil {
		metrics.WebhookEnqueueFailures.Inc()
		slog.Warn("failed to enqueue webhook event", "type", eventType, "error", err)
	}
}

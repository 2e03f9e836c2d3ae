package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/regctl/regctl/internal/core/domain"
	"github.com/regctl/regctl/internal/testutil"
)

func newDomainFixture(provider *testutil.FakeProvider) (*memRepo, *testutil.FakeQueue, *testutil.FakeRefreshTracker, *domainService) {
	repo := &memRepo{}
	queue := &testutil.FakeQueue{}
	refreshes := &testutil.FakeRefreshTracker{}
	registry := &testutil.FakeRegistry{Providers: map[domain.Registrar]*testutil.FakeProvider{
		provider.Name: provider,
	}}
	svc := NewDomainService(repo, registry, queue, refreshes).(*domainService)
	return repo, queue, refreshes, svc
}

func TestRegisterDomain(t *testing.T) {
	provider := &testutil.FakeProvider{Name: domain.RegistrarPorkbun}
	repo, queue, _, svc := newDomainFixture(provider)

	d, err := svc.RegisterDomain(context.Background(), "u1", domain.RegistrarPorkbun, "example.com", domain.RegisterOptions{Years: 1, AutoRenew: true})
	if err != nil {
		t.Fatalf("RegisterDomain failed: %v", err)
	}
	if d.ID == "" {
		t.Error("expected UUID to be generated")
	}
	if d.Status != domain.StatusPending {
		t.Errorf("expected pending, got %s", d.Status)
	}
	if len(repo.domains) != 1 {
		t.Fatalf("expected 1 local domain, got %d", len(repo.domains))
	}
	if provider.RegisterCalls != 1 {
		t.Errorf("expected 1 register call, got %d", provider.RegisterCalls)
	}
	if len(queue.Events) != 1 || queue.Events[0].Type != "domain.registered" {
		t.Errorf("expected domain.registered event, got %+v", queue.Events)
	}
	if len(repo.audits) != 1 || repo.audits[0].Action != "REGISTER_DOMAIN" {
		t.Errorf("expected audit entry, got %+v", repo.audits)
	}
}

func TestRegisterDomainRollsBackOnProviderFailure(t *testing.T) {
	provider := &testutil.FakeProvider{Name: domain.RegistrarPorkbun, FailRegister: true}
	repo, queue, _, svc := newDomainFixture(provider)

	_, err := svc.RegisterDomain(context.Background(), "u1", domain.RegistrarPorkbun, "example.com", domain.RegisterOptions{Years: 1})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(repo.domains) != 0 {
		t.Errorf("local row should have been rolled back, found %d", len(repo.domains))
	}
	if len(queue.Events) != 0 {
		t.Errorf("no event should be enqueued on failure, got %+v", queue.Events)
	}
}

func TestRegisterDomainOrphanOnFailedRollback(t *testing.T) {
	provider := &testutil.FakeProvider{Name: domain.RegistrarPorkbun, FailRegister: true}
	repo, _, _, svc := newDomainFixture(provider)
	repo.failDeleteDomain = true

	_, err := svc.RegisterDomain(context.Background(), "u1", domain.RegistrarPorkbun, "example.com", domain.RegisterOptions{Years: 1})
	var consistency *domain.ConsistencyError
	if !errors.As(err, &consistency) {
		t.Fatalf("expected ConsistencyError, got %T: %v", err, err)
	}
	if consistency.RemoteErr == nil || consistency.LocalErr == nil {
		t.Errorf("both failure causes should be preserved: %+v", consistency)
	}
}

func TestRegisterDomainUnavailable(t *testing.T) {
	provider := &testutil.FakeProvider{
		Name:         domain.RegistrarPorkbun,
		Availability: &domain.DomainAvailability{Available: false},
	}
	repo, _, _, svc := newDomainFixture(provider)

	_, err := svc.RegisterDomain(context.Background(), "u1", domain.RegistrarPorkbun, "taken.com", domain.RegisterOptions{Years: 1})
	var logicErr *domain.ProviderLogicError
	if !errors.As(err, &logicErr) {
		t.Fatalf("expected ProviderLogicError, got %T", err)
	}
	if provider.RegisterCalls != 0 {
		t.Error("register must not be attempted for unavailable domains")
	}
	if len(repo.domains) != 0 {
		t.Error("no local row should exist")
	}
}

func TestRegisterDomainValidation(t *testing.T) {
	provider := &testutil.FakeProvider{Name: domain.RegistrarPorkbun}
	_, _, _, svc := newDomainFixture(provider)

	_, err := svc.RegisterDomain(context.Background(), "u1", domain.RegistrarPorkbun, "nodots", domain.RegisterOptions{Years: 1})
	var validation *domain.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %T", err)
	}

	_, err = svc.RegisterDomain(context.Background(), "u1", domain.RegistrarPorkbun, "example.com", domain.RegisterOptions{Years: 0})
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for years=0, got %T", err)
	}
}

func TestCheckAvailabilityUnknownRegistrar(t *testing.T) {
	provider := &testutil.FakeProvider{Name: domain.RegistrarPorkbun}
	_, _, _, svc := newDomainFixture(provider)

	_, err := svc.CheckAvailability(context.Background(), domain.Registrar("namecheap"), "example.com")
	if !errors.Is(err, domain.ErrUnknownRegistrar) {
		t.Fatalf("expected ErrUnknownRegistrar, got %v", err)
	}
}

func TestGetDomainRefresh(t *testing.T) {
	provider := &testutil.FakeProvider{
		Name: domain.RegistrarValueDomain,
		Info: &domain.DomainInfo{
			Name:        "example.com",
			Status:      domain.StatusActive,
			ExpiresAt:   time.Now().AddDate(2, 0, 0),
			AutoRenew:   true,
			Nameservers: []string{"ns1.value-domain.com", "ns2.value-domain.com"},
		},
	}
	repo, _, refreshes, svc := newDomainFixture(provider)
	repo.domains = append(repo.domains, domain.Domain{
		ID:        "d1",
		Name:      "example.com",
		Registrar: domain.RegistrarValueDomain,
		Status:    domain.StatusPending,
		UserID:    "u1",
	})

	d, err := svc.GetDomain(context.Background(), "u1", "example.com", true)
	if err != nil {
		t.Fatalf("GetDomain failed: %v", err)
	}
	if d.Status != domain.StatusActive {
		t.Errorf("refresh should pick up provider status, got %s", d.Status)
	}
	if !d.AutoRenew {
		t.Error("refresh should pick up provider auto renew")
	}
	if _, ok := refreshes.Times["d1"]; !ok {
		t.Error("refresh timestamp should be recorded")
	}

	// A fresh copy is served from the local store without another fetch.
	provider.Err = errors.New("provider down")
	if _, err := svc.GetDomain(context.Background(), "u1", "example.com", false); err != nil {
		t.Fatalf("cached read should not hit the provider: %v", err)
	}
}

func TestGetDomainNotFound(t *testing.T) {
	provider := &testutil.FakeProvider{Name: domain.RegistrarPorkbun}
	_, _, _, svc := newDomainFixture(provider)

	_, err := svc.GetDomain(context.Background(), "u1", "missing.com", false)
	if !errors.Is(err, domain.ErrDomainNotFound) {
		t.Fatalf("expected ErrDomainNotFound, got %v", err)
	}
}

func TestTransferDomainFetchesAuthCode(t *testing.T) {
	source := &testutil.FakeProvider{Name: domain.RegistrarValueDomain, AuthCode: "EPP-456"}
	target := &testutil.FakeProvider{Name: domain.RegistrarPorkbun}
	repo := &memRepo{}
	queue := &testutil.FakeQueue{}
	registry := &testutil.FakeRegistry{Providers: map[domain.Registrar]*testutil.FakeProvider{
		domain.RegistrarValueDomain: source,
		domain.RegistrarPorkbun:     target,
	}}
	svc := NewDomainService(repo, registry, queue, &testutil.FakeRefreshTracker{}).(*domainService)
	repo.domains = append(repo.domains, domain.Domain{
		ID: "d1", Name: "moving.com", Registrar: domain.RegistrarValueDomain, UserID: "u1", Status: domain.StatusActive,
	})

	result, err := svc.TransferDomain(context.Background(), "u1", "moving.com", domain.RegistrarValueDomain, domain.RegistrarPorkbun, "")
	if err != nil {
		t.Fatalf("TransferDomain failed: %v", err)
	}
	if target.TransferredAuth != "EPP-456" {
		t.Errorf("auth code from source registrar not used, got %q", target.TransferredAuth)
	}
	if result.Status != "pending" {
		t.Errorf("unexpected transfer status %s", result.Status)
	}
	if repo.domains[0].Status != domain.StatusTransferring {
		t.Errorf("domain should be marked transferring, got %s", repo.domains[0].Status)
	}
	if len(queue.Events) != 1 || queue.Events[0].Type != "domain.transfer.initiated" {
		t.Errorf("expected transfer event, got %+v", queue.Events)
	}
}

func TestUpdateSettingsPushesToProvider(t *testing.T) {
	provider := &testutil.FakeProvider{Name: domain.RegistrarPorkbun}
	repo, _, _, svc := newDomainFixture(provider)
	repo.domains = append(repo.domains, domain.Domain{
		ID: "d1", Name: "example.com", Registrar: domain.RegistrarPorkbun, UserID: "u1",
	})

	autoRenew := true
	ns := []string{"ns1.custom.net", "ns2.custom.net"}
	err := svc.UpdateSettings(context.Background(), "u1", "example.com", domain.SettingsPatch{
		AutoRenew:   &autoRenew,
		Nameservers: ns,
	})
	if err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}
	if len(provider.AutoRenewValues) != 1 || !provider.AutoRenewValues[0] {
		t.Errorf("auto renew not pushed: %v", provider.AutoRenewValues)
	}
	if len(provider.NameserverCalls) != 1 {
		t.Errorf("nameservers not pushed: %v", provider.NameserverCalls)
	}
	if len(provider.PrivacyValues) != 0 {
		t.Errorf("privacy should not be touched when absent from patch: %v", provider.PrivacyValues)
	}
	if !repo.domains[0].AutoRenew {
		t.Error("local auto renew not updated")
	}
}

func TestRenewDomainExtendsExpiry(t *testing.T) {
	provider := &testutil.FakeProvider{Name: domain.RegistrarPorkbun}
	repo, _, _, svc := newDomainFixture(provider)
	expiry := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	repo.domains = append(repo.domains, domain.Domain{
		ID: "d1", Name: "example.com", Registrar: domain.RegistrarPorkbun, UserID: "u1", ExpiresAt: expiry,
	})

	if err := svc.RenewDomain(context.Background(), "u1", "example.com", 2); err != nil {
		t.Fatalf("RenewDomain failed: %v", err)
	}
	if provider.RenewCalls != 1 {
		t.Errorf("expected 1 renew call, got %d", provider.RenewCalls)
	}
	if got := repo.domains[0].ExpiresAt; !got.Equal(expiry.AddDate(2, 0, 0)) {
		t.Errorf("expiry not extended: %v", got)
	}
}

func TestDeleteDomainSwallowsRemoteFailure(t *testing.T) {
	provider := &testutil.FakeProvider{Name: domain.RegistrarPorkbun, Err: errors.New("registrar down")}
	repo, _, _, svc := newDomainFixture(provider)
	repo.domains = append(repo.domains, domain.Domain{
		ID: "d1", Name: "example.com", Registrar: domain.RegistrarPorkbun, UserID: "u1",
	})
	repo.records = append(repo.records, domain.DNSRecord{ID: "r1", DomainID: "d1", Type: domain.TypeA})

	if err := svc.DeleteDomain(context.Background(), "u1", "example.com"); err != nil {
		t.Fatalf("remote failure must not fail the delete: %v", err)
	}
	if len(repo.domains) != 0 {
		t.Error("domain row should be gone")
	}
	if len(repo.records) != 0 {
		t.Error("records should be gone with the domain")
	}
}

func TestWebhookFailureDoesNotFailRegistration(t *testing.T) {
	provider := &testutil.FakeProvider{Name: domain.RegistrarPorkbun}
	repo, queue, _, svc := newDomainFixture(provider)
	queue.Fail = true

	_, err := svc.RegisterDomain(context.Background(), "u1", domain.RegistrarPorkbun, "example.com", domain.RegisterOptions{Years: 1})
	if err != nil {
		t.Fatalf("queue failure must not fail registration: %v", err)
	}
	if len(repo.domains) != 1 {
		t.Error("domain should still be registered")
	}
}

package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/regctl/regctl/internal/core/domain"
	"github.com/regctl/regctl/internal/core/ports"
)

// FakeProvider implements ports.DomainProvider plus the optional lister
// interfaces, scripted through its fields.
type FakeProvider struct {
	Name domain.Registrar

	Availability *domain.DomainAvailability
	Info         *domain.DomainInfo
	Domains      []domain.DomainInfo
	Records      []domain.DNSRecord
	AuthCode     string
	Transfer     *domain.TransferResult

	FailRegister    bool
	FailTransfer    bool
	FailNameservers bool
	FailList        bool
	FailPush        bool
	Err             error

	RegisterCalls    int
	RenewCalls       int
	LockCalls        int
	UnlockCalls      int
	NameserverCalls [][]string
	AutoRenewValues []bool
	PrivacyValues   []bool
	TransferredAuth string
	PushedSets      [][]domain.DNSRecord
}

func (f *FakeProvider) Registrar() domain.Registrar { return f.Name }

func (f *FakeProvider) CheckAvailability(_ context.Context, _ string) (*domain.DomainAvailability, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	if f.Availability != nil {
		return f.Availability, nil
	}
	return &domain.DomainAvailability{Available: true}, nil
}

func (f *FakeProvider) GetDomainInfo(_ context.Context, name string) (*domain.DomainInfo, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	if f.Info != nil {
		return f.Info, nil
	}
	return &domain.DomainInfo{Name: name, Status: domain.StatusActive, Nameservers: []string{}}, nil
}

func (f *FakeProvider) RegisterDomain(_ context.Context, name string, opts domain.RegisterOptions) (*domain.DomainInfo, error) {
	f.RegisterCalls++
	if f.FailRegister {
		return nil, errors.New("registration failed")
	}
	if f.Info != nil {
		return f.Info, nil
	}
	ns := opts.Nameservers
	if ns == nil {
		ns = []string{}
	}
	return &domain.DomainInfo{
		Name:           name,
		Status:         domain.StatusPending,
		ExpiresAt:      time.Now().AddDate(opts.Years, 0, 0),
		AutoRenew:      opts.AutoRenew,
		PrivacyEnabled: opts.PrivacyEnabled,
		Nameservers:    ns,
	}, nil
}

func (f *FakeProvider) TransferDomain(_ context.Context, _, authCode string) (*domain.TransferResult, error) {
	if f.FailTransfer {
		return nil, errors.New("transfer failed")
	}
	f.TransferredAuth = authCode
	if f.Transfer != nil {
		return f.Transfer, nil
	}
	return &domain.TransferResult{TransferID: "xfr_test", Status: "pending"}, nil
}

func (f *FakeProvider) GetAuthCode(_ context.Context, _ string) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	return f.AuthCode, nil
}

func (f *FakeProvider) UpdateNameservers(_ context.Context, _ string, nameservers []string) error {
	if f.FailNameservers {
		return errors.New("nameserver update failed")
	}
	f.NameserverCalls = append(f.NameserverCalls, nameservers)
	return nil
}

func (f *FakeProvider) RenewDomain(_ context.Context, _ string, _ int) error {
	f.RenewCalls++
	return f.Err
}

func (f *FakeProvider) SetAutoRenew(_ context.Context, _ string, enabled bool) error {
	f.AutoRenewValues = append(f.AutoRenewValues, enabled)
	return f.Err
}

func (f *FakeProvider) SetPrivacy(_ context.Context, _ string, enabled bool) error {
	f.PrivacyValues = append(f.PrivacyValues, enabled)
	return f.Err
}

func (f *FakeProvider) LockDomain(_ context.Context, _ string) error {
	f.LockCalls++
	return f.Err
}

func (f *FakeProvider) UnlockDomain(_ context.Context, _ string) error {
	f.UnlockCalls++
	return f.Err
}

func (f *FakeProvider) ListDomains(_ context.Context, _, _ int) ([]domain.DomainInfo, error) {
	if f.FailList {
		return nil, errors.New("list failed")
	}
	return f.Domains, nil
}

func (f *FakeProvider) ListDNSRecords(_ context.Context, _ string) ([]domain.DNSRecord, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Records, nil
}

func (f *FakeProvider) PutDNSRecords(_ context.Context, _ string, records []domain.DNSRecord) error {
	if f.FailPush {
		return errors.New("record push failed")
	}
	f.PushedSets = append(f.PushedSets, records)
	return nil
}

// FakeRegistry implements ports.ProviderRegistry over a fixed map.
type FakeRegistry struct {
	Providers map[domain.Registrar]*FakeProvider
}

func (r *FakeRegistry) Resolve(registrar domain.Registrar) (ports.DomainProvider, error) {
	p, ok := r.Providers[registrar]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownRegistrar, registrar)
	}
	return p, nil
}

// FakeQueue implements ports.EventQueue, recording enqueued events.
type FakeQueue struct {
	mu     sync.Mutex
	Events []domain.Event
	Fail   bool
}

func (q *FakeQueue) Enqueue(_ context.Context, event *domain.Event) error {
	if q.Fail {
		return errors.New("queue unavailable")
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.Events = append(q.Events, *event)
	return nil
}

// FakeRefreshTracker implements ports.RefreshTracker in memory.
type FakeRefreshTracker struct {
	mu    sync.Mutex
	Times map[string]time.Time
}

func (t *FakeRefreshTracker) LastRefresh(_ context.Context, domainID string) (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ts, ok := t.Times[domainID]
	return ts, ok
}

func (t *FakeRefreshTracker) MarkRefreshed(_ context.Context, domainID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Times == nil {
		t.Times = map[string]time.Time{}
	}
	t.Times[domainID] = time.Now()
}

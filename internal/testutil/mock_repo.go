package testutil

import (
	"context"

	"github.com/regctl/regctl/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) CreateDomain(ctx context.Context, d *domain.Domain) error {
	args := m.Called(d)
	return args.Error(0)
}

func (m *MockRepo) GetDomain(ctx context.Context, name, userID string) (*domain.Domain, error) {
	args := m.Called(name, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Domain), args.Error(1)
}

func (m *MockRepo) ListDomains(ctx context.Context, userID string) ([]domain.Domain, error) {
	args := m.Called(userID)
	return args.Get(0).([]domain.Domain), args.Error(1)
}

func (m *MockRepo) UpdateDomain(ctx context.Context, d *domain.Domain) error {
	args := m.Called(d)
	return args.Error(0)
}

func (m *MockRepo) UpdateDomainStatus(ctx context.Context, id string, status domain.DomainStatus) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockRepo) DeleteDomain(ctx context.Context, id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockRepo) CreateRecord(ctx context.Context, rec *domain.DNSRecord) error {
	args := m.Called(rec)
	return args.Error(0)
}

func (m *MockRepo) GetRecord(ctx context.Context, id, domainID string) (*domain.DNSRecord, error) {
	args := m.Called(id, domainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DNSRecord), args.Error(1)
}

func (m *MockRepo) ListRecords(ctx context.Context, domainID string) ([]domain.DNSRecord, error) {
	args := m.Called(domainID)
	return args.Get(0).([]domain.DNSRecord), args.Error(1)
}

func (m *MockRepo) UpdateRecord(ctx context.Context, rec *domain.DNSRecord) error {
	args := m.Called(rec)
	return args.Error(0)
}

func (m *MockRepo) DeleteRecord(ctx context.Context, id, domainID string) error {
	args := m.Called(id, domainID)
	return args.Error(0)
}

func (m *MockRepo) DeleteRecordsForDomain(ctx context.Context, domainID string) error {
	args := m.Called(domainID)
	return args.Error(0)
}

func (m *MockRepo) GetAPIKeyByHash(ctx context.Context, keyHash string) (*domain.APIKey, error) {
	args := m.Called(keyHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.APIKey), args.Error(1)
}

func (m *MockRepo) CreateAPIKey(ctx context.Context, key *domain.APIKey) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockRepo) ListAPIKeys(ctx context.Context, userID string) ([]domain.APIKey, error) {
	args := m.Called(userID)
	return args.Get(0).([]domain.APIKey), args.Error(1)
}

func (m *MockRepo) DeleteAPIKey(ctx context.Context, id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockRepo) SaveAuditLog(ctx context.Context, entry *domain.AuditLog) error {
	args := m.Called(entry)
	return args.Error(0)
}

func (m *MockRepo) GetAuditLogs(ctx context.Context, userID string) ([]domain.AuditLog, error) {
	args := m.Called(userID)
	return args.Get(0).([]domain.AuditLog), args.Error(1)
}

func (m *MockRepo) Ping(ctx context.Context) error {
	args := m.Called()
	return args.Error(0)
}

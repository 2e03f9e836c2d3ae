package services

import (
	"context"
	"errors"

	"github.com/regctl/regctl/internal/core/domain"
)

// memRepo is an in-memory ports.DomainRepository for service tests.
type memRepo struct {
	domains []domain.Domain
	records []domain.DNSRecord
	audits  []domain.AuditLog

	failCreateDomain    bool
	failCreateDomainFor string
	failDeleteDomain    bool
	failDeleteRecord    bool
	createRecordErr     error
}

func (m *memRepo) CreateDomain(_ context.Context, d *domain.Domain) error {
	if m.failCreateDomain || (m.failCreateDomainFor != "" && d.Name == m.failCreateDomainFor) {
		return errors.New("insert failed")
	}
	m.domains = append(m.domains, *d)
	return nil
}

func (m *memRepo) GetDomain(_ context.Context, name, userID string) (*domain.Domain, error) {
	for i := range m.domains {
		if m.domains[i].Name == name && m.domains[i].UserID == userID {
			d := m.domains[i]
			return &d, nil
		}
	}
	return nil, nil
}

func (m *memRepo) ListDomains(_ context.Context, userID string) ([]domain.Domain, error) {
	var out []domain.Domain
	for _, d := range m.domains {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memRepo) UpdateDomain(_ context.Context, d *domain.Domain) error {
	for i := range m.domains {
		if m.domains[i].ID == d.ID {
			m.domains[i] = *d
			return nil
		}
	}
	return errors.New("domain not found")
}

func (m *memRepo) UpdateDomainStatus(_ context.Context, id string, status domain.DomainStatus) error {
	for i := range m.domains {
		if m.domains[i].ID == id {
			m.domains[i].Status = status
			return nil
		}
	}
	return errors.New("domain not found")
}

func (m *memRepo) DeleteDomain(_ context.Context, id string) error {
	if m.failDeleteDomain {
		return errors.New("delete failed")
	}
	for i := range m.domains {
		if m.domains[i].ID == id {
			m.domains = append(m.domains[:i], m.domains[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memRepo) CreateRecord(_ context.Context, rec *domain.DNSRecord) error {
	if m.createRecordErr != nil {
		return m.createRecordErr
	}
	m.records = append(m.records, *rec)
	return nil
}

func (m *memRepo) GetRecord(_ context.Context, id, domainID string) (*domain.DNSRecord, error) {
	for i := range m.records {
		if m.records[i].ID == id && m.records[i].DomainID == domainID {
			rec := m.records[i]
			return &rec, nil
		}
	}
	return nil, nil
}

func (m *memRepo) ListRecords(_ context.Context, domainID string) ([]domain.DNSRecord, error) {
	var out []domain.DNSRecord
	for _, rec := range m.records {
		if rec.DomainID == domainID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *memRepo) UpdateRecord(_ context.Context, rec *domain.DNSRecord) error {
	for i := range m.records {
		if m.records[i].ID == rec.ID {
			m.records[i] = *rec
			return nil
		}
	}
	return errors.New("record not found")
}

func (m *memRepo) DeleteRecord(_ context.Context, id, domainID string) error {
	if m.failDeleteRecord {
		return errors.New("delete failed")
	}
	for i := range m.records {
		if m.records[i].ID == id && m.records[i].DomainID == domainID {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memRepo) DeleteRecordsForDomain(_ context.Context, domainID string) error {
	var kept []domain.DNSRecord
	for _, rec := range m.records {
		if rec.DomainID != domainID {
			kept = append(kept, rec)
		}
	}
	m.records = kept
	return nil
}

func (m *memRepo) GetAPIKeyByHash(_ context.Context, _ string) (*domain.APIKey, error) { return nil, nil }
func (m *memRepo) CreateAPIKey(_ context.Context, _ *domain.APIKey) error              { return nil }
func (m *memRepo) ListAPIKeys(_ context.Context, _ string) ([]domain.APIKey, error)    { return nil, nil }
func (m *memRepo) DeleteAPIKey(_ context.Context, _ string) error                      { return nil }

func (m *memRepo) SaveAuditLog(_ context.Context, entry *domain.AuditLog) error {
	m.audits = append(m.audits, *entry)
	return nil
}

func (m *memRepo) GetAuditLogs(_ context.Context, userID string) ([]domain.AuditLog, error) {
	var out []domain.AuditLog
	for _, a := range m.audits {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memRepo) Ping(_ context.Context) error { return nil }

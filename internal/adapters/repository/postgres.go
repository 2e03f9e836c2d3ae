package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"

	"github.com/regctl/regctl/internal/core/domain"
)

// PostgresRepository implements ports.DomainRepository using PostgreSQL.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates and returns a new PostgresRepository instance.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Nameservers are stored as a JSON array in a text column; the set is
// tiny and only ever read back whole.
func encodeNameservers(ns []string) string {
	if ns == nil {
		ns = []string{}
	}
	b, _ := json.Marshal(ns)
	return string(b)
}

func decodeNameservers(raw string) []string {
	var ns []string
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &ns); err != nil {
			log.Printf("failed to decode nameservers %q: %v", raw, err)
		}
	}
	if ns == nil {
		ns = []string{}
	}
	return ns
}

func (r *PostgresRepository) CreateDomain(ctx context.Context, d *domain.Domain) error {
	query := `INSERT INTO domains (id, name, registrar, status, user_id, expires_at, auto_renew, locked, privacy_enabled, nameservers, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.ExecContext(ctx, query, d.ID, d.Name, string(d.Registrar), string(d.Status), d.UserID, d.ExpiresAt, d.AutoRenew, d.Locked, d.PrivacyEnabled, encodeNameservers(d.Nameservers), d.CreatedAt, d.UpdatedAt)
	return err
}

func (r *PostgresRepository) GetDomain(ctx context.Context, name, userID string) (*domain.Domain, error) {
	query := `SELECT id, name, registrar, status, user_id, expires_at, auto_renew, locked, privacy_enabled, nameservers, created_at, updated_at
	          FROM domains WHERE LOWER(name) = LOWER($1) AND user_id = $2`
	var d domain.Domain
	var nameservers string
	errRow := r.db.QueryRowContext(ctx, query, name, userID).Scan(&d.ID, &d.Name, &d.Registrar, &d.Status, &d.UserID, &d.ExpiresAt, &d.AutoRenew, &d.Locked, &d.PrivacyEnabled, &nameservers, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(errRow, sql.ErrNoRows) {
		return nil, nil
	}
	if errRow != nil {
		return nil, errRow
	}
	d.Nameservers = decodeNameservers(nameservers)
	return &d, nil
}

func (r *PostgresRepository) ListDomains(ctx context.Context, userID string) ([]domain.Domain, error) {
	query := `SELECT id, name, registrar, status, user_id, expires_at, auto_renew, locked, privacy_enabled, nameservers, created_at, updated_at
	          FROM domains WHERE user_id = $1 ORDER BY name ASC`
	rows, errQuery := r.db.QueryContext(ctx, query, userID)
	if errQuery != nil {
		return nil, errQuery
	}
	defer func() { if errClose := rows.Close(); errClose != nil { log.Printf("failed to close rows: %v", errClose) } }()

	var domains []domain.Domain
	for rows.Next() {
		var d domain.Domain
		var nameservers string
		if errScan := rows.Scan(&d.ID, &d.Name, &d.Registrar, &d.Status, &d.UserID, &d.ExpiresAt, &d.AutoRenew, &d.Locked, &d.PrivacyEnabled, &nameservers, &d.CreatedAt, &d.UpdatedAt); errScan != nil {
			return nil, errScan
		}
		d.Nameservers = decodeNameservers(nameservers)
		domains = append(domains, d)
	}
	return domains, nil
}

func (r *PostgresRepository) UpdateDomain(ctx context.Context, d *domain.Domain) error {
	query := `UPDATE domains SET status = $1, expires_at = $2, auto_renew = $3, locked = $4, privacy_enabled = $5, nameservers = $6, updated_at = $7
	          WHERE id = $8`
	_, err := r.db.ExecContext(ctx, query, string(d.Status), d.ExpiresAt, d.AutoRenew, d.Locked, d.PrivacyEnabled, encodeNameservers(d.Nameservers), d.UpdatedAt, d.ID)
	return err
}

func (r *PostgresRepository) UpdateDomainStatus(ctx context.Context, id string, status domain.DomainStatus) error {
	query := `UPDATE domains SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, string(status), id)
	return err
}

func (r *PostgresRepository) DeleteDomain(ctx context.Context, id string) error {
	query := `DELETE FROM domains WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *PostgresRepository) CreateRecord(ctx context.Context, rec *domain.DNSRecord) error {
	query := `INSERT INTO dns_records (id, domain_id, name, type, content, ttl, priority, proxied, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.ExecContext(ctx, query, rec.ID, rec.DomainID, rec.Name, string(rec.Type), rec.Content, rec.TTL, rec.Priority, rec.Proxied, rec.CreatedAt, rec.UpdatedAt)
	return err
}

func (r *PostgresRepository) GetRecord(ctx context.Context, id, domainID string) (*domain.DNSRecord, error) {
	query := `SELECT id, domain_id, name, type, content, ttl, priority, proxied, created_at, updated_at
	          FROM dns_records WHERE id = $1 AND domain_id = $2`
	var rec domain.DNSRecord
	var priority sql.NullInt32
	errRow := r.db.QueryRowContext(ctx, query, id, domainID).Scan(&rec.ID, &rec.DomainID, &rec.Name, &rec.Type, &rec.Content, &rec.TTL, &priority, &rec.Proxied, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(errRow, sql.ErrNoRows) {
		return nil, nil
	}
	if errRow != nil {
		return nil, errRow
	}
	if priority.Valid {
		p := int(priority.Int32)
		rec.Priority = &p
	}
	return &rec, nil
}

func (r *PostgresRepository) ListRecords(ctx context.Context, domainID string) ([]domain.DNSRecord, error) {
	query := `SELECT id, domain_id, name, type, content, ttl, priority, proxied, created_at, updated_at
	          FROM dns_records WHERE domain_id = $1 ORDER BY name ASC, type ASC`
	rows, errQuery := r.db.QueryContext(ctx, query, domainID)
	if errQuery != nil {
		return nil, errQuery
	}
	defer func() { if errClose := rows.Close(); errClose != nil { log.Printf("failed to close rows: %v", errClose) } }()

	var records []domain.DNSRecord
	for rows.Next() {
		var rec domain.DNSRecord
		var priority sql.NullInt32
		if errScan := rows.Scan(&rec.ID, &rec.DomainID, &rec.Name, &rec.Type, &rec.Content, &rec.TTL, &priority, &rec.Proxied, &rec.CreatedAt, &rec.UpdatedAt); errScan != nil {
			return nil, errScan
		}
		if priority.Valid {
			p := int(priority.Int32)
			rec.Priority = &p
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r *PostgresRepository) UpdateRecord(ctx context.Context, rec *domain.DNSRecord) error {
	query := `UPDATE dns_records SET content = $1, ttl = $2, priority = $3, proxied = $4, updated_at = $5
	          WHERE id = $6 AND domain_id = $7`
	_, err := r.db.ExecContext(ctx, query, rec.Content, rec.TTL, rec.Priority, rec.Proxied, rec.UpdatedAt, rec.ID, rec.DomainID)
	return err
}

func (r *PostgresRepository) DeleteRecord(ctx context.Context, id, domainID string) error {
	query := `DELETE FROM dns_records WHERE id = $1 AND domain_id = $2`
	_, err := r.db.ExecContext(ctx, query, id, domainID)
	return err
}

func (r *PostgresRepository) DeleteRecordsForDomain(ctx context.Context, domainID string) error {
	query := `DELETE FROM dns_records WHERE domain_id = $1`
	_, err := r.db.ExecContext(ctx, query, domainID)
	return err
}

func (r *PostgresRepository) GetAPIKeyByHash(ctx context.Context, keyHash string) (*domain.APIKey, error) {
	query := `SELECT id, user_id, name, key_hash, key_prefix, role, active, created_at, expires_at
	          FROM api_keys WHERE key_hash = $1`
	var k domain.APIKey
	var expiresAt sql.NullTime
	errRow := r.db.QueryRowContext(ctx, query, keyHash).Scan(&k.ID, &k.UserID, &k.Name, &k.KeyHash, &k.KeyPrefix, &k.Role, &k.Active, &k.CreatedAt, &expiresAt)
	if errors.Is(errRow, sql.ErrNoRows) {
		return nil, nil
	}
	if errRow != nil {
		return nil, errRow
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		k.ExpiresAt = &t
	}
	return &k, nil
}

func (r *PostgresRepository) CreateAPIKey(ctx context.Context, key *domain.APIKey) error {
	query := `INSERT INTO api_keys (id, user_id, name, key_hash, key_prefix, role, active, created_at, expires_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query, key.ID, key.UserID, key.Name, key.KeyHash, key.KeyPrefix, string(key.Role), key.Active, key.CreatedAt, key.ExpiresAt)
	return err
}

func (r *PostgresRepository) ListAPIKeys(ctx context.Context, userID string) ([]domain.APIKey, error) {
	query := `SELECT id, user_id, name, key_hash, key_prefix, role, active, created_at, expires_at
	          FROM api_keys WHERE user_id = $1 ORDER BY created_at DESC`
	rows, errQuery := r.db.QueryContext(ctx, query, userID)
	if errQuery != nil {
		return nil, errQuery
	}
	defer func() { if errClose := rows.Close(); errClose != nil { log.Printf("failed to close rows: %v", errClose) } }()

	var keys []domain.APIKey
	for rows.Next() {
		var k domain.APIKey
		var expiresAt sql.NullTime
		if errScan := rows.Scan(&k.ID, &k.UserID, &k.Name, &k.KeyHash, &k.KeyPrefix, &k.Role, &k.Active, &k.CreatedAt, &expiresAt); errScan != nil {
			return nil, errScan
		}
		if expiresAt.Valid {
			t := expiresAt.Time
			k.ExpiresAt = &t
		}
		keys = append(keys, k)
	}
	return keys, nil
}

func (r *PostgresRepository) DeleteAPIKey(ctx context.Context, id string) error {
	query := `DELETE FROM api_keys WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *PostgresRepository) SaveAuditLog(ctx context.Context, entry *domain.AuditLog) error {
	query := `INSERT INTO audit_logs (id, user_id, action, resource_type, resource_id, details, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query, entry.ID, entry.UserID, entry.Action, entry.ResourceType, entry.ResourceID, entry.Details, entry.CreatedAt)
	return err
}

func (r *PostgresRepository) GetAuditLogs(ctx context.Context, userID string) ([]domain.AuditLog, error) {
	query := `SELECT id, user_id, action, resource_type, resource_id, details, created_at FROM audit_logs WHERE user_id = $1 ORDER BY created_at DESC`
	rows, errQuery := r.db.QueryContext(ctx, query, userID)
	if errQuery != nil {
		return nil, errQuery
	}
	defer func() { if errClose := rows.Close(); errClose != nil { log.Printf("failed to close rows: %v", errClose) } }()

	var logs []domain.AuditLog
	for rows.Next() {
		var l domain.AuditLog
		if errScan := rows.Scan(&l.ID, &l.UserID, &l.Action, &l.ResourceType, &l.ResourceID, &l.Details, &l.CreatedAt); errScan != nil {
			return nil, errScan
		}
		logs = append(logs, l)
	}
	return logs, nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/regctl/regctl/internal/core/domain"
)

// VALUE-DOMAIN API
// Documentation: https://www.value-domain.com/api/doc/domain/
// Authentication: Bearer token via Authorization header.
const valueDomainEndpoint = "https://api.value-domain.com/v1"

// ValueDomainNameservers is the registrar's standard pair, applied when
// a registration or sync carries no explicit nameservers.
var ValueDomainNameservers = []string{"ns1.value-domain.com", "ns2.value-domain.com"}

var valueDomainStatus = map[string]domain.DomainStatus{
	"active":       domain.StatusActive,
	"expired":      domain.StatusExpired,
	"pending":      domain.StatusPending,
	"transferring": domain.StatusTransferring,
	"suspended":    domain.StatusSuspended,
}

// ValueDomain implements ports.DomainProvider against the VALUE-DOMAIN
// (GMO) registrar.
type ValueDomain struct {
	apiKey string
	client *client
}

// NewValueDomain returns a provider talking to the production endpoint.
func NewValueDomain(apiKey string) *ValueDomain {
	return newValueDomain(apiKey, valueDomainEndpoint)
}

func newValueDomain(apiKey, endpoint string) *ValueDomain {
	return &ValueDomain{
		apiKey: apiKey,
		client: newClient(domain.RegistrarValueDomain, endpoint),
	}
}

func (p *ValueDomain) Registrar() domain.Registrar { return domain.RegistrarValueDomain }

func (p *ValueDomain) auth() map[string]string {
	return map[string]string{"Authorization": "Bearer " + p.apiKey}
}

type vdAvailability struct {
	Available *bool    `json:"available"`
	Premium   flexBool `json:"premium"`
	Price     *float64 `json:"price"`
}

type vdSearchResponse struct {
	Domains map[string]vdAvailability `json:"domains"`
}

// CheckAvailability uses the domain search endpoint, which does not
// require authentication.
func (p *ValueDomain) CheckAvailability(ctx context.Context, name string) (*domain.DomainAvailability, error) {
	var resp vdSearchResponse
	query := "?domainnames=" + url.QueryEscape(name)
	if err := p.client.do(ctx, http.MethodGet, "/domainsearch", query, nil, nil, &resp); err != nil {
		return nil, err
	}

	avail, ok := resp.Domains[name]
	if !ok {
		// The search endpoint omits domains it has no data for; treat
		// them as available, matching the registrar's own console.
		return &domain.DomainAvailability{Available: true, Currency: "JPY"}, nil
	}

	available := true
	if avail.Available != nil {
		available = *avail.Available
	}
	return &domain.DomainAvailability{
		Available: available,
		Premium:   bool(avail.Premium),
		Price:     avail.Price,
		Currency:  "JPY",
	}, nil
}

type vdListResponse struct {
	Domains []vdDomainDetail `json:"domains"`
}

type vdRegistrant struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Organization string `json:"organization"`
}

type vdDomainDetail struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	DomainName     string        `json:"domainname"`
	Status         string        `json:"status"`
	ExpiresAt      string        `json:"expires_at"`
	Expires        string        `json:"expires"`
	AutoRenew      flexBool      `json:"auto_renew"`
	AutoRenewAlt   flexBool      `json:"autorenew"`
	Locked         flexBool      `json:"locked"`
	PrivacyEnabled flexBool      `json:"privacy_enabled"`
	Privacy        flexBool      `json:"privacy"`
	Nameservers    []string      `json:"nameservers"`
	Registrant     *vdRegistrant `json:"registrant"`
}

func (d *vdDomainDetail) name() string {
	if d.DomainName != "" {
		return d.DomainName
	}
	return d.Name
}

// GetDomainInfo resolves the domain in two steps: VALUE-DOMAIN has no
// by-name lookup, so the account list is scanned for the id first.
func (p *ValueDomain) GetDomainInfo(ctx context.Context, name string) (*domain.DomainInfo, error) {
	var list vdListResponse
	if err := p.client.do(ctx, http.MethodGet, "/domains", "", p.auth(), nil, &list); err != nil {
		return nil, err
	}

	var id string
	for _, d := range list.Domains {
		if d.name() == name {
			id = d.ID
			break
		}
	}
	if id == "" {
		return nil, &domain.ProviderLogicError{
			Registrar: domain.RegistrarValueDomain,
			Reason:    fmt.Sprintf("domain %s not found in account", name),
		}
	}

	var detail vdDomainDetail
	if err := p.client.do(ctx, http.MethodGet, "/domains/"+id, "", p.auth(), nil, &detail); err != nil {
		return nil, err
	}
	return p.toDomainInfo(&detail, name), nil
}

func (p *ValueDomain) toDomainInfo(d *vdDomainDetail, fallbackName string) *domain.DomainInfo {
	name := d.name()
	if name == "" {
		name = fallbackName
	}
	expires := d.ExpiresAt
	if expires == "" {
		expires = d.Expires
	}
	info := &domain.DomainInfo{
		Name:           name,
		Status:         mapStatus(valueDomainStatus, d.Status),
		ExpiresAt:      parseTime(expires, defaultExpiry(1)),
		AutoRenew:      bool(d.AutoRenew) || bool(d.AutoRenewAlt),
		Locked:         bool(d.Locked),
		PrivacyEnabled: bool(d.PrivacyEnabled) || bool(d.Privacy),
		Nameservers:    d.Nameservers,
	}
	if info.Nameservers == nil {
		info.Nameservers = []string{}
	}
	if d.Registrant != nil {
		info.Registrant = &domain.RegistrantInfo{
			Name:         d.Registrant.Name,
			Email:        d.Registrant.Email,
			Organization: d.Registrant.Organization,
		}
	}
	return info
}

type vdContact struct {
	FirstName    string `json:"firstname"`
	LastName     string `json:"lastname"`
	Organization string `json:"organization"`
	Country      string `json:"country"`
	PostalCode   string `json:"postalcode"`
	State        string `json:"state"`
	City         string `json:"city"`
	Address1     string `json:"address1"`
	Address2     string `json:"address2"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Fax          string `json:"fax"`
}

func vdContactFrom(r *domain.RegistrantInfo) vdContact {
	first, last := splitName(r.Name)
	return vdContact{
		FirstName:    first,
		LastName:     last,
		Organization: r.Organization,
		Country:      r.CountryCode,
		PostalCode:   r.PostalCode,
		State:        r.State,
		City:         r.City,
		Address1:     r.Street,
		Email:        r.Email,
		Phone:        r.Phone,
		// The registrar requires a fax number; reuse the phone.
		Fax: r.Phone,
	}
}

type vdRegisterRequest struct {
	Registrar  string         `json:"registrar"`
	SLD        string         `json:"sld"`
	TLD        string         `json:"tld"`
	Years      int            `json:"years"`
	WhoisProxy int            `json:"whois_proxy"`
	NS         []string       `json:"ns"`
	Contact    *vdContactPair `json:"contact,omitempty"`
}

type vdContactPair struct {
	Registrant vdContact `json:"registrant"`
	// Admin mirrors the registrant contact; VALUE-DOMAIN requires both.
	Admin vdContact `json:"admin"`
}

type vdRegisterResponse struct {
	ID             string `json:"id"`
	Status         string `json:"status"`
	ExpiresAt      string `json:"expires_at"`
	ExpirationDate string `json:"expirationdate"`
}

func (p *ValueDomain) RegisterDomain(ctx context.Context, name string, opts domain.RegisterOptions) (*domain.DomainInfo, error) {
	dot := strings.LastIndex(name, ".")
	if dot < 0 {
		return nil, &domain.ProviderLogicError{Registrar: domain.RegistrarValueDomain, Reason: "domain has no TLD"}
	}

	years := opts.Years
	if years < 1 {
		years = 1
	}
	whoisProxy := 0
	if opts.PrivacyEnabled {
		whoisProxy = 1
	}
	ns := opts.Nameservers
	if len(ns) == 0 {
		ns = ValueDomainNameservers
	}

	req := vdRegisterRequest{
		Registrar:  "GMO",
		SLD:        name[:dot],
		TLD:        name[dot+1:],
		Years:      years,
		WhoisProxy: whoisProxy,
		NS:         ns,
	}
	if opts.Registrant != nil {
		contact := vdContactFrom(opts.Registrant)
		req.Contact = &vdContactPair{Registrant: contact, Admin: contact}
	}

	var resp vdRegisterResponse
	if err := p.client.do(ctx, http.MethodPost, "/domains", "", p.auth(), req, &resp); err != nil {
		return nil, err
	}

	status := domain.StatusPending
	if resp.Status != "" {
		status = mapStatus(valueDomainStatus, resp.Status)
	}
	expires := resp.ExpiresAt
	if expires == "" {
		expires = resp.ExpirationDate
	}
	return &domain.DomainInfo{
		Name:           name,
		Status:         status,
		ExpiresAt:      parseTime(expires, defaultExpiry(years)),
		AutoRenew:      opts.AutoRenew,
		Locked:         false,
		PrivacyEnabled: opts.PrivacyEnabled,
		Nameservers:    ns,
		Registrant:     opts.Registrant,
	}, nil
}

type vdTransferResponse struct {
	ID         string `json:"id"`
	TransferID string `json:"transfer_id"`
	Status     string `json:"status"`
}

func (p *ValueDomain) TransferDomain(ctx context.Context, name, authCode string) (*domain.TransferResult, error) {
	body := map[string]any{
		"domainname": name,
		"transfer":   true,
		"auth_code":  authCode,
	}
	var resp vdTransferResponse
	if err := p.client.do(ctx, http.MethodPost, "/domains", "", p.auth(), body, &resp); err != nil {
		return nil, err
	}

	id := resp.ID
	if id == "" {
		id = resp.TransferID
	}
	if id == "" {
		id = newTransferID()
	}
	status := resp.Status
	if status == "" {
		status = "pending"
	}
	return &domain.TransferResult{
		TransferID:          id,
		Status:              status,
		EstimatedCompletion: transferEstimate(),
	}, nil
}

type vdAuthCodeResponse struct {
	AuthCode    string `json:"auth_code"`
	AuthCodeAlt string `json:"authcode"`
}

func (p *ValueDomain) GetAuthCode(ctx context.Context, name string) (string, error) {
	var resp vdAuthCodeResponse
	if err := p.client.do(ctx, http.MethodGet, "/domains/"+name+"/auth_code", "", p.auth(), nil, &resp); err != nil {
		return "", err
	}
	if resp.AuthCode != "" {
		return resp.AuthCode, nil
	}
	return resp.AuthCodeAlt, nil
}

func (p *ValueDomain) UpdateNameservers(ctx context.Context, name string, nameservers []string) error {
	body := map[string]any{"ns": nameservers}
	return p.client.do(ctx, http.MethodPut, "/domains/"+name+"/nameserver", "", p.auth(), body, nil)
}

func (p *ValueDomain) RenewDomain(ctx context.Context, name string, years int) error {
	body := map[string]any{"period": years}
	return p.client.do(ctx, http.MethodPost, "/domains/"+name+"/renew", "", p.auth(), body, nil)
}

func (p *ValueDomain) SetAutoRenew(ctx context.Context, name string, enabled bool) error {
	body := map[string]any{"auto_renew": enabled}
	return p.client.do(ctx, http.MethodPut, "/domains/"+name, "", p.auth(), body, nil)
}

func (p *ValueDomain) SetPrivacy(ctx context.Context, name string, enabled bool) error {
	body := map[string]any{"privacy_enabled": enabled}
	return p.client.do(ctx, http.MethodPut, "/domains/"+name, "", p.auth(), body, nil)
}

func (p *ValueDomain) LockDomain(ctx context.Context, name string) error {
	body := map[string]any{"locked": true}
	return p.client.do(ctx, http.MethodPut, "/domains/"+name, "", p.auth(), body, nil)
}

func (p *ValueDomain) UnlockDomain(ctx context.Context, name string) error {
	body := map[string]any{"locked": false}
	return p.client.do(ctx, http.MethodPut, "/domains/"+name, "", p.auth(), body, nil)
}

// ListDomains pages through the account inventory for the sync engine.
func (p *ValueDomain) ListDomains(ctx context.Context, limit, offset int) ([]domain.DomainInfo, error) {
	var resp vdListResponse
	query := fmt.Sprintf("?limit=%d&offset=%d", limit, offset)
	if err := p.client.do(ctx, http.MethodGet, "/domains", query, p.auth(), nil, &resp); err != nil {
		return nil, err
	}

	infos := make([]domain.DomainInfo, 0, len(resp.Domains))
	for i := range resp.Domains {
		infos = append(infos, *p.toDomainInfo(&resp.Domains[i], ""))
	}
	return infos, nil
}

type vdDNSRecord struct {
	Type     string   `json:"type"`
	Name     string   `json:"name"`
	Content  string   `json:"content"`
	TTL      int      `json:"ttl"`
	Priority *int     `json:"priority"`
	Proxied  flexBool `json:"proxied"`
}

type vdDNSResponse struct {
	Records    []vdDNSRecord `json:"records"`
	DNSRecords []vdDNSRecord `json:"dns_records"`
}

// ListDNSRecords fetches the registrar-hosted records for a domain.
func (p *ValueDomain) ListDNSRecords(ctx context.Context, name string) ([]domain.DNSRecord, error) {
	var resp vdDNSResponse
	if err := p.client.do(ctx, http.MethodGet, "/domains/"+name+"/dns", "", p.auth(), nil, &resp); err != nil {
		return nil, err
	}

	raw := resp.Records
	if len(raw) == 0 {
		raw = resp.DNSRecords
	}
	records := make([]domain.DNSRecord, 0, len(raw))
	for _, r := range raw {
		ttl := r.TTL
		if ttl == 0 {
			ttl = 3600
		}
		records = append(records, domain.DNSRecord{
			Type:     domain.RecordType(r.Type),
			Name:     r.Name,
			Content:  r.Content,
			TTL:      ttl,
			Priority: r.Priority,
			Proxied:  bool(r.Proxied),
		})
	}
	return records, nil
}

// PutDNSRecords replaces the registrar-hosted record set for a domain.
func (p *ValueDomain) PutDNSRecords(ctx context.Context, name string, records []domain.DNSRecord) error {
	raw := make([]vdDNSRecord, 0, len(records))
	for _, r := range records {
		raw = append(raw, vdDNSRecord{
			Type:     string(r.Type),
			Name:     r.Name,
			Content:  r.Content,
			TTL:      r.TTL,
			Priority: r.Priority,
			Proxied:  flexBool(r.Proxied),
		})
	}
	body := map[string]any{"records": raw}
	return p.client.do(ctx, http.MethodPut, "/domains/"+name+"/dns", "", p.auth(), body, nil)
}

// mapStatus translates a native registrar status into the normalized
// enum. Unrecognized values become StatusUnknown; registrar status
// vocabularies evolve independently of this system and must never fail
// the call.
func mapStatus(table map[string]domain.DomainStatus, native string) domain.DomainStatus {
	if s, ok := table[native]; ok {
		return s
	}
	return domain.StatusUnknown
}

package providers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/regctl/regctl/internal/core/domain"
)

// Porkbun API: every call is a POST carrying the api key and secret in
// the request body. Responses carry a "status" of SUCCESS or ERROR even
// on HTTP 200.
const porkbunEndpoint = "https://porkbun.com/api/json/v3"

var porkbunStatus = map[string]domain.DomainStatus{
	"active":       domain.StatusActive,
	"expired":      domain.StatusExpired,
	"pending":      domain.StatusPending,
	"transferring": domain.StatusTransferring,
	"suspended":    domain.StatusSuspended,
}

// Porkbun implements ports.DomainProvider against the Porkbun registrar.
type Porkbun struct {
	apiKey    string
	apiSecret string
	client    *client
}

func NewPorkbun(apiKey, apiSecret string) *Porkbun {
	return newPorkbun(apiKey, apiSecret, porkbunEndpoint)
}

func newPorkbun(apiKey, apiSecret, endpoint string) *Porkbun {
	return &Porkbun{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		client:    newClient(domain.RegistrarPorkbun, endpoint),
	}
}

func (p *Porkbun) Registrar() domain.Registrar { return domain.RegistrarPorkbun }

// body builds the credential envelope every Porkbun call requires.
func (p *Porkbun) body(extra map[string]any) map[string]any {
	b := map[string]any{
		"apikey":       p.apiKey,
		"secretapikey": p.apiSecret,
	}
	for k, v := range extra {
		b[k] = v
	}
	return b
}

// pbStatus is the SUCCESS/ERROR envelope on every Porkbun response.
type pbStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *pbStatus) check() error {
	if strings.EqualFold(s.Status, "ERROR") {
		reason := s.Message
		if reason == "" {
			reason = "registrar reported an error"
		}
		return &domain.ProviderLogicError{Registrar: domain.RegistrarPorkbun, Reason: reason}
	}
	return nil
}

type pbPricing struct {
	Registration string `json:"registration"`
	Premium      string `json:"premium"`
}

type pbPricingResponse struct {
	pbStatus
	Pricing map[string]pbPricing `json:"pricing"`
}

type pbCheckResponse struct {
	pbStatus
	Available string `json:"available"`
}

func (p *Porkbun) CheckAvailability(ctx context.Context, name string) (*domain.DomainAvailability, error) {
	if !strings.Contains(name, ".") {
		return &domain.DomainAvailability{Available: false}, nil
	}

	var pricing pbPricingResponse
	if err := p.client.do(ctx, http.MethodPost, "/domain/pricing", "", nil, p.body(nil), &pricing); err != nil {
		return nil, err
	}
	if err := pricing.check(); err != nil {
		return nil, err
	}

	tld := name[strings.LastIndex(name, "."):]
	tierPricing, ok := pricing.Pricing[tld]
	if !ok {
		// TLD not sold here; not an error, just unavailable.
		return &domain.DomainAvailability{Available: false}, nil
	}

	var check pbCheckResponse
	if err := p.client.do(ctx, http.MethodPost, "/domain/check", "", nil, p.body(map[string]any{"domain": name}), &check); err != nil {
		return nil, err
	}
	if err := check.check(); err != nil {
		return nil, err
	}

	avail := &domain.DomainAvailability{
		Available: check.Available == "yes",
		Premium:   tierPricing.Premium == "yes",
		Currency:  "USD",
	}
	if price, err := strconv.ParseFloat(tierPricing.Registration, 64); err == nil {
		avail.Price = &price
	}
	return avail, nil
}

type pbInfoResponse struct {
	pbStatus
	Domain            string `json:"domain"`
	DomainStatus      string `json:"status"`
	ExpireDate        string `json:"expire_date"`
	AutoRenew         string `json:"auto_renew"`
	Locked            string `json:"locked"`
	WhoisPrivacy      string `json:"whois_privacy"`
	RegistrantName    string `json:"registrant_name"`
	RegistrantEmail   string `json:"registrant_email"`
	RegistrantCompany string `json:"registrant_company"`
}

type pbNameserversResponse struct {
	pbStatus
	Nameservers []string `json:"nameservers"`
}

// GetDomainInfo needs two calls: nameservers live behind a separate
// endpoint from the domain detail.
func (p *Porkbun) GetDomainInfo(ctx context.Context, name string) (*domain.DomainInfo, error) {
	var info pbInfoResponse
	if err := p.client.do(ctx, http.MethodPost, "/domain/info", "", nil, p.body(map[string]any{"domain": name}), &info); err != nil {
		return nil, err
	}
	if err := info.check(); err != nil {
		return nil, err
	}

	var ns pbNameserversResponse
	if err := p.client.do(ctx, http.MethodPost, "/domain/getnameservers", "", nil, p.body(map[string]any{"domain": name}), &ns); err != nil {
		return nil, err
	}
	if err := ns.check(); err != nil {
		return nil, err
	}

	domainName := info.Domain
	if domainName == "" {
		domainName = name
	}
	nameservers := ns.Nameservers
	if nameservers == nil {
		nameservers = []string{}
	}
	return &domain.DomainInfo{
		Name:           domainName,
		Status:         mapStatus(porkbunStatus, info.DomainStatus),
		ExpiresAt:      parseTime(info.ExpireDate, defaultExpiry(1)),
		AutoRenew:      info.AutoRenew == "yes",
		Locked:         info.Locked == "yes",
		PrivacyEnabled: info.WhoisPrivacy == "yes",
		Nameservers:    nameservers,
		Registrant: &domain.RegistrantInfo{
			Name:         info.RegistrantName,
			Email:        info.RegistrantEmail,
			Organization: info.RegistrantCompany,
		},
	}, nil
}

type pbCreateResponse struct {
	pbStatus
	OrderID     any      `json:"order_id"`
	Nameservers []string `json:"nameservers"`
}

func (p *Porkbun) RegisterDomain(ctx context.Context, name string, opts domain.RegisterOptions) (*domain.DomainInfo, error) {
	years := opts.Years
	if years < 1 {
		years = 1
	}
	extra := map[string]any{
		"domain":        name,
		"years":         years,
		"auto_renew":    opts.AutoRenew,
		"whois_privacy": opts.PrivacyEnabled,
	}
	if opts.Registrant != nil {
		first, last := splitName(opts.Registrant.Name)
		if last == "" {
			last = "N/A"
		}
		extra["registrant"] = map[string]any{
			"first_name": first,
			"last_name":  last,
			"company":    opts.Registrant.Organization,
			"email":      opts.Registrant.Email,
			"phone":      opts.Registrant.Phone,
			"address":    opts.Registrant.Street,
			"city":       opts.Registrant.City,
			"state":      opts.Registrant.State,
			"zip":        opts.Registrant.PostalCode,
			"country":    opts.Registrant.CountryCode,
		}
	}

	var resp pbCreateResponse
	if err := p.client.do(ctx, http.MethodPost, "/domain/create", "", nil, p.body(extra), &resp); err != nil {
		return nil, err
	}
	if err := resp.check(); err != nil {
		return nil, err
	}

	// Porkbun applies its own nameservers on create; push custom ones
	// in a follow-up call.
	nameservers := resp.Nameservers
	if len(opts.Nameservers) > 0 {
		if err := p.UpdateNameservers(ctx, name, opts.Nameservers); err != nil {
			return nil, err
		}
		nameservers = opts.Nameservers
	}
	if nameservers == nil {
		nameservers = []string{}
	}

	return &domain.DomainInfo{
		Name:           name,
		Status:         domain.StatusPending,
		ExpiresAt:      defaultExpiry(years),
		AutoRenew:      opts.AutoRenew,
		PrivacyEnabled: opts.PrivacyEnabled,
		Nameservers:    nameservers,
		Registrant:     opts.Registrant,
	}, nil
}

type pbTransferResponse struct {
	pbStatus
	OrderID any `json:"order_id"`
}

func (p *Porkbun) TransferDomain(ctx context.Context, name, authCode string) (*domain.TransferResult, error) {
	extra := map[string]any{"domain": name, "auth_code": authCode}
	var resp pbTransferResponse
	if err := p.client.do(ctx, http.MethodPost, "/domain/transfer", "", nil, p.body(extra), &resp); err != nil {
		return nil, err
	}
	if err := resp.check(); err != nil {
		return nil, err
	}

	id := orderIDString(resp.OrderID)
	if id == "" {
		id = newTransferID()
	}
	return &domain.TransferResult{
		TransferID:          id,
		Status:              "pending",
		EstimatedCompletion: transferEstimate(),
	}, nil
}

type pbAuthCodeResponse struct {
	pbStatus
	AuthCode string `json:"auth_code"`
}

func (p *Porkbun) GetAuthCode(ctx context.Context, name string) (string, error) {
	var resp pbAuthCodeResponse
	if err := p.client.do(ctx, http.MethodPost, "/domain/getauthcode", "", nil, p.body(map[string]any{"domain": name}), &resp); err != nil {
		return "", err
	}
	if err := resp.check(); err != nil {
		return "", err
	}
	return resp.AuthCode, nil
}

func (p *Porkbun) UpdateNameservers(ctx context.Context, name string, nameservers []string) error {
	extra := map[string]any{"domain": name, "nameservers": nameservers}
	return p.simpleCall(ctx, "/domain/updatenameservers", extra)
}

func (p *Porkbun) RenewDomain(ctx context.Context, name string, years int) error {
	return p.simpleCall(ctx, "/domain/renew", map[string]any{"domain": name, "years": years})
}

func (p *Porkbun) SetAutoRenew(ctx context.Context, name string, enabled bool) error {
	return p.simpleCall(ctx, "/domain/setautorenew", map[string]any{"domain": name, "auto_renew": enabled})
}

func (p *Porkbun) SetPrivacy(ctx context.Context, name string, enabled bool) error {
	return p.simpleCall(ctx, "/domain/setprivacy", map[string]any{"domain": name, "whois_privacy": enabled})
}

func (p *Porkbun) LockDomain(ctx context.Context, name string) error {
	return p.simpleCall(ctx, "/domain/setlock", map[string]any{"domain": name, "lock": true})
}

func (p *Porkbun) UnlockDomain(ctx context.Context, name string) error {
	return p.simpleCall(ctx, "/domain/setlock", map[string]any{"domain": name, "lock": false})
}

func (p *Porkbun) simpleCall(ctx context.Context, path string, extra map[string]any) error {
	var resp pbStatus
	if err := p.client.do(ctx, http.MethodPost, path, "", nil, p.body(extra), &resp); err != nil {
		return err
	}
	return resp.check()
}

// orderIDString tolerates the numeric-or-string order ids Porkbun emits.
func orderIDString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatInt(int64(id), 10)
	default:
		return ""
	}
}

package providers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/regctl/regctl/internal/core/domain"
)

// Route53 Domains is an x-amz-json-1.1 RPC API: every call is a POST to
// "/" with the operation named in the X-Amz-Target header and the body
// signed with SigV4.
const (
	route53Endpoint     = "https://route53domains.amazonaws.com"
	route53TargetPrefix = "Route53Domains_v20140515"
)

var route53Status = map[string]domain.DomainStatus{
	"ACTIVE":           domain.StatusActive,
	"EXPIRED":          domain.StatusExpired,
	"PENDING":          domain.StatusPending,
	"PENDING_TRANSFER": domain.StatusTransferring,
	"SUSPENDED":        domain.StatusSuspended,
}

// Route53 implements ports.DomainProvider against AWS Route53 Domains.
type Route53 struct {
	client *client
}

func NewRoute53(accessKeyID, secretAccessKey, region string) *Route53 {
	return newRoute53(accessKeyID, secretAccessKey, region, route53Endpoint)
}

func newRoute53(accessKeyID, secretAccessKey, region, endpoint string) *Route53 {
	if region == "" {
		region = "us-east-1"
	}
	c := newClient(domain.RegistrarRoute53, endpoint)
	c.sign = newSigV4Signer(accessKeyID, secretAccessKey, region).sign
	return &Route53{client: c}
}

func (r *Route53) Registrar() domain.Registrar { return domain.RegistrarRoute53 }

func (r *Route53) call(ctx context.Context, action string, params, out any) error {
	headers := map[string]string{
		"X-Amz-Target": fmt.Sprintf("%s.%s", route53TargetPrefix, action),
		"Content-Type": "application/x-amz-json-1.1",
	}
	return r.client.do(ctx, http.MethodPost, "/", "", headers, params, out)
}

type r53AvailabilityResponse struct {
	Availability string   `json:"Availability"`
	Price        *float64 `json:"Price"`
}

func (r *Route53) CheckAvailability(ctx context.Context, name string) (*domain.DomainAvailability, error) {
	var resp r53AvailabilityResponse
	if err := r.call(ctx, "CheckDomainAvailability", map[string]any{"DomainName": name}, &resp); err != nil {
		return nil, err
	}
	return &domain.DomainAvailability{
		Available: resp.Availability == "AVAILABLE",
		Premium:   resp.Availability == "AVAILABLE_PREMIUM",
		Price:     resp.Price,
		Currency:  "USD",
	}, nil
}

type r53Contact struct {
	FirstName        string `json:"FirstName,omitempty"`
	LastName         string `json:"LastName,omitempty"`
	ContactType      string `json:"ContactType,omitempty"`
	OrganizationName string `json:"OrganizationName,omitempty"`
	AddressLine1     string `json:"AddressLine1,omitempty"`
	City             string `json:"City,omitempty"`
	State            string `json:"State,omitempty"`
	CountryCode      string `json:"CountryCode,omitempty"`
	ZipCode          string `json:"ZipCode,omitempty"`
	PhoneNumber      string `json:"PhoneNumber,omitempty"`
	Email            string `json:"Email,omitempty"`
}

type r53Nameserver struct {
	Name string `json:"Name"`
}

type r53DomainDetail struct {
	DomainName                  string          `json:"DomainName"`
	StatusList                  []string        `json:"StatusList"`
	ExpirationDate              string          `json:"ExpirationDate"`
	AutoRenew                   bool            `json:"AutoRenew"`
	Nameservers                 []r53Nameserver `json:"Nameservers"`
	AdminContact                *r53Contact     `json:"AdminContact"`
	PrivacyProtectAdminContact  bool            `json:"PrivacyProtectAdminContact"`
	TransferLock                bool            `json:"TransferLock"`
}

func (r *Route53) GetDomainInfo(ctx context.Context, name string) (*domain.DomainInfo, error) {
	var resp r53DomainDetail
	if err := r.call(ctx, "GetDomainDetail", map[string]any{"DomainName": name}, &resp); err != nil {
		return nil, err
	}

	native := "UNKNOWN"
	if len(resp.StatusList) > 0 {
		native = resp.StatusList[0]
	}
	nameservers := make([]string, 0, len(resp.Nameservers))
	for _, ns := range resp.Nameservers {
		nameservers = append(nameservers, ns.Name)
	}

	info := &domain.DomainInfo{
		Name:           resp.DomainName,
		Status:         mapStatus(route53Status, native),
		ExpiresAt:      parseTime(resp.ExpirationDate, defaultExpiry(1)),
		AutoRenew:      resp.AutoRenew,
		Locked:         resp.TransferLock,
		PrivacyEnabled: resp.PrivacyProtectAdminContact,
		Nameservers:    nameservers,
	}
	if resp.AdminContact != nil {
		info.Registrant = &domain.RegistrantInfo{
			Name:         fmt.Sprintf("%s %s", resp.AdminContact.FirstName, resp.AdminContact.LastName),
			Email:        resp.AdminContact.Email,
			Organization: resp.AdminContact.OrganizationName,
		}
	}
	return info, nil
}

type r53OperationResponse struct {
	OperationID string `json:"OperationId"`
}

func (r *Route53) RegisterDomain(ctx context.Context, name string, opts domain.RegisterOptions) (*domain.DomainInfo, error) {
	years := opts.Years
	if years < 1 {
		years = 1
	}
	params := map[string]any{
		"DomainName":                      name,
		"DurationInYears":                 years,
		"AutoRenew":                       opts.AutoRenew,
		"PrivacyProtectAdminContact":      opts.PrivacyEnabled,
		"PrivacyProtectRegistrantContact": opts.PrivacyEnabled,
		"PrivacyProtectTechContact":       opts.PrivacyEnabled,
	}
	if opts.Registrant != nil {
		contact := contactFromRegistrant(opts.Registrant)
		params["AdminContact"] = contact
		params["RegistrantContact"] = contact
		params["TechContact"] = contact
	}

	var resp r53OperationResponse
	if err := r.call(ctx, "RegisterDomain", params, &resp); err != nil {
		return nil, err
	}

	nameservers := opts.Nameservers
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

func contactFromRegistrant(reg *domain.RegistrantInfo) r53Contact {
	first, last := splitName(reg.Name)
	if last == "" {
		last = "N/A"
	}
	contactType := "PERSON"
	if reg.Organization != "" {
		contactType = "COMPANY"
	}
	return r53Contact{
		FirstName:        first,
		LastName:         last,
		ContactType:      contactType,
		OrganizationName: reg.Organization,
		AddressLine1:     reg.Street,
		City:             reg.City,
		State:            reg.State,
		CountryCode:      reg.CountryCode,
		ZipCode:          reg.PostalCode,
		PhoneNumber:      reg.Phone,
		Email:            reg.Email,
	}
}

func (r *Route53) TransferDomain(ctx context.Context, name, authCode string) (*domain.TransferResult, error) {
	params := map[string]any{
		"DomainName":      name,
		"AuthCode":        authCode,
		"DurationInYears": 1,
		"AutoRenew":       true,
	}
	var resp r53OperationResponse
	if err := r.call(ctx, "TransferDomain", params, &resp); err != nil {
		return nil, err
	}

	id := resp.OperationID
	if id == "" {
		id = newTransferID()
	}
	return &domain.TransferResult{
		TransferID:          id,
		Status:              "pending",
		EstimatedCompletion: transferEstimate(),
	}, nil
}

type r53AuthCodeResponse struct {
	AuthCode string `json:"AuthCode"`
}

func (r *Route53) GetAuthCode(ctx context.Context, name string) (string, error) {
	var resp r53AuthCodeResponse
	if err := r.call(ctx, "RetrieveDomainAuthCode", map[string]any{"DomainName": name}, &resp); err != nil {
		return "", err
	}
	return resp.AuthCode, nil
}

func (r *Route53) UpdateNameservers(ctx context.Context, name string, nameservers []string) error {
	servers := make([]r53Nameserver, 0, len(nameservers))
	for _, ns := range nameservers {
		servers = append(servers, r53Nameserver{Name: ns})
	}
	params := map[string]any{"DomainName": name, "Nameservers": servers}
	return r.call(ctx, "UpdateDomainNameservers", params, &r53OperationResponse{})
}

func (r *Route53) RenewDomain(ctx context.Context, name string, years int) error {
	params := map[string]any{"DomainName": name, "DurationInYears": years}
	return r.call(ctx, "RenewDomain", params, &r53OperationResponse{})
}

func (r *Route53) SetAutoRenew(ctx context.Context, name string, enabled bool) error {
	action := "EnableDomainAutoRenew"
	if !enabled {
		action = "DisableDomainAutoRenew"
	}
	return r.call(ctx, action, map[string]any{"DomainName": name}, &struct{}{})
}

// SetPrivacy is a no-op here: Route53 Domains exposes privacy only as
// part of a full contact update, not as a standalone toggle.
func (r *Route53) SetPrivacy(ctx context.Context, name string, enabled bool) error {
	return nil
}

func (r *Route53) LockDomain(ctx context.Context, name string) error {
	return r.call(ctx, "EnableDomainTransferLock", map[string]any{"DomainName": name}, &r53OperationResponse{})
}

func (r *Route53) UnlockDomain(ctx context.Context, name string) error {
	return r.call(ctx, "DisableDomainTransferLock", map[string]any{"DomainName": name}, &r53OperationResponse{})
}

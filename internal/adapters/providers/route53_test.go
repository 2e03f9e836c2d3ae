package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/regctl/regctl/internal/core/domain"
)

func TestRoute53RequestSigning(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "AWS4-HMAC-SHA256 Credential=AKID/") {
			t.Errorf("unexpected authorization header %q", auth)
		}
		if !strings.Contains(auth, "/us-east-1/route53domains/aws4_request") {
			t.Errorf("credential scope missing from %q", auth)
		}
		if !strings.Contains(auth, "SignedHeaders=") || !strings.Contains(auth, "Signature=") {
			t.Errorf("authorization header incomplete: %q", auth)
		}
		if r.Header.Get("X-Amz-Date") == "" {
			t.Error("missing X-Amz-Date")
		}
		if r.Header.Get("X-Amz-Content-Sha256") == "" {
			t.Error("missing payload hash header")
		}
		if got := r.Header.Get("X-Amz-Target"); got != "Route53Domains_v20140515.CheckDomainAvailability" {
			t.Errorf("unexpected target %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/x-amz-json-1.1" {
			t.Errorf("unexpected content type %q", got)
		}
		json.NewEncoder(w).Encode(map[string]string{"Availability": "AVAILABLE"})
	}))
	defer srv.Close()

	p := newRoute53("AKID", "secret", "us-east-1", srv.URL)
	avail, err := p.CheckAvailability(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if !avail.Available || avail.Premium {
		t.Errorf("unexpected availability %+v", avail)
	}
}

func TestRoute53GetDomainInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Amz-Target"); got != "Route53Domains_v20140515.GetDomainDetail" {
			t.Errorf("unexpected target %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"DomainName":     "example.com",
			"StatusList":     []string{"ACTIVE"},
			"ExpirationDate": "2027-01-02T00:00:00Z",
			"AutoRenew":      true,
			"TransferLock":   true,
			"Nameservers": []map[string]string{
				{"Name": "ns-1.awsdns-00.org"},
				{"Name": "ns-2.awsdns-01.net"},
			},
			"AdminContact": map[string]string{
				"FirstName": "Ada", "LastName": "Lovelace", "Email": "ada@example.com",
			},
			"PrivacyProtectAdminContact": true,
		})
	}))
	defer srv.Close()

	p := newRoute53("AKID", "secret", "", srv.URL)
	info, err := p.GetDomainInfo(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("GetDomainInfo: %v", err)
	}
	if info.Status != domain.StatusActive {
		t.Errorf("expected active, got %s", info.Status)
	}
	if !info.Locked || !info.AutoRenew || !info.PrivacyEnabled {
		t.Errorf("flags mapped wrong: %+v", info)
	}
	if len(info.Nameservers) != 2 || info.Nameservers[0] != "ns-1.awsdns-00.org" {
		t.Errorf("unexpected nameservers %v", info.Nameservers)
	}
	if info.Registrant == nil || info.Registrant.Name != "Ada Lovelace" {
		t.Errorf("unexpected registrant %+v", info.Registrant)
	}
}

func TestRoute53UnrecognizedEPPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"DomainName": "example.com",
			"StatusList": []string{"clientTransferProhibited"},
		})
	}))
	defer srv.Close()

	p := newRoute53("AKID", "secret", "", srv.URL)
	info, err := p.GetDomainInfo(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("GetDomainInfo: %v", err)
	}
	if info.Status != domain.StatusUnknown {
		t.Errorf("unrecognized native status should map to unknown, got %s", info.Status)
	}
}

func TestRoute53AutoRenewActionSelection(t *testing.T) {
	var targets []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		targets = append(targets, r.Header.Get("X-Amz-Target"))
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	p := newRoute53("AKID", "secret", "", srv.URL)
	if err := p.SetAutoRenew(context.Background(), "example.com", true); err != nil {
		t.Fatalf("SetAutoRenew(true): %v", err)
	}
	if err := p.SetAutoRenew(context.Background(), "example.com", false); err != nil {
		t.Fatalf("SetAutoRenew(false): %v", err)
	}
	want := []string{
		"Route53Domains_v20140515.EnableDomainAutoRenew",
		"Route53Domains_v20140515.DisableDomainAutoRenew",
	}
	if len(targets) != 2 || targets[0] != want[0] || targets[1] != want[1] {
		t.Errorf("unexpected targets %v", targets)
	}
}

func TestRoute53UpdateNameserversShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			DomainName  string          `json:"DomainName"`
			Nameservers []r53Nameserver `json:"Nameservers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.DomainName != "example.com" {
			t.Errorf("unexpected domain %q", body.DomainName)
		}
		if len(body.Nameservers) != 2 || body.Nameservers[0].Name != "ns1.example.net" {
			t.Errorf("unexpected nameserver shape %v", body.Nameservers)
		}
		json.NewEncoder(w).Encode(map[string]string{"OperationId": "op-1"})
	}))
	defer srv.Close()

	p := newRoute53("AKID", "secret", "", srv.URL)
	err := p.UpdateNameservers(context.Background(), "example.com", []string{"ns1.example.net", "ns2.example.net"})
	if err != nil {
		t.Fatalf("UpdateNameservers: %v", err)
	}
}

func TestRoute53SetPrivacyIsNoop(t *testing.T) {
	// No server: a network call would fail the test.
	p := newRoute53("AKID", "secret", "", "http://127.0.0.1:0")
	if err := p.SetPrivacy(context.Background(), "example.com", true); err != nil {
		t.Fatalf("SetPrivacy: %v", err)
	}
}

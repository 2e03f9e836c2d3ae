package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/regctl/regctl/internal/core/domain"
)

func decodePorkbunBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["apikey"] != "pk-key" || body["secretapikey"] != "pk-secret" {
		t.Errorf("credentials missing from body: %v", body)
	}
	return body
}

func TestPorkbunCheckAvailability(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decodePorkbunBody(t, r)
		switch r.URL.Path {
		case "/domain/pricing":
			json.NewEncoder(w).Encode(map[string]any{
				"status": "SUCCESS",
				"pricing": map[string]any{
					".com": map[string]string{"registration": "9.68", "premium": "no"},
				},
			})
		case "/domain/check":
			json.NewEncoder(w).Encode(map[string]string{"status": "SUCCESS", "available": "yes"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	p := newPorkbun("pk-key", "pk-secret", srv.URL)
	avail, err := p.CheckAvailability(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if !avail.Available {
		t.Error("expected available")
	}
	if avail.Premium {
		t.Error("expected not premium")
	}
	if avail.Price == nil || *avail.Price != 9.68 {
		t.Errorf("unexpected price %v", avail.Price)
	}
	if avail.Currency != "USD" {
		t.Errorf("unexpected currency %s", avail.Currency)
	}
}

func TestPorkbunCheckAvailabilityUnsupportedTLD(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/domain/pricing" {
			t.Errorf("check endpoint should not be hit for unsold TLDs, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"status": "SUCCESS", "pricing": map[string]any{}})
	}))
	defer srv.Close()

	p := newPorkbun("pk-key", "pk-secret", srv.URL)
	avail, err := p.CheckAvailability(context.Background(), "example.exotic")
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if avail.Available {
		t.Error("unsold TLD should read as unavailable, not error")
	}
}

func TestPorkbunCheckAvailabilityDotlessName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no endpoint should be hit for a dotless name, got %s", r.URL.Path)
	}))
	defer srv.Close()

	p := newPorkbun("pk-key", "pk-secret", srv.URL)
	avail, err := p.CheckAvailability(context.Background(), "localhost")
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if avail.Available {
		t.Error("dotless name should read as unavailable")
	}
}

func TestPorkbunGetDomainInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decodePorkbunBody(t, r)
		switch r.URL.Path {
		case "/domain/info":
			json.NewEncoder(w).Encode(map[string]string{
				"status":           "SUCCESS",
				"domain":           "example.com",
				"expire_date":      "2026-03-15 00:00:00",
				"auto_renew":       "yes",
				"locked":           "no",
				"whois_privacy":    "yes",
				"registrant_name":  "Jane Doe",
				"registrant_email": "jane@example.com",
			})
		case "/domain/getnameservers":
			json.NewEncoder(w).Encode(map[string]any{
				"status":      "SUCCESS",
				"nameservers": []string{"maceio.ns.porkbun.com", "curitiba.ns.porkbun.com"},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	p := newPorkbun("pk-key", "pk-secret", srv.URL)
	info, err := p.GetDomainInfo(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("GetDomainInfo: %v", err)
	}
	if !info.AutoRenew || info.Locked || !info.PrivacyEnabled {
		t.Errorf("yes/no flags mapped wrong: %+v", info)
	}
	if len(info.Nameservers) != 2 {
		t.Errorf("expected 2 nameservers, got %v", info.Nameservers)
	}
	if info.ExpiresAt.Year() != 2026 {
		t.Errorf("unexpected expiry %v", info.ExpiresAt)
	}
	if info.Registrant == nil || info.Registrant.Email != "jane@example.com" {
		t.Errorf("unexpected registrant %+v", info.Registrant)
	}
}

func TestPorkbunErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"status":  "ERROR",
			"message": "Invalid domain.",
		})
	}))
	defer srv.Close()

	p := newPorkbun("pk-key", "pk-secret", srv.URL)
	_, err := p.GetAuthCode(context.Background(), "not a domain")
	var logicErr *domain.ProviderLogicError
	if !errors.As(err, &logicErr) {
		t.Fatalf("expected ProviderLogicError, got %T: %v", err, err)
	}
	if logicErr.Reason != "Invalid domain." {
		t.Errorf("unexpected reason %q", logicErr.Reason)
	}
}

func TestPorkbunRegisterPushesCustomNameservers(t *testing.T) {
	var sawUpdate bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := decodePorkbunBody(t, r)
		switch r.URL.Path {
		case "/domain/create":
			reg, ok := body["registrant"].(map[string]any)
			if !ok {
				t.Fatal("expected registrant block in create body")
			}
			if reg["first_name"] != "Grace" || reg["last_name"] != "N/A" {
				t.Errorf("single-word names should fall back to last_name N/A, got %v", reg)
			}
			json.NewEncoder(w).Encode(map[string]any{"status": "SUCCESS", "order_id": 12345})
		case "/domain/updatenameservers":
			sawUpdate = true
			json.NewEncoder(w).Encode(map[string]string{"status": "SUCCESS"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	p := newPorkbun("pk-key", "pk-secret", srv.URL)
	info, err := p.RegisterDomain(context.Background(), "newdomain.net", domain.RegisterOptions{
		Years:       1,
		Nameservers: []string{"ns1.custom.net", "ns2.custom.net"},
		Registrant:  &domain.RegistrantInfo{Name: "Grace", Email: "grace@example.com"},
	})
	if err != nil {
		t.Fatalf("RegisterDomain: %v", err)
	}
	if !sawUpdate {
		t.Error("expected nameserver update after create")
	}
	if info.Status != domain.StatusPending {
		t.Errorf("expected pending status, got %s", info.Status)
	}
	if len(info.Nameservers) != 2 || info.Nameservers[0] != "ns1.custom.net" {
		t.Errorf("expected custom nameservers echoed, got %v", info.Nameservers)
	}
}

func TestPorkbunTransferNumericOrderID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := decodePorkbunBody(t, r)
		if body["auth_code"] != "EPP-123" {
			t.Errorf("expected auth code in body, got %v", body)
		}
		json.NewEncoder(w).Encode(map[string]any{"status": "SUCCESS", "order_id": 98765})
	}))
	defer srv.Close()

	p := newPorkbun("pk-key", "pk-secret", srv.URL)
	result, err := p.TransferDomain(context.Background(), "moving.com", "EPP-123")
	if err != nil {
		t.Fatalf("TransferDomain: %v", err)
	}
	if result.TransferID != "98765" {
		t.Errorf("expected numeric order id as string, got %q", result.TransferID)
	}
	if result.Status != "pending" {
		t.Errorf("unexpected status %s", result.Status)
	}
}

func TestPorkbunLockUnlock(t *testing.T) {
	var lockValues []any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := decodePorkbunBody(t, r)
		if r.URL.Path != "/domain/setlock" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		lockValues = append(lockValues, body["lock"])
		json.NewEncoder(w).Encode(map[string]string{"status": "SUCCESS"})
	}))
	defer srv.Close()

	p := newPorkbun("pk-key", "pk-secret", srv.URL)
	if err := p.LockDomain(context.Background(), "example.com"); err != nil {
		t.Fatalf("LockDomain: %v", err)
	}
	if err := p.UnlockDomain(context.Background(), "example.com"); err != nil {
		t.Fatalf("UnlockDomain: %v", err)
	}
	if len(lockValues) != 2 || lockValues[0] != true || lockValues[1] != false {
		t.Errorf("unexpected lock values %v", lockValues)
	}
}

package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/regctl/regctl/internal/core/domain"
	"github.com/regctl/regctl/internal/core/ports"
)

// APIHandler handles HTTP requests for domain and record management.
type APIHandler struct {
	domains ports.DomainService
	records ports.DNSService
	syncer  ports.SyncService
	repo    ports.DomainRepository
}

// NewAPIHandler creates and returns a new APIHandler instance.
func NewAPIHandler(domains ports.DomainService, records ports.DNSService, syncer ports.SyncService, repo ports.DomainRepository) *APIHandler {
	return &APIHandler{domains: domains, records: records, syncer: syncer, repo: repo}
}

// RegisterRoutes registers the API routes with the provided ServeMux.
func (h *APIHandler) RegisterRoutes(mux *http.ServeMux) {
	// Public Routes
	mux.HandleFunc("GET /health", h.HealthCheck)
	mux.HandleFunc("GET /metrics", h.Metrics)

	// Middleware
	auth := AuthMiddleware(h.repo)
	admin := RequireRole(domain.RoleAdmin)

	// Protected Routes (scoped by user_id from auth key)
	mux.Handle("GET /availability", auth(http.HandlerFunc(h.CheckAvailability)))
	mux.Handle("GET /domains", auth(http.HandlerFunc(h.ListDomains)))
	mux.Handle("POST /domains", auth(admin(http.HandlerFunc(h.RegisterDomain))))
	mux.Handle("GET /domains/{domain}", auth(http.HandlerFunc(h.GetDomain)))
	mux.Handle("PATCH /domains/{domain}", auth(admin(http.HandlerFunc(h.UpdateSettings))))
	mux.Handle("DELETE /domains/{domain}", auth(admin(http.HandlerFunc(h.DeleteDomain))))
	mux.Handle("POST /domains/{domain}/transfer", auth(admin(http.HandlerFunc(h.TransferDomain))))
	mux.Handle("POST /domains/{domain}/renew", auth(admin(http.HandlerFunc(h.RenewDomain))))
	mux.Handle("POST /domains/{domain}/lock", auth(admin(http.HandlerFunc(h.LockDomain))))
	mux.Handle("POST /domains/sync", auth(admin(http.HandlerFunc(h.SyncDomains))))
	mux.Handle("GET /domains/{domain}/records", auth(http.HandlerFunc(h.ListRecords)))
	mux.Handle("POST /domains/{domain}/records", auth(admin(http.HandlerFunc(h.CreateRecord))))
	mux.Handle("PATCH /domains/{domain}/records/{id}", auth(admin(http.HandlerFunc(h.UpdateRecord))))
	mux.Handle("DELETE /domains/{domain}/records/{id}", auth(admin(http.HandlerFunc(h.DeleteRecord))))
	mux.Handle("POST /domains/{domain}/records/sync", auth(admin(http.HandlerFunc(h.SyncRecords))))
	mux.Handle("POST /domains/{domain}/import", auth(admin(http.HandlerFunc(h.ImportZoneFile))))
	mux.Handle("GET /audit-logs", auth(http.HandlerFunc(h.ListAuditLogs)))
}

// writeError maps core error types onto HTTP statuses. Validation
// failures are the caller's fault, provider failures are the upstream
// registrar's.
func writeError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	var logicErr *domain.ProviderLogicError
	var providerErr *domain.ProviderError

	switch {
	case errors.As(err, &validationErr):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrDomainNotFound), errors.Is(err, domain.ErrRecordNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrUnknownRegistrar):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &logicErr):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.As(err, &providerErr):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := r.Context().Value(CtxUserID).(string)
	if !ok || id == "" {
		log.Printf("%s %s: missing or invalid user ID in context", r.Method, r.URL.Path)
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return "", false
	}
	return id, true
}

// Metrics handles Prometheus metrics scraping requests.
func (h *APIHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// HealthCheck handles health check requests.
func (h *APIHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "UP"
	details := make(map[string]string)

	if err := h.repo.Ping(r.Context()); err != nil {
		status = "DEGRADED"
		details["database"] = err.Error()
	} else {
		details["database"] = "OK"
	}

	resp := map[string]interface{}{
		"status":  status,
		"details": details,
	}

	code := http.StatusOK
	if status == "DEGRADED" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

// CheckAvailability proxies an availability lookup to one registrar.
func (h *APIHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	registrar := domain.Registrar(r.URL.Query().Get("registrar"))
	name := r.URL.Query().Get("domain")
	if registrar == "" || name == "" {
		http.Error(w, "registrar and domain query parameters are required", http.StatusBadRequest)
		return
	}

	avail, err := h.domains.CheckAvailability(r.Context(), registrar, name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, avail)
}

func (h *APIHandler) ListDomains(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	list, err := h.domains.ListDomains(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type registerRequest struct {
	Name      string                 `json:"name"`
	Registrar domain.Registrar       `json:"registrar"`
	Options   domain.RegisterOptions `json:"options"`
}

func (h *APIHandler) RegisterDomain(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Options.Years == 0 {
		req.Options.Years = 1
	}

	d, err := h.domains.RegisterDomain(r.Context(), uid, req.Registrar, req.Name, req.Options)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (h *APIHandler) GetDomain(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	refresh := r.URL.Query().Get("refresh") == "true"
	d, err := h.domains.GetDomain(r.Context(), uid, r.PathValue("domain"), refresh)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *APIHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var patch domain.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.domains.UpdateSettings(r.Context(), uid, r.PathValue("domain"), patch); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) DeleteDomain(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	if err := h.domains.DeleteDomain(r.Context(), uid, r.PathValue("domain")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type transferRequest struct {
	From     domain.Registrar `json:"from"`
	To       domain.Registrar `json:"to"`
	AuthCode string           `json:"auth_code,omitempty"`
}

func (h *APIHandler) TransferDomain(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.domains.TransferDomain(r.Context(), uid, r.PathValue("domain"), req.From, req.To, req.AuthCode)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, result)
}

type renewRequest struct {
	Years int `json:"years"`
}

func (h *APIHandler) RenewDomain(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req renewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.domains.RenewDomain(r.Context(), uid, r.PathValue("domain"), req.Years); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type lockRequest struct {
	Locked bool `json:"locked"`
}

func (h *APIHandler) LockDomain(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req lockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.domains.LockDomain(r.Context(), uid, r.PathValue("domain"), req.Locked); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) SyncDomains(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	result, err := h.syncer.SyncDomains(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *APIHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	records, err := h.records.ListRecords(r.Context(), uid, r.PathValue("domain"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *APIHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var rec domain.DNSRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.records.CreateRecord(r.Context(), uid, r.PathValue("domain"), &rec); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *APIHandler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var patch domain.RecordPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := h.records.UpdateRecord(r.Context(), uid, r.PathValue("domain"), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *APIHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	if err := h.records.DeleteRecord(r.Context(), uid, r.PathValue("domain"), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) SyncRecords(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	if err := h.records.SyncRecords(r.Context(), uid, r.PathValue("domain")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type importRequest struct {
	ZoneFile string `json:"zone_file"`
}

func (h *APIHandler) ImportZoneFile(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	records, err := h.records.ImportZoneFile(r.Context(), uid, r.PathValue("domain"), req.ZoneFile)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, records)
}

// ListAuditLogs retrieves audit entries for the authenticated user.
func (h *APIHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	logs, err := h.repo.GetAuditLogs(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

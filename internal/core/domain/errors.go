package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownRegistrar is returned when a registrar id is outside the
// supported set. This is caller misuse and is detected before any
// network call.
var ErrUnknownRegistrar = errors.New("unknown registrar")

// ErrDomainNotFound is returned when a domain is absent from the local store.
var ErrDomainNotFound = errors.New("domain not found")

// ErrRecordNotFound is returned when a DNS record is absent from the local store.
var ErrRecordNotFound = errors.New("record not found")

// ProviderError is a transport-level failure: the registrar answered a
// provider HTTP call with a non-2xx status. The original status code and
// raw body are preserved so callers can distinguish 401 from 404 from 5xx.
// The core never retries these.
type ProviderError struct {
	Registrar  Registrar
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s API error: %d - %s", e.Registrar, e.StatusCode, e.Body)
}

// ProviderLogicError is a semantic failure: the HTTP exchange succeeded
// but the payload indicates a logical problem, e.g. the domain is not in
// the account.
type ProviderLogicError struct {
	Registrar Registrar
	Reason    string
}

func (e *ProviderLogicError) Error() string {
	return fmt.Sprintf("%s: %s", e.Registrar, e.Reason)
}

// ValidationError is caller-side misuse detected before any network or
// database call (missing MX priority, CNAME at the apex, bad TTL).
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConsistencyError is raised when a dual-write compensation itself fails:
// the remote call failed and the local rollback failed too, leaving an
// orphaned local row. This is the one unrecoverable case and must be
// logged as an integrity issue.
type ConsistencyError struct {
	Op         string
	ResourceID string
	RemoteErr  error
	LocalErr   error
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("consistency violation during %s of %s: remote failed (%v) and rollback failed (%v)",
		e.Op, e.ResourceID, e.RemoteErr, e.LocalErr)
}

func (e *ConsistencyError) Unwrap() error { return e.RemoteErr }

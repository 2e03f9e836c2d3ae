package providers

import (
	"fmt"

	"github.com/regctl/regctl/internal/core/domain"
	"github.com/regctl/regctl/internal/core/ports"
)

// Registry hands out the provider adapter for a registrar. Providers
// are built once from credentials and reused; they are safe for
// concurrent use.
type Registry struct {
	providers map[domain.Registrar]ports.DomainProvider
}

func NewRegistry(creds domain.Credentials) *Registry {
	return &Registry{
		providers: map[domain.Registrar]ports.DomainProvider{
			domain.RegistrarValueDomain: NewValueDomain(creds.ValueDomainAPIKey),
			domain.RegistrarRoute53:     NewRoute53(creds.AWSAccessKeyID, creds.AWSSecretAccessKey, creds.AWSRegion),
			domain.RegistrarPorkbun:     NewPorkbun(creds.PorkbunAPIKey, creds.PorkbunAPISecret),
		},
	}
}

func (r *Registry) Resolve(registrar domain.Registrar) (ports.DomainProvider, error) {
	p, ok := r.providers[registrar]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownRegistrar, registrar)
	}
	return p, nil
}

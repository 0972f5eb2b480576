package permissions

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var policyData []byte

// Endpoint is keyed by the chi route pattern, e.g. /v1/bookings/{id}/approve.
type Endpoint struct {
	Path   string   `json:"path"`
	Method string   `json:"method"`
	Public bool     `json:"public"`
	Roles  []string `json:"roles"`
}

// Allows reports whether role may call the endpoint. No roles means any signed-in user.
func (e Endpoint) Allows(role string) bool {
	return len(e.Roles) == 0 || slices.Contains(e.Roles, role)
}

type Policy struct {
	Endpoints []Endpoint `json:"endpoints"`
	// Open disables role checks everywhere; authentication still applies.
	Open bool `json:"open"`

	index map[string]Endpoint
}

func key(method, path string) string {
	return method + " " + path
}

// Find returns a zero Endpoint for routes the policy does not name.
func (p *Policy) Find(method, path string) Endpoint {
	return p.index[key(method, path)]
}

func Parse(data []byte) (*Policy, error) {
	var policy Policy

	if err := json.Unmarshal(data, &policy); err != nil {
		return nil, fmt.Errorf("failed to decode permissions: %w", err)
	}

	policy.index = make(map[string]Endpoint, len(policy.Endpoints))

	for _, endpoint := range policy.Endpoints {
		k := key(endpoint.Method, endpoint.Path)
		if _, ok := policy.index[k]; ok {
			return nil, fmt.Errorf("duplicate permission entry %q", k)
		}

		policy.index[k] = endpoint
	}

	return &policy, nil
}

func Get() *Policy {
	policy, err := Parse(policyData)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(policy.Endpoints)).Msg("Loaded embedded permissions")

	return policy
}

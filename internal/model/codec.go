package model

import (
	"encoding/json"
	"fmt"
)

// MarshalTenant serializes a tenant record as pretty-printed JSON. The
// payload is what operators see when inspecting the coordination store
// by hand, so it stays indented with stable field names.
func MarshalTenant(tenant *Tenant) ([]byte, error) {
	data, err := json.MarshalIndent(tenant, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tenant %s: %w", tenant.ID, err)
	}
	return append(data, '\n'), nil
}

// UnmarshalTenant decodes a stored tenant record payload.
func UnmarshalTenant(data []byte) (*Tenant, error) {
	var tenant Tenant
	if err := json.Unmarshal(data, &tenant); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tenant record: %w", err)
	}
	return &tenant, nil
}

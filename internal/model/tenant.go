package model

import (
	"time"

	"github.com/google/uuid"
)

// Tenant represents a logical partition of the platform. The record is
// stored as a unit; only ID, Token and Name participate in directory
// consistency logic, everything else is opaque configuration.
type Tenant struct {
	ID                      uuid.UUID         `json:"id"`
	Token                   string            `json:"token"`
	Name                    string            `json:"name"`
	AuthenticationToken     string            `json:"authentication_token"`
	LogoURL                 string            `json:"logo_url,omitempty"`
	AuthorizedUserIDs       []string          `json:"authorized_user_ids,omitempty"`
	ConfigurationTemplateID string            `json:"configuration_template_id,omitempty"`
	DatasetTemplateID       string            `json:"dataset_template_id,omitempty"`
	Metadata                map[string]string `json:"metadata,omitempty"`
	CreatedDate             time.Time         `json:"created_date"`
	UpdatedDate             time.Time         `json:"updated_date"`
}

// TenantCreateRequest carries caller-supplied tenant fields. The same
// request type is used for updates, where empty fields are left as-is.
type TenantCreateRequest struct {
	Token                   string            `json:"token"`
	Name                    string            `json:"name"`
	AuthenticationToken     string            `json:"authentication_token,omitempty"`
	LogoURL                 string            `json:"logo_url,omitempty"`
	AuthorizedUserIDs       []string          `json:"authorized_user_ids,omitempty"`
	ConfigurationTemplateID string            `json:"configuration_template_id,omitempty"`
	DatasetTemplateID       string            `json:"dataset_template_id,omitempty"`
	Metadata                map[string]string `json:"metadata,omitempty"`
}

// Clone returns a deep copy of the tenant. Update operations merge the
// request onto a copy so a failed write never mutates the caller's view.
func (t *Tenant) Clone() *Tenant {
	copied := *t
	if t.AuthorizedUserIDs != nil {
		copied.AuthorizedUserIDs = append([]string(nil), t.AuthorizedUserIDs...)
	}
	if t.Metadata != nil {
		copied.Metadata = make(map[string]string, len(t.Metadata))
		for k, v := range t.Metadata {
			copied.Metadata[k] = v
		}
	}
	return &copied
}

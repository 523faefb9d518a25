package directory

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/edgehive/tenant-directory/internal/model"
)

// Tenant tokens are used in URLs and topic names downstream, so they
// stay lowercase alphanumeric with dashes.
var tokenPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// tenantFromRequest validates a create request and normalizes it into a
// candidate tenant with a freshly assigned id. No store calls happen
// here; validation failures surface as ErrInvalidRequest.
func tenantFromRequest(request *model.TenantCreateRequest) (*model.Tenant, error) {
	if request == nil {
		return nil, fmt.Errorf("%w: request is required", ErrInvalidRequest)
	}
	if request.Token == "" {
		return nil, fmt.Errorf("%w: token is required", ErrInvalidRequest)
	}
	if !tokenPattern.MatchString(request.Token) {
		return nil, fmt.Errorf("%w: token %q must be lowercase alphanumeric with dashes", ErrInvalidRequest, request.Token)
	}
	if request.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidRequest)
	}

	tenant := &model.Tenant{
		ID:                      uuid.New(),
		Token:                   request.Token,
		Name:                    request.Name,
		AuthenticationToken:     request.AuthenticationToken,
		LogoURL:                 request.LogoURL,
		ConfigurationTemplateID: request.ConfigurationTemplateID,
		DatasetTemplateID:       request.DatasetTemplateID,
		CreatedDate:             time.Now().UTC(),
	}
	if tenant.AuthenticationToken == "" {
		tenant.AuthenticationToken = uuid.NewString()
	}
	if request.AuthorizedUserIDs != nil {
		tenant.AuthorizedUserIDs = append([]string(nil), request.AuthorizedUserIDs...)
	}
	if request.Metadata != nil {
		tenant.Metadata = make(map[string]string, len(request.Metadata))
		for k, v := range request.Metadata {
			tenant.Metadata[k] = v
		}
	}
	return tenant, nil
}

// applyUpdate merges an update request onto a copy of the stored
// record. Empty request fields leave the stored value untouched; the id
// and the template ids are immutable after creation. The merged record
// is written back wholesale, so concurrent updates are last-writer-wins.
func applyUpdate(current *model.Tenant, request *model.TenantCreateRequest) (*model.Tenant, error) {
	if request == nil {
		return nil, fmt.Errorf("%w: request is required", ErrInvalidRequest)
	}
	updated := current.Clone()

	if request.Token != "" {
		if !tokenPattern.MatchString(request.Token) {
			return nil, fmt.Errorf("%w: token %q must be lowercase alphanumeric with dashes", ErrInvalidRequest, request.Token)
		}
		updated.Token = request.Token
	}
	if request.Name != "" {
		updated.Name = request.Name
	}
	if request.AuthenticationToken != "" {
		updated.AuthenticationToken = request.AuthenticationToken
	}
	if request.LogoURL != "" {
		updated.LogoURL = request.LogoURL
	}
	if request.AuthorizedUserIDs != nil {
		updated.AuthorizedUserIDs = append([]string(nil), request.AuthorizedUserIDs...)
	}
	if request.Metadata != nil {
		updated.Metadata = make(map[string]string, len(request.Metadata))
		for k, v := range request.Metadata {
			updated.Metadata[k] = v
		}
	}
	updated.UpdatedDate = time.Now().UTC()
	return updated, nil
}

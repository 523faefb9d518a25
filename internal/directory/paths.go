package directory

import (
	"fmt"
	"path"

	"github.com/google/uuid"
)

// tenantRecordFile is the fixed leaf name holding the serialized tenant
// record under each tenant node.
const tenantRecordFile = "tenant.json"

// PathScheme maps tenant identifiers to coordination-store paths. Paths
// are a pure function of the tenant id; tokens and names can change on
// update, so they never participate in path layout.
type PathScheme struct {
	instanceRoot string
}

// NewPathScheme builds the scheme for one platform instance. The tenant
// tree lives under <basePath>/instances/<instanceID>/tenants.
func NewPathScheme(basePath, instanceID string) PathScheme {
	return PathScheme{instanceRoot: path.Join("/", basePath, "instances", instanceID)}
}

// InstanceRoot returns the configuration root for this instance.
func (p PathScheme) InstanceRoot() string {
	return p.instanceRoot
}

// TenantsRoot returns the parent node of all tenant nodes.
func (p PathScheme) TenantsRoot() string {
	return p.instanceRoot + "/tenants"
}

// TenantNode returns the node owned by the given tenant.
func (p PathScheme) TenantNode(id uuid.UUID) string {
	return p.TenantsRoot() + "/" + id.String()
}

// TenantRecord returns the path of the tenant's serialized record.
func (p PathScheme) TenantRecord(id uuid.UUID) string {
	return p.TenantNode(id) + "/" + tenantRecordFile
}

// IDFromSegment recovers a tenant id from a child segment of the
// tenants root, as produced by TenantNode.
func (p PathScheme) IDFromSegment(segment string) (uuid.UUID, error) {
	id, err := uuid.Parse(segment)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid tenant path segment %q: %w", segment, err)
	}
	return id, nil
}

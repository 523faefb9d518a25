package directory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edgehive/tenant-directory/internal/metrics"
	"github.com/edgehive/tenant-directory/internal/model"
	"github.com/edgehive/tenant-directory/internal/store"
)

// TenantDirectory maintains the authoritative record of every tenant in
// the coordination store. It holds no locks and caches nothing: every
// operation is a fresh sequence of store round trips, and consistency
// across processes is whatever the store itself guarantees. The only
// cross-call atomicity it relies on is the store's create-if-absent.
type TenantDirectory struct {
	store   store.ContentStore
	paths   PathScheme
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewTenantDirectory creates a tenant directory over the given store.
// metrics may be nil when instrumentation is not wanted.
func NewTenantDirectory(contentStore store.ContentStore, paths PathScheme, m *metrics.Metrics, logger *zap.Logger) *TenantDirectory {
	return &TenantDirectory{
		store:   contentStore,
		paths:   paths,
		metrics: m,
		logger:  logger,
	}
}

// EnsureLayout creates the instance and tenant root nodes if they are
// missing. Called once at startup before the directory serves requests.
func (d *TenantDirectory) EnsureLayout(ctx context.Context) error {
	root := d.paths.TenantsRoot()
	err := d.store.Create(ctx, root, nil, true)
	if err != nil && !errors.Is(err, store.ErrNodeExists) {
		return fmt.Errorf("failed to bootstrap tenant tree at %s: %w", root, err)
	}
	d.logger.Info("Tenant tree ready", zap.String("path", root))
	return nil
}

// CreateTenant validates the request, assigns a fresh id and stores the
// record. The pre-create existence check gives a clean duplicate error
// on the common path; the create itself is atomic create-if-absent, so
// two racing creates for the same path yield exactly one success.
func (d *TenantDirectory) CreateTenant(ctx context.Context, request *model.TenantCreateRequest) (*model.Tenant, error) {
	defer d.timeOp("create_tenant")()

	tenant, err := tenantFromRequest(request)
	if err != nil {
		d.recordError("create_tenant", "invalid_request")
		return nil, err
	}

	recordPath := d.paths.TenantRecord(tenant.ID)
	exists, err := d.store.Exists(ctx, recordPath)
	if err != nil {
		d.recordError("create_tenant", "store")
		return nil, fmt.Errorf("create tenant: %w", err)
	}
	if exists {
		d.recordError("create_tenant", "duplicate")
		return nil, fmt.Errorf("tenant node at %s: %w", recordPath, ErrDuplicateTenant)
	}

	data, err := model.MarshalTenant(tenant)
	if err != nil {
		d.recordError("create_tenant", "encode")
		return nil, fmt.Errorf("create tenant: %w", err)
	}
	if err := d.store.Create(ctx, recordPath, data, true); err != nil {
		if errors.Is(err, store.ErrNodeExists) {
			// Lost the race to a concurrent creator.
			d.recordError("create_tenant", "duplicate")
			return nil, fmt.Errorf("tenant node at %s: %w", recordPath, ErrDuplicateTenant)
		}
		d.recordError("create_tenant", "store")
		return nil, fmt.Errorf("create tenant: %w", err)
	}

	d.logger.Info("Created tenant",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("token", tenant.Token),
		zap.String("name", tenant.Name))
	return tenant, nil
}

// UpdateTenant merges the request onto the stored record and writes the
// whole document back. The write is an overwrite of the existing node;
// concurrent updates are last-writer-wins.
func (d *TenantDirectory) UpdateTenant(ctx context.Context, id uuid.UUID, request *model.TenantCreateRequest) (*model.Tenant, error) {
	defer d.timeOp("update_tenant")()

	current, err := d.readTenant(ctx, id)
	if err != nil {
		d.recordError("update_tenant", errorType(err))
		return nil, fmt.Errorf("update tenant: %w", err)
	}
	if current == nil {
		d.recordError("update_tenant", "not_found")
		return nil, fmt.Errorf("tenant %s: %w", id, ErrTenantNotFound)
	}

	updated, err := applyUpdate(current, request)
	if err != nil {
		d.recordError("update_tenant", "invalid_request")
		return nil, err
	}

	data, err := model.MarshalTenant(updated)
	if err != nil {
		d.recordError("update_tenant", "encode")
		return nil, fmt.Errorf("update tenant: %w", err)
	}
	if err := d.store.Set(ctx, d.paths.TenantRecord(id), data); err != nil {
		d.recordError("update_tenant", "store")
		return nil, fmt.Errorf("update tenant: %w", err)
	}

	d.logger.Info("Updated tenant",
		zap.String("tenant_id", id.String()),
		zap.String("token", updated.Token))
	return updated, nil
}

// GetTenant reads the tenant record for the given id. Absence is not an
// error: a missing tenant returns (nil, nil) so callers can probe
// existence without error-driven control flow.
func (d *TenantDirectory) GetTenant(ctx context.Context, id uuid.UUID) (*model.Tenant, error) {
	defer d.timeOp("get_tenant")()

	tenant, err := d.readTenant(ctx, id)
	if err != nil {
		d.recordError("get_tenant", errorType(err))
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return tenant, nil
}

// readTenant is the uninstrumented read used by every operation that
// needs the current record. Absence returns (nil, nil); callers record
// metrics and wrap errors under their own operation name.
func (d *TenantDirectory) readTenant(ctx context.Context, id uuid.UUID) (*model.Tenant, error) {
	recordPath := d.paths.TenantRecord(id)
	exists, err := d.store.Exists(ctx, recordPath)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	data, err := d.store.Get(ctx, recordPath)
	if err != nil {
		return nil, err
	}
	tenant, err := model.UnmarshalTenant(data)
	if err != nil {
		return nil, fmt.Errorf("%w: record at %s: %v", ErrDecodeFailure, recordPath, err)
	}
	return tenant, nil
}

// GetTenantByToken resolves a tenant by its human-chosen token. There
// is no token index in the tree, so this lists every tenant and scans.
// O(n) in the tenant count; an accepted limit of the id-keyed layout.
func (d *TenantDirectory) GetTenantByToken(ctx context.Context, token string) (*model.Tenant, error) {
	defer d.timeOp("get_tenant_by_token")()

	all, err := d.ListTenants(ctx, TenantSearchCriteria{PageNumber: 1, PageSize: 0})
	if err != nil {
		return nil, fmt.Errorf("get tenant by token: %w", err)
	}
	for _, tenant := range all.Tenants {
		if tenant.Token == token {
			return tenant, nil
		}
	}
	return nil, nil
}

// ListTenants reads and decodes every tenant under the tenants root,
// sorts by name ascending and returns the requested page. Any read or
// decode failure aborts the whole listing; partial results are never
// returned.
func (d *TenantDirectory) ListTenants(ctx context.Context, criteria TenantSearchCriteria) (*TenantSearchResults, error) {
	defer d.timeOp("list_tenants")()

	children, err := d.store.Children(ctx, d.paths.TenantsRoot())
	if err != nil {
		if errors.Is(err, store.ErrNodeNotFound) {
			// Instance not bootstrapped yet: no tenants.
			return &TenantSearchResults{Tenants: []*model.Tenant{}}, nil
		}
		d.recordError("list_tenants", "store")
		return nil, fmt.Errorf("list tenants: %w", err)
	}

	tenants := make([]*model.Tenant, 0, len(children))
	for _, child := range children {
		id, err := d.paths.IDFromSegment(child)
		if err != nil {
			d.recordError("list_tenants", "decode")
			return nil, fmt.Errorf("list tenants: %w", err)
		}
		tenant, err := d.readTenant(ctx, id)
		if err != nil {
			d.recordError("list_tenants", errorType(err))
			return nil, fmt.Errorf("list tenants: %w", err)
		}
		if tenant == nil {
			d.recordError("list_tenants", "decode")
			return nil, fmt.Errorf("list tenants: tenant node %s has no record", child)
		}
		tenants = append(tenants, tenant)
	}

	sort.Slice(tenants, func(i, j int) bool {
		return tenants[i].Name < tenants[j].Name
	})

	return &TenantSearchResults{
		Tenants: paginate(tenants, criteria),
		Total:   len(tenants),
	}, nil
}

// DeleteTenant reads the tenant and then removes its entire subtree,
// including any tenant-scoped configuration nested under the node.
// Returns the deleted record. Deletion is irreversible.
func (d *TenantDirectory) DeleteTenant(ctx context.Context, id uuid.UUID) (*model.Tenant, error) {
	defer d.timeOp("delete_tenant")()

	tenant, err := d.readTenant(ctx, id)
	if err != nil {
		d.recordError("delete_tenant", errorType(err))
		return nil, fmt.Errorf("delete tenant: %w", err)
	}
	if tenant == nil {
		d.recordError("delete_tenant", "not_found")
		return nil, fmt.Errorf("tenant %s: %w", id, ErrTenantNotFound)
	}

	if err := d.store.DeleteRecursive(ctx, d.paths.TenantNode(id)); err != nil {
		if errors.Is(err, store.ErrNodeNotFound) {
			// Deleted concurrently between read and delete.
			d.recordError("delete_tenant", "not_found")
			return nil, fmt.Errorf("tenant %s: %w", id, ErrTenantNotFound)
		}
		d.recordError("delete_tenant", "store")
		return nil, fmt.Errorf("delete tenant: %w", err)
	}

	d.logger.Info("Deleted tenant",
		zap.String("tenant_id", id.String()),
		zap.String("token", tenant.Token))
	return tenant, nil
}

// timeOp records request count and duration for one operation.
func (d *TenantDirectory) timeOp(operation string) func() {
	if d.metrics == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		d.metrics.RecordRequest(operation, time.Since(start).Seconds())
	}
}

func (d *TenantDirectory) recordError(operation, errorType string) {
	if d.metrics != nil {
		d.metrics.RecordError(operation, errorType)
	}
}

// errorType classifies a readTenant failure for error metrics.
func errorType(err error) string {
	if errors.Is(err, ErrDecodeFailure) {
		return "decode"
	}
	return "store"
}


package directory

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edgehive/tenant-directory/internal/metrics"
	"github.com/edgehive/tenant-directory/internal/model"
	"github.com/edgehive/tenant-directory/internal/store"
)

func newTestDirectory(t *testing.T) (*TenantDirectory, *store.MemoryStore) {
	t.Helper()
	memStore := store.NewMemoryStore()
	paths := NewPathScheme("/edgehive", "test")
	dir := NewTenantDirectory(memStore, paths, nil, zap.NewNop())
	require.NoError(t, dir.EnsureLayout(context.Background()))
	return dir, memStore
}

func createRequest(token, name string) *model.TenantCreateRequest {
	return &model.TenantCreateRequest{
		Token:    token,
		Name:     name,
		Metadata: map[string]string{"plan": "standard"},
	}
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()

	created, err := dir.CreateTenant(ctx, createRequest("acme", "Acme Corporation"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.NotEmpty(t, created.AuthenticationToken)
	assert.False(t, created.CreatedDate.IsZero())

	fetched, err := dir.GetTenant(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)
}

func TestCreateTenantValidation(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()

	_, err := dir.CreateTenant(ctx, nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = dir.CreateTenant(ctx, createRequest("", "No Token"))
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = dir.CreateTenant(ctx, createRequest("Bad Token!", "Bad Token"))
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = dir.CreateTenant(ctx, createRequest("no-name", ""))
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

// raceStore simulates a concurrent creator that wins between the
// existence check and the create call: the check sees an empty path but
// the atomic create finds it occupied.
type raceStore struct {
	store.ContentStore
}

func (s *raceStore) Exists(ctx context.Context, path string) (bool, error) {
	return false, nil
}

func (s *raceStore) Create(ctx context.Context, path string, data []byte, createParents bool) error {
	return fmt.Errorf("failed to create %s: %w", path, store.ErrNodeExists)
}

func TestCreateTenantLosesRace(t *testing.T) {
	memStore := store.NewMemoryStore()
	paths := NewPathScheme("/edgehive", "test")
	dir := NewTenantDirectory(&raceStore{ContentStore: memStore}, paths, nil, zap.NewNop())

	_, err := dir.CreateTenant(context.Background(), createRequest("acme", "Acme"))
	assert.ErrorIs(t, err, ErrDuplicateTenant)
}

func TestCreateTenantDuplicatePath(t *testing.T) {
	dir, memStore := newTestDirectory(t)
	ctx := context.Background()

	created, err := dir.CreateTenant(ctx, createRequest("acme", "Acme"))
	require.NoError(t, err)

	// A second create against the same record path must fail without
	// clobbering the stored record.
	recordPath := dir.paths.TenantRecord(created.ID)
	err = memStore.Create(ctx, recordPath, []byte("other"), true)
	assert.ErrorIs(t, err, store.ErrNodeExists)

	fetched, err := dir.GetTenant(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)
}

func TestUpdateTenant(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()

	created, err := dir.CreateTenant(ctx, &model.TenantCreateRequest{
		Token:                   "acme",
		Name:                    "Acme",
		ConfigurationTemplateID: "default",
	})
	require.NoError(t, err)

	updated, err := dir.UpdateTenant(ctx, created.ID, &model.TenantCreateRequest{
		Name:    "Acme Industries",
		LogoURL: "https://example.com/new.png",
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "acme", updated.Token)
	assert.Equal(t, "Acme Industries", updated.Name)
	assert.Equal(t, "https://example.com/new.png", updated.LogoURL)
	assert.Equal(t, "default", updated.ConfigurationTemplateID)
	assert.False(t, updated.UpdatedDate.IsZero())

	// The merged document is what subsequent reads observe.
	fetched, err := dir.GetTenant(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, fetched)
}

func TestUpdateTenantNotFound(t *testing.T) {
	dir, memStore := newTestDirectory(t)
	ctx := context.Background()

	_, err := dir.UpdateTenant(ctx, uuid.New(), createRequest("ghost", "Ghost"))
	assert.ErrorIs(t, err, ErrTenantNotFound)

	// No store mutation happened.
	children, err := memStore.Children(ctx, dir.paths.TenantsRoot())
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestGetTenantAbsent(t *testing.T) {
	dir, _ := newTestDirectory(t)

	tenant, err := dir.GetTenant(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, tenant)
}

func TestGetTenantByToken(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()

	created, err := dir.CreateTenant(ctx, createRequest("acme", "Acme"))
	require.NoError(t, err)
	_, err = dir.CreateTenant(ctx, createRequest("globex", "Globex"))
	require.NoError(t, err)

	found, err := dir.GetTenantByToken(ctx, "acme")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
}

func TestGetTenantByTokenAbsent(t *testing.T) {
	dir, _ := newTestDirectory(t)

	tenant, err := dir.GetTenantByToken(context.Background(), "acme")
	require.NoError(t, err)
	assert.Nil(t, tenant)
}

func TestListTenantsSortsByName(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()

	a, err := dir.CreateTenant(ctx, createRequest("tenant-a", "Zeta"))
	require.NoError(t, err)
	b, err := dir.CreateTenant(ctx, createRequest("tenant-b", "Alpha"))
	require.NoError(t, err)
	c, err := dir.CreateTenant(ctx, createRequest("tenant-c", "Mu"))
	require.NoError(t, err)

	page1, err := dir.ListTenants(ctx, TenantSearchCriteria{PageNumber: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page1.Total)
	require.Len(t, page1.Tenants, 2)
	assert.Equal(t, b.ID, page1.Tenants[0].ID)
	assert.Equal(t, c.ID, page1.Tenants[1].ID)

	page2, err := dir.ListTenants(ctx, TenantSearchCriteria{PageNumber: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page2.Total)
	require.Len(t, page2.Tenants, 1)
	assert.Equal(t, a.ID, page2.Tenants[0].ID)
}

func TestListTenantsPaginationLaw(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		_, err := dir.CreateTenant(ctx, createRequest(
			fmt.Sprintf("tenant-%d", i), fmt.Sprintf("Tenant %d", i)))
		require.NoError(t, err)
	}

	full, err := dir.ListTenants(ctx, TenantSearchCriteria{PageNumber: 1, PageSize: 0})
	require.NoError(t, err)
	assert.Equal(t, 7, full.Total)
	require.Len(t, full.Tenants, 7)

	// Concatenating pages of size 3 reproduces the full sorted sequence.
	var concatenated []uuid.UUID
	for page := 1; ; page++ {
		results, err := dir.ListTenants(ctx, TenantSearchCriteria{PageNumber: page, PageSize: 3})
		require.NoError(t, err)
		assert.Equal(t, 7, results.Total)
		if len(results.Tenants) == 0 {
			break
		}
		for _, tenant := range results.Tenants {
			concatenated = append(concatenated, tenant.ID)
		}
	}

	require.Len(t, concatenated, 7)
	for i, tenant := range full.Tenants {
		assert.Equal(t, tenant.ID, concatenated[i])
	}
}

func TestListTenantsNegativePageSize(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := dir.CreateTenant(ctx, createRequest(
			fmt.Sprintf("tenant-%d", i), fmt.Sprintf("Tenant %d", i)))
		require.NoError(t, err)
	}

	// Malformed criteria are clamped, never a panic: a negative page
	// size behaves like 0 (unbounded).
	results, err := dir.ListTenants(ctx, TenantSearchCriteria{PageNumber: 1, PageSize: -1})
	require.NoError(t, err)
	assert.Equal(t, 3, results.Total)
	assert.Len(t, results.Tenants, 3)

	results, err = dir.ListTenants(ctx, TenantSearchCriteria{PageNumber: -5, PageSize: -20})
	require.NoError(t, err)
	assert.Equal(t, 3, results.Total)
	assert.Len(t, results.Tenants, 3)
}

func TestListTenantsEmptyStore(t *testing.T) {
	dir, _ := newTestDirectory(t)

	results, err := dir.ListTenants(context.Background(), TenantSearchCriteria{PageNumber: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 0, results.Total)
	assert.Empty(t, results.Tenants)
}

func TestListTenantsBeforeBootstrap(t *testing.T) {
	memStore := store.NewMemoryStore()
	dir := NewTenantDirectory(memStore, NewPathScheme("/edgehive", "fresh"), nil, zap.NewNop())

	results, err := dir.ListTenants(context.Background(), TenantSearchCriteria{PageNumber: 1, PageSize: 0})
	require.NoError(t, err)
	assert.Equal(t, 0, results.Total)
}

func TestListTenantsAbortsOnCorruptRecord(t *testing.T) {
	dir, memStore := newTestDirectory(t)
	ctx := context.Background()

	created, err := dir.CreateTenant(ctx, createRequest("acme", "Acme"))
	require.NoError(t, err)
	_, err = dir.CreateTenant(ctx, createRequest("globex", "Globex"))
	require.NoError(t, err)

	require.NoError(t, memStore.Set(ctx, dir.paths.TenantRecord(created.ID), []byte("not json")))

	_, err = dir.ListTenants(ctx, TenantSearchCriteria{PageNumber: 1, PageSize: 0})
	assert.Error(t, err)
}

// newTestMetrics builds unregistered collectors so tests can inspect
// counts without touching the default registry.
func newTestMetrics() *metrics.Metrics {
	return &metrics.Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "directory_requests_total"},
			[]string{"operation"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: "directory_request_duration_seconds"},
			[]string{"operation"},
		),
		RequestErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "directory_request_errors_total"},
			[]string{"operation", "error_type"},
		),
	}
}

func newMeteredDirectory(t *testing.T) (*TenantDirectory, *store.MemoryStore, *metrics.Metrics) {
	t.Helper()
	memStore := store.NewMemoryStore()
	m := newTestMetrics()
	dir := NewTenantDirectory(memStore, NewPathScheme("/edgehive", "test"), m, zap.NewNop())
	require.NoError(t, dir.EnsureLayout(context.Background()))
	return dir, memStore, m
}

func TestListTenantsCountsOnlyItsOwnOperation(t *testing.T) {
	dir, _, m := newMeteredDirectory(t)
	ctx := context.Background()

	_, err := dir.CreateTenant(ctx, createRequest("acme", "Acme"))
	require.NoError(t, err)
	_, err = dir.CreateTenant(ctx, createRequest("globex", "Globex"))
	require.NoError(t, err)

	_, err = dir.ListTenants(ctx, TenantSearchCriteria{PageNumber: 1, PageSize: 0})
	require.NoError(t, err)

	// The per-child reads inside a listing are not get_tenant requests.
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("list_tenants")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("get_tenant")))
}

func TestUpdateTenantMissingCountsOneError(t *testing.T) {
	dir, _, m := newMeteredDirectory(t)

	_, err := dir.UpdateTenant(context.Background(), uuid.New(), createRequest("ghost", "Ghost"))
	assert.ErrorIs(t, err, ErrTenantNotFound)
	assert.NotContains(t, err.Error(), "get tenant")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestErrors.WithLabelValues("update_tenant", "not_found")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RequestErrors.WithLabelValues("get_tenant", "store")))
}

func TestUpdateTenantCorruptRecord(t *testing.T) {
	dir, memStore, m := newMeteredDirectory(t)
	ctx := context.Background()

	created, err := dir.CreateTenant(ctx, createRequest("acme", "Acme"))
	require.NoError(t, err)
	require.NoError(t, memStore.Set(ctx, dir.paths.TenantRecord(created.ID), []byte("not json")))

	_, err = dir.UpdateTenant(ctx, created.ID, createRequest("acme", "Acme Two"))
	assert.ErrorIs(t, err, ErrDecodeFailure)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestErrors.WithLabelValues("update_tenant", "decode")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RequestErrors.WithLabelValues("get_tenant", "decode")))
}

func TestDeleteTenant(t *testing.T) {
	dir, memStore := newTestDirectory(t)
	ctx := context.Background()

	created, err := dir.CreateTenant(ctx, createRequest("acme", "Acme"))
	require.NoError(t, err)

	// Tenant-scoped configuration nested under the node is erased too.
	nested := dir.paths.TenantNode(created.ID) + "/engine/config.json"
	require.NoError(t, memStore.Create(ctx, nested, []byte("{}"), true))

	deleted, err := dir.DeleteTenant(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, deleted)

	fetched, err := dir.GetTenant(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched)

	exists, err := memStore.Exists(ctx, nested)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = dir.DeleteTenant(ctx, created.ID)
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

package directory

import "github.com/edgehive/tenant-directory/internal/model"

// TenantSearchCriteria selects one page of a tenant listing. PageNumber
// is 1-based; PageSize 0 means every element from the page offset.
type TenantSearchCriteria struct {
	PageNumber int
	PageSize   int
}

// TenantSearchResults is one page of tenants plus the total count of
// tenants present at listing time, irrespective of the requested page.
type TenantSearchResults struct {
	Tenants []*model.Tenant
	Total   int
}

// paginate clips the sorted tenant sequence to the requested page.
// Out-of-range criteria are clamped: page numbers below 1 mean the
// first page, negative page sizes mean unbounded.
func paginate(tenants []*model.Tenant, criteria TenantSearchCriteria) []*model.Tenant {
	page := criteria.PageNumber
	if page < 1 {
		page = 1
	}
	size := criteria.PageSize
	if size < 0 {
		size = 0
	}
	start := (page - 1) * size
	if start >= len(tenants) {
		return []*model.Tenant{}
	}
	end := start + size
	if size == 0 || end > len(tenants) {
		end = len(tenants)
	}
	return tenants[start:end]
}

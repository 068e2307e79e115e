package api

import "context"

// List returns one page of tenants. Requires the SYS_ADMIN authority.
func (s TenantsService) List(ctx context.Context, page PageParams) (*PageData[Tenant], error) {
	return listPage[Tenant](ctx, s, "getTenants", page, nil)
}

// Get retrieves a tenant by ID.
func (s TenantsService) Get(ctx context.Context, id string) (*Tenant, error) {
	return getByID[Tenant](ctx, s, "getTenantById", "tenantId", id)
}

// Delete removes a tenant and everything it owns.
func (s TenantsService) Delete(ctx context.Context, id string) error {
	return invokeInto(ctx, s, "deleteTenant", Call{Params: map[string]any{"tenantId": id}}, nil)
}

package api

import "context"

// List returns one page of the tenant's dashboards.
func (s DashboardsService) List(ctx context.Context, page PageParams) (*PageData[DashboardInfo], error) {
	return listPage[DashboardInfo](ctx, s, "getTenantDashboards", page, nil)
}

// ListForUser returns one page of dashboards visible to the current user.
func (s DashboardsService) ListForUser(ctx context.Context, page PageParams) (*PageData[DashboardInfo], error) {
	return listPage[DashboardInfo](ctx, s, "getUserDashboards", page, nil)
}

// Get retrieves dashboard info by ID.
func (s DashboardsService) Get(ctx context.Context, id string) (*DashboardInfo, error) {
	return getByID[DashboardInfo](ctx, s, "getDashboardInfoById", "dashboardId", id)
}

// Delete removes a dashboard.
func (s DashboardsService) Delete(ctx context.Context, id string) error {
	return invokeInto(ctx, s, "deleteDashboard", Call{Params: map[string]any{"dashboardId": id}}, nil)
}

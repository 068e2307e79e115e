package api

import "context"

// Service accessors group typed operations by resource. Each service embeds
// *Client, so services share its transport and settings.

type AuthService struct{ *Client }

type TenantsService struct{ *Client }

type CustomersService struct{ *Client }

type DevicesService struct{ *Client }

type AssetsService struct{ *Client }

type AlarmsService struct{ *Client }

type DashboardsService struct{ *Client }

type UsersService struct{ *Client }

type TelemetryService struct{ *Client }

type EntityGroupsService struct{ *Client }

type RuleChainsService struct{ *Client }

type ImagesService struct{ *Client }

type AdminService struct{ *Client }

func (c *Client) Auth() AuthService {
	return AuthService{c}
}

func (c *Client) Tenants() TenantsService {
	return TenantsService{c}
}

func (c *Client) Customers() CustomersService {
	return CustomersService{c}
}

func (c *Client) Devices() DevicesService {
	return DevicesService{c}
}

func (c *Client) Assets() AssetsService {
	return AssetsService{c}
}

func (c *Client) Alarms() AlarmsService {
	return AlarmsService{c}
}

func (c *Client) Dashboards() DashboardsService {
	return DashboardsService{c}
}

func (c *Client) Users() UsersService {
	return UsersService{c}
}

func (c *Client) Telemetry() TelemetryService {
	return TelemetryService{c}
}

func (c *Client) EntityGroups() EntityGroupsService {
	return EntityGroupsService{c}
}

func (c *Client) RuleChains() RuleChainsService {
	return RuleChainsService{c}
}

func (c *Client) Images() ImagesService {
	return ImagesService{c}
}

func (c *Client) Admin() AdminService {
	return AdminService{c}
}

// invokeInto runs operation and decodes a successful body into out.
func invokeInto(ctx context.Context, r Invoker, operation string, call Call, out any) error {
	res, err := r.Invoke(ctx, operation, call)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return res.Decode(out)
}

// listPage runs a paged operation with typed parameters.
func listPage[T any](ctx context.Context, r Invoker, operation string, typed any, extra map[string]any) (*PageData[T], error) {
	params, err := toParams(typed)
	if err != nil {
		return nil, err
	}
	var page PageData[T]
	if err := invokeInto(ctx, r, operation, Call{Params: withParams(params, extra)}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// getByID fetches a single entity whose path takes one id parameter.
func getByID[T any](ctx context.Context, r Invoker, operation, param, id string) (*T, error) {
	var out T
	if err := invokeInto(ctx, r, operation, Call{Params: map[string]any{param: id}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

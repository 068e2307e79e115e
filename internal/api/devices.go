package api

import (
	"context"
	"strings"
)

// SaveDeviceOptions are the optional query parameters of saveDevice.
type SaveDeviceOptions struct {
	AccessToken   string `mapstructure:"accessToken,omitempty"`
	EntityGroupID string `mapstructure:"entityGroupId,omitempty" validate:"omitempty,uuid"`
}

// List returns one page of the tenant's devices.
func (s DevicesService) List(ctx context.Context, params TypedPageParams) (*PageData[Device], error) {
	return listPage[Device](ctx, s, "getTenantDevices", params, nil)
}

// ListByCustomer returns one page of devices assigned to a customer.
func (s DevicesService) ListByCustomer(ctx context.Context, customerID string, params TypedPageParams) (*PageData[Device], error) {
	return listPage[Device](ctx, s, "getCustomerDevices", params, map[string]any{"customerId": customerID})
}

// Get retrieves a device by ID.
func (s DevicesService) Get(ctx context.Context, id string) (*Device, error) {
	return getByID[Device](ctx, s, "getDeviceById", "deviceId", id)
}

// GetMany retrieves several devices in one request.
func (s DevicesService) GetMany(ctx context.Context, ids []string) ([]Device, error) {
	var out []Device
	call := Call{Params: map[string]any{"deviceIds": strings.Join(ids, ",")}}
	if err := invokeInto(ctx, s, "getDevicesByIds", call, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindByName looks a tenant device up by its exact name.
func (s DevicesService) FindByName(ctx context.Context, name string) (*Device, error) {
	var out Device
	if err := invokeInto(ctx, s, "getTenantDevice", Call{Params: map[string]any{"deviceName": name}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Save creates or updates a device.
func (s DevicesService) Save(ctx context.Context, device Device, opts SaveDeviceOptions) (*Device, error) {
	return saveDevice(ctx, s, device, opts)
}

func saveDevice(ctx context.Context, r Invoker, device Device, opts SaveDeviceOptions) (*Device, error) {
	params, err := toParams(opts)
	if err != nil {
		return nil, err
	}
	var out Device
	if err := invokeInto(ctx, r, "saveDevice", Call{Params: params, Body: device}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a device.
func (s DevicesService) Delete(ctx context.Context, id string) error {
	return invokeInto(ctx, s, "deleteDevice", Call{Params: map[string]any{"deviceId": id}}, nil)
}

// Credentials returns the credentials of a device.
func (s DevicesService) Credentials(ctx context.Context, id string) (*DeviceCredentials, error) {
	return getByID[DeviceCredentials](ctx, s, "getDeviceCredentialsByDeviceId", "deviceId", id)
}

// Types lists the device types known to the tenant.
func (s DevicesService) Types(ctx context.Context) ([]string, error) {
	return listEntitySubtypes(ctx, s, "getDeviceTypes")
}

// listEntitySubtypes flattens the [{"type": ...}] answer of the *Types endpoints.
func listEntitySubtypes(ctx context.Context, r Invoker, operation string) ([]string, error) {
	var subtypes []struct {
		Type string `json:"type"`
	}
	if err := invokeInto(ctx, r, operation, Call{}, &subtypes); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(subtypes))
	for _, st := range subtypes {
		out = append(out, st.Type)
	}
	return out, nil
}

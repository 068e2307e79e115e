package api

import "context"

// List returns one page of the tenant's customers.
func (s CustomersService) List(ctx context.Context, page PageParams) (*PageData[Customer], error) {
	return listPage[Customer](ctx, s, "getCustomers", page, nil)
}

// Get retrieves a customer by ID.
func (s CustomersService) Get(ctx context.Context, id string) (*Customer, error) {
	return getByID[Customer](ctx, s, "getCustomerById", "customerId", id)
}

// FindByTitle looks a customer up by its exact title.
func (s CustomersService) FindByTitle(ctx context.Context, title string) (*Customer, error) {
	var out Customer
	if err := invokeInto(ctx, s, "getTenantCustomer", Call{Params: map[string]any{"customerTitle": title}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Save creates or updates a customer. entityGroupID may be empty.
func (s CustomersService) Save(ctx context.Context, customer Customer, entityGroupID string) (*Customer, error) {
	return saveCustomer(ctx, s, customer, entityGroupID)
}

func saveCustomer(ctx context.Context, r Invoker, customer Customer, entityGroupID string) (*Customer, error) {
	call := Call{Body: customer}
	if entityGroupID != "" {
		call.Params = map[string]any{"entityGroupId": entityGroupID}
	}
	var out Customer
	if err := invokeInto(ctx, r, "saveCustomer", call, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a customer.
func (s CustomersService) Delete(ctx context.Context, id string) error {
	return invokeInto(ctx, s, "deleteCustomer", Call{Params: map[string]any{"customerId": id}}, nil)
}

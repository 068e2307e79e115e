package api

import "context"

// List returns one page of users visible to the current user.
func (s UsersService) List(ctx context.Context, page PageParams) (*PageData[User], error) {
	return listPage[User](ctx, s, "getUsers", page, nil)
}

// ListByCustomer returns one page of a customer's users.
func (s UsersService) ListByCustomer(ctx context.Context, customerID string, page PageParams) (*PageData[User], error) {
	return listPage[User](ctx, s, "getCustomerUsers", page, map[string]any{"customerId": customerID})
}

// Get retrieves a user by ID.
func (s UsersService) Get(ctx context.Context, id string) (*User, error) {
	return getByID[User](ctx, s, "getUserById", "userId", id)
}

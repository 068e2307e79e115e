package api

import "context"

// Dispatcher sends one fully built request and classifies the response.
//
// Services depend on this interface rather than on *Client so tests can
// substitute a recorder that never touches the network.
type Dispatcher interface {
	Dispatch(ctx context.Context, req *Request) (*Result, error)
}

// Invoker runs a named operation from the endpoint table.
type Invoker interface {
	Invoke(ctx context.Context, operation string, call Call) (*Result, error)
}

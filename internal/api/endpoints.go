package api

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// BodyMode says whether an endpoint takes a request body.
type BodyMode int

const (
	BodyNone BodyMode = iota
	BodyOptional
	BodyRequired
)

// Endpoint describes one REST operation. Path uses {name} for path
// parameters, which are always required, and may end with a {?a,b}
// list of query parameters.
type Endpoint struct {
	Operation string
	Tag       string
	Method    string
	Path      string
	// Required lists query and form parameters that must be supplied.
	Required []string
	// Form lists form fields in wire order.
	Form     []string
	Body     BodyMode
	Consumes string
	Summary  string

	path        string
	pathParams  []string
	queryParams []string
}

var (
	queryTemplate = regexp.MustCompile(`\{\?([^}]*)\}$`)
	pathTemplate  = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)
)

func (e *Endpoint) compile() {
	e.path = e.Path
	if m := queryTemplate.FindStringSubmatchIndex(e.Path); m != nil {
		e.path = e.Path[:m[0]]
		for _, name := range strings.Split(e.Path[m[2]:m[3]], ",") {
			if name = strings.TrimSpace(name); name != "" {
				e.queryParams = append(e.queryParams, name)
			}
		}
	}
	for _, m := range pathTemplate.FindAllStringSubmatch(e.path, -1) {
		e.pathParams = append(e.pathParams, m[1])
	}
}

// PathParams returns the names of the path placeholders.
func (e *Endpoint) PathParams() []string { return e.pathParams }

// QueryParams returns the declared query parameter names.
func (e *Endpoint) QueryParams() []string { return e.queryParams }

// RequiredParams lists every parameter Build checks, in check order.
func (e *Endpoint) RequiredParams() []string {
	out := append([]string{}, e.pathParams...)
	out = append(out, e.Required...)
	if e.Body == BodyRequired {
		out = append(out, "body")
	}
	return out
}

// Call carries the inputs of one Invoke. Params holds named endpoint
// parameters; Query is a free-form bag merged over the declared query
// parameters.
type Call struct {
	Params map[string]any
	Query  Query
	Body   any
	Header http.Header
}

func (c Call) param(name string) (any, bool) {
	v, ok := c.Params[name]
	return v, ok && v != nil
}

// Build validates call against the endpoint and produces the request.
// Nothing is sent; a missing parameter fails here.
func (e *Endpoint) Build(call Call) (*Request, error) {
	for _, name := range e.pathParams {
		if _, ok := call.param(name); !ok {
			return nil, &MissingParameterError{Name: name}
		}
	}
	for _, name := range e.Required {
		if _, ok := call.param(name); !ok {
			return nil, &MissingParameterError{Name: name}
		}
	}
	if e.Body == BodyRequired && call.Body == nil {
		return nil, &MissingParameterError{Name: "body"}
	}

	path := pathTemplate.ReplaceAllStringFunc(e.path, func(placeholder string) string {
		v, _ := call.param(placeholder[1 : len(placeholder)-1])
		return url.PathEscape(stringify(v))
	})

	var query Query
	for _, name := range e.queryParams {
		if v, ok := call.param(name); ok {
			if query == nil {
				query = Query{}
			}
			query[name] = v
		}
	}
	query = MergeQuery(query, call.Query)

	var form Form
	for _, name := range e.Form {
		if v, ok := call.param(name); ok {
			form.Add(name, v)
		}
	}

	header := http.Header{}
	header.Set("Accept", contentTypeJSON)
	if len(form) > 0 || (e.Body != BodyNone && call.Body != nil) {
		consumes := e.Consumes
		if consumes == "" {
			consumes = contentTypeJSON
		}
		header.Set("Content-Type", consumes)
	}
	for name, values := range call.Header {
		header[http.CanonicalHeaderKey(name)] = values
	}

	req := &Request{
		Method: e.Method,
		URL:    path,
		Header: header,
		Query:  query,
		Form:   form,
	}
	if e.Body != BodyNone {
		req.Body = call.Body
	}
	return req, nil
}

var endpointIndex = func() map[string]*Endpoint {
	index := make(map[string]*Endpoint, len(endpoints))
	for i := range endpoints {
		ep := &endpoints[i]
		ep.compile()
		index[ep.Operation] = ep
	}
	return index
}()

// Lookup finds an endpoint by operation name.
func Lookup(operation string) (*Endpoint, bool) {
	ep, ok := endpointIndex[operation]
	return ep, ok
}

// Operations returns every endpoint sorted by tag then operation.
func Operations() []*Endpoint {
	out := make([]*Endpoint, 0, len(endpointIndex))
	for _, ep := range endpointIndex {
		out = append(out, ep)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Tag != out[j].Tag {
			return out[i].Tag < out[j].Tag
		}
		return out[i].Operation < out[j].Operation
	})
	return out
}

// OperationNames returns the sorted operation names.
func OperationNames() []string {
	names := make([]string, 0, len(endpointIndex))
	for name := range endpointIndex {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke runs the named operation: parameters are checked, the request is
// built and dispatched. A missing required parameter returns a
// *MissingParameterError without any network call.
func (c *Client) Invoke(ctx context.Context, operation string, call Call) (*Result, error) {
	ep, ok := Lookup(operation)
	if !ok {
		return nil, &UnknownOperationError{Operation: operation}
	}
	req, err := ep.Build(call)
	if err != nil {
		return nil, err
	}
	return c.Dispatch(ctx, req)
}

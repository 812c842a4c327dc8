// Package contract loads the orders service OpenAPI document and resolves
// each operation to its HTTP method and path template.
package contract

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

// Operation ids every contract must define.
const (
	OpCreateOrder = "createOrder"
	OpUpdateOrder = "updateOrder"
	OpGetOrder    = "getOrder"
	OpDeleteOrder = "deleteOrder"
	OpCancelOrder = "cancelOrder"
	OpListOrders  = "listOrders"
)

// ErrOperationMissing reports a required operation id absent from a document.
var ErrOperationMissing = errors.New("contract: operation missing")

//go:embed orders.yaml
var defaultDocument []byte

// RequiredOperations lists the operation ids the client depends on.
func RequiredOperations() []string {
	return []string{OpCreateOrder, OpUpdateOrder, OpGetOrder, OpDeleteOrder, OpCancelOrder, OpListOrders}
}

// Route is the method and path template of one operation.
type Route struct {
	Method string
	Path   string
}

// Expand substitutes {name} segments with path-escaped values.
func (r Route) Expand(params map[string]string) string {
	path := r.Path
	for name, value := range params {
		path = strings.ReplaceAll(path, "{"+name+"}", url.PathEscape(value))
	}
	return path
}

func (r Route) String() string {
	return r.Method + " " + r.Path
}

// Contract is a validated route table keyed by operation id.
type Contract struct {
	title   string
	version string
	routes  map[string]Route
}

var (
	defaultOnce     sync.Once
	defaultContract *Contract
	defaultErr      error
)

// Default returns the embedded orders contract.
func Default() (*Contract, error) {
	defaultOnce.Do(func() {
		defaultContract, defaultErr = Load(context.Background(), defaultDocument)
	})
	return defaultContract, defaultErr
}

// DefaultDocument returns a copy of the embedded OpenAPI document.
func DefaultDocument() []byte {
	return append([]byte(nil), defaultDocument...)
}

// LoadFile reads a contract from disk. An empty path yields Default.
func LoadFile(ctx context.Context, path string) (*Contract, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("contract: read %q: %w", path, err)
	}
	return Load(ctx, raw)
}

// Load parses and validates an OpenAPI document and checks that every
// required operation is present.
func Load(ctx context.Context, raw []byte) (*Contract, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(raw) == 0 {
		return nil, errors.New("contract: document is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("contract: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("contract: validate document: %w", err)
	}

	routes := make(map[string]Route)
	if doc.Paths != nil {
		for path, item := range doc.Paths.Map() {
			if item == nil {
				continue
			}
			for method, op := range item.Operations() {
				if op == nil || op.OperationID == "" {
					continue
				}
				routes[op.OperationID] = Route{Method: strings.ToUpper(method), Path: path}
			}
		}
	}

	var missing []string
	for _, id := range RequiredOperations() {
		if _, ok := routes[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrOperationMissing, strings.Join(missing, ", "))
	}

	c := &Contract{routes: routes}
	if doc.Info != nil {
		c.title = doc.Info.Title
		c.version = doc.Info.Version
	}
	return c, nil
}

// Route returns the route for an operation id.
func (c *Contract) Route(operationID string) (Route, error) {
	if c == nil {
		return Route{}, errors.New("contract: contract is nil")
	}
	route, ok := c.routes[operationID]
	if !ok {
		return Route{}, fmt.Errorf("%w: %s", ErrOperationMissing, operationID)
	}
	return route, nil
}

// Routes returns a copy of the route table.
func (c *Contract) Routes() map[string]Route {
	out := make(map[string]Route, len(c.routes))
	for id, route := range c.routes {
		out[id] = route
	}
	return out
}

// OperationIDs returns the known operation ids in sorted order.
func (c *Contract) OperationIDs() []string {
	ids := make([]string, 0, len(c.routes))
	for id := range c.routes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (c *Contract) Title() string   { return c.title }
func (c *Contract) Version() string { return c.version }

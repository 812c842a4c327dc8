package contract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultRoutes(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("default contract: %v", err)
	}

	want := map[string]Route{
		OpCreateOrder: {Method: "POST", Path: "/orders/"},
		OpUpdateOrder: {Method: "PUT", Path: "/orders/{id}"},
		OpGetOrder:    {Method: "GET", Path: "/orders/{id}"},
		OpDeleteOrder: {Method: "DELETE", Path: "/orders/{id}"},
		OpCancelOrder: {Method: "PUT", Path: "/orders/{id}/cancel"},
		OpListOrders:  {Method: "GET", Path: "/orders"},
	}
	if diff := cmp.Diff(want, c.Routes()); diff != "" {
		t.Fatalf("route table mismatch (-want +got):\n%s", diff)
	}
	if c.Title() != "Orders service" {
		t.Fatalf("unexpected title %q", c.Title())
	}
}

func TestRouteExpand(t *testing.T) {
	route := Route{Method: "PUT", Path: "/orders/{id}/cancel"}
	if got := route.Expand(map[string]string{"id": "O 1/2"}); got != "/orders/O%201%2F2/cancel" {
		t.Fatalf("unexpected expansion %q", got)
	}
	if got := route.String(); got != "PUT /orders/{id}/cancel" {
		t.Fatalf("unexpected string %q", got)
	}
}

func TestLoad_MissingOperation(t *testing.T) {
	raw := strings.Replace(string(DefaultDocument()), "operationId: cancelOrder", "operationId: voidOrder", 1)

	_, err := Load(context.Background(), []byte(raw))
	if !errors.Is(err, ErrOperationMissing) {
		t.Fatalf("expected ErrOperationMissing, got %v", err)
	}
	if !strings.Contains(err.Error(), OpCancelOrder) {
		t.Fatalf("expected missing id in error, got %v", err)
	}
}

func TestLoad_RejectsInvalidDocuments(t *testing.T) {
	if _, err := Load(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty document")
	}
	if _, err := Load(context.Background(), []byte("openapi: [")); err == nil {
		t.Fatal("expected error for malformed document")
	}
}

func TestRoute_Unknown(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("default contract: %v", err)
	}
	if _, err := c.Route("archiveOrder"); !errors.Is(err, ErrOperationMissing) {
		t.Fatalf("expected ErrOperationMissing, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orders.yaml")
	raw := strings.ReplaceAll(string(DefaultDocument()), "/orders", "/api/v2/orders")
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write contract: %v", err)
	}

	c, err := LoadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	route, err := c.Route(OpGetOrder)
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if route.Path != "/api/v2/orders/{id}" {
		t.Fatalf("unexpected path %q", route.Path)
	}

	if _, err := LoadFile(context.Background(), filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}

	fallback, err := LoadFile(context.Background(), "")
	if err != nil {
		t.Fatalf("empty path: %v", err)
	}
	if fallback.OperationIDs()[0] != OpCancelOrder {
		t.Fatalf("unexpected ids %v", fallback.OperationIDs())
	}
}

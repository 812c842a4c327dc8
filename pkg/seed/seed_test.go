package seed

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-orderdesk/pkg/client"
	"github.com/goliatone/go-orderdesk/pkg/order"
	"github.com/goliatone/go-orderdesk/pkg/testsupport"
)

func TestLoadFile_YAML(t *testing.T) {
	rows, err := LoadFile("testdata/orders.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := []Row{
		{CustomerID: "C1", Status: "received", ProductID: "P1", Name: "Widget", Quantity: "3", Price: "9.99"},
		{CustomerID: "C2", Status: "Shipped", ProductID: "P2", Name: "Gadget", Quantity: "1", Price: "24.50"},
		{CustomerID: "C3", ProductID: "P3", Name: "Sprocket", Quantity: "12", Price: "0.75"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFile_JSON(t *testing.T) {
	rows, err := LoadFile("testdata/orders.json")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected two rows, got %d", len(rows))
	}
	if rows[0].Quantity != "3" || rows[1].Price != "24.50" {
		t.Fatalf("unexpected scalars %+v", rows)
	}
}

func TestParse_Rejects(t *testing.T) {
	for _, raw := range []string{"", "   ", "just a string", "orders: ["} {
		if _, err := Parse([]byte(raw)); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestRow_Order(t *testing.T) {
	got := Row{CustomerID: " C2 ", Status: "Shipped", ProductID: "P2", Name: "Gadget", Quantity: "1", Price: "24.50"}.Order()
	want := order.Order{
		CustomerID: "C2",
		Status:     order.StatusShipped,
		Items:      []order.LineItem{{ProductID: "P2", Name: "Gadget", Quantity: "1", Price: "24.50"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if (Row{}).Order().Status != order.DefaultStatus {
		t.Fatal("blank status must default")
	}
}

func TestRun_CreatesEveryRow(t *testing.T) {
	fake := testsupport.NewFakeService(testsupport.WithIDPrefix("O"))
	api, err := client.New(fake.Start(t).URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	rows, err := LoadFile("testdata/orders.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	report, err := Run(context.Background(), api, rows)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var ids []string
	for _, created := range report.Created {
		ids = append(ids, created.ID)
	}
	if diff := cmp.Diff([]string{"O1", "O2", "O3"}, ids); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	stored, ok := fake.Order("O3")
	if !ok || stored.Status != order.StatusReceived || stored.Items[0].Name != "Sprocket" {
		t.Fatalf("unexpected stored order %+v", stored)
	}
}

func TestRun_CollectsFailures(t *testing.T) {
	fake := testsupport.NewFakeService()
	api, err := client.New(fake.Start(t).URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	rows := []Row{
		{CustomerID: "C1"},
		{CustomerID: "C2", Status: "lost"},
		{CustomerID: "C3"},
	}

	report, err := Run(context.Background(), api, rows)
	if err == nil {
		t.Fatal("expected joined error")
	}
	if len(report.Created) != 2 || len(report.Failed) != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	failed := report.Failed[0]
	if failed.Index != 1 || !strings.Contains(failed.Error(), "row 2 (C2)") {
		t.Fatalf("unexpected row error %v", failed)
	}
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected APIError 400 in chain, got %v", err)
	}
}

func TestRun_StopOnError(t *testing.T) {
	fake := testsupport.NewFakeService()
	fake.FailNext(http.StatusServiceUnavailable, "maintenance")
	api, err := client.New(fake.Start(t).URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	report, err := Run(context.Background(), api, []Row{{CustomerID: "C1"}, {CustomerID: "C2"}}, WithStopOnError())
	if err == nil {
		t.Fatal("expected error")
	}
	if len(report.Created) != 0 || len(fake.Requests()) != 1 {
		t.Fatalf("expected a single attempted row, report %+v", report)
	}
}

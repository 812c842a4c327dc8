// Package testsupport hosts helpers shared by package tests: an in-memory
// orders service routed with chi and golden file utilities.
package testsupport

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-orderdesk/pkg/order"
)

// RecordedRequest is one request the fake service received.
type RecordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

type failure struct {
	status  int
	message string
}

// FakeOption configures a FakeService.
type FakeOption func(*FakeService)

// WithIDPrefix prefixes generated ids, e.g. "O" yields O1, O2.
func WithIDPrefix(prefix string) FakeOption {
	return func(f *FakeService) {
		f.idPrefix = prefix
	}
}

// WithOrderDate stamps created orders with a fixed order_date.
func WithOrderDate(date string) FakeOption {
	return func(f *FakeService) {
		f.orderDate = date
	}
}

// FakeService is an in-memory orders service speaking the same JSON shapes
// and error envelope as the real one.
type FakeService struct {
	mu        sync.Mutex
	orders    map[string]order.Order
	nextID    int
	idPrefix  string
	orderDate string
	requests  []RecordedRequest
	failures  []failure
	router    chi.Router
}

// NewFakeService builds an empty service.
func NewFakeService(options ...FakeOption) *FakeService {
	f := &FakeService{
		orders: make(map[string]order.Order),
		nextID: 1,
	}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}

	r := chi.NewRouter()
	r.Use(f.record)
	r.Post("/orders", f.create)
	r.Post("/orders/", f.create)
	r.Get("/orders", f.list)
	r.Get("/orders/{id}", f.get)
	r.Put("/orders/{id}", f.update)
	r.Delete("/orders/{id}", f.delete)
	r.Put("/orders/{id}/cancel", f.cancel)
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusNotFound, "The requested URL was not found on the server.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "The method is not allowed for the requested URL.")
	})
	f.router = r
	return f
}

// Handler exposes the chi router.
func (f *FakeService) Handler() http.Handler {
	return f.router
}

// Start serves the fake on an httptest server closed at test cleanup.
func (f *FakeService) Start(t testing.TB) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(f.router)
	t.Cleanup(server.Close)
	return server
}

// Seed stores orders directly, assigning ids to those without one.
func (f *FakeService) Seed(orders ...order.Order) []order.Order {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]order.Order, 0, len(orders))
	for _, record := range orders {
		if record.ID == "" {
			record.ID = f.allocateID()
		}
		if record.Status == "" {
			record.Status = order.DefaultStatus
		}
		f.orders[record.ID] = record
		out = append(out, record)
	}
	return out
}

// FailNext makes the next request answer with status and an error envelope
// carrying message. Calls queue in order.
func (f *FakeService) FailNext(status int, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = append(f.failures, failure{status: status, message: message})
}

// Requests returns the requests received so far.
func (f *FakeService) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

// Order returns a stored order.
func (f *FakeService) Order(id string) (order.Order, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.orders[id]
	return record, ok
}

// Orders returns every stored order sorted by id.
func (f *FakeService) Orders() []order.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sortedLocked()
}

func (f *FakeService) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		f.mu.Lock()
		f.requests = append(f.requests, RecordedRequest{
			Method:   r.Method,
			Path:     r.URL.EscapedPath(),
			RawQuery: r.URL.RawQuery,
			Header:   r.Header.Clone(),
			Body:     body,
		})
		var injected *failure
		if len(f.failures) > 0 {
			injected = &f.failures[0]
			f.failures = f.failures[1:]
		}
		f.mu.Unlock()

		if injected != nil {
			writeError(w, injected.status, injected.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeService) create(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	record, ok := decodeOrder(w, r)
	if !ok {
		return
	}

	f.mu.Lock()
	record.ID = f.allocateID()
	if record.OrderDate == "" {
		record.OrderDate = f.orderDate
	}
	f.orders[record.ID] = record
	f.mu.Unlock()

	writeJSON(w, http.StatusCreated, record)
}

func (f *FakeService) list(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	customer := r.URL.Query().Get("customer_id")

	f.mu.Lock()
	all := f.sortedLocked()
	f.mu.Unlock()

	matched := make([]order.Order, 0, len(all))
	for _, record := range all {
		if status != "" && string(record.Status) != status {
			continue
		}
		if customer != "" && record.CustomerID != customer {
			continue
		}
		matched = append(matched, record)
	}
	writeJSON(w, http.StatusOK, matched)
}

func (f *FakeService) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	record, ok := f.Order(id)
	if !ok {
		writeNotFound(w, id)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (f *FakeService) update(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	id := chi.URLParam(r, "id")
	record, ok := decodeOrder(w, r)
	if !ok {
		return
	}

	f.mu.Lock()
	existing, found := f.orders[id]
	if found {
		record.ID = id
		if record.OrderDate == "" {
			record.OrderDate = existing.OrderDate
		}
		f.orders[id] = record
	}
	f.mu.Unlock()

	if !found {
		writeNotFound(w, id)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (f *FakeService) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	f.mu.Lock()
	_, found := f.orders[id]
	delete(f.orders, id)
	f.mu.Unlock()

	if !found {
		writeNotFound(w, id)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (f *FakeService) cancel(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	id := chi.URLParam(r, "id")

	f.mu.Lock()
	record, found := f.orders[id]
	if found {
		record.Status = order.StatusCanceled
		f.orders[id] = record
	}
	f.mu.Unlock()

	if !found {
		writeNotFound(w, id)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (f *FakeService) allocateID() string {
	id := f.idPrefix + strconv.Itoa(f.nextID)
	f.nextID++
	return id
}

func (f *FakeService) sortedLocked() []order.Order {
	out := make([]order.Order, 0, len(f.orders))
	for _, record := range f.orders {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].ID) != len(out[j].ID) {
			return len(out[i].ID) < len(out[j].ID)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func decodeOrder(w http.ResponseWriter, r *http.Request) (order.Order, bool) {
	var record order.Order
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid Order: body could not be decoded: %v", err))
		return order.Order{}, false
	}
	if record.Status == "" {
		record.Status = order.DefaultStatus
	}
	if !record.Status.Known() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid Order: unknown status '%s'", record.Status))
		return order.Order{}, false
	}
	return record, true
}

func requireJSON(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("Content-Type") == "application/json" {
		return true
	}
	writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
	return false
}

func writeNotFound(w http.ResponseWriter, id string) {
	writeError(w, http.StatusNotFound, fmt.Sprintf("Order with id '%s' was not found.", id))
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"status":  status,
		"error":   http.StatusText(status),
		"message": message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

package dispatch_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-orderdesk/pkg/client"
	"github.com/goliatone/go-orderdesk/pkg/dispatch"
	"github.com/goliatone/go-orderdesk/pkg/form"
)

func containsID(t *testing.T, body []byte) bool {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	_, ok := payload["id"]
	return ok
}

// newRawDispatcher wires a dispatcher to a server that answers every request
// with the body registered for its path.
func newRawDispatcher(t *testing.T, state *form.State, bodies map[string]string) *dispatch.Dispatcher {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	api, err := client.New(server.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	d, err := dispatch.New(form.NewBinding(state), api)
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}
	return d
}

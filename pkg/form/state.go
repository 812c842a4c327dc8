package form

import (
	"net/url"
	"strings"
)

// State is an in-memory Fields implementation keyed by field name.
type State struct {
	values map[string]string
}

var _ Fields = (*State)(nil)

// NewState seeds the state with prefilled values.
func NewState(prefill map[string]string) *State {
	return &State{values: cloneValues(prefill)}
}

// StateFromValues builds a State from submitted form values, keeping the
// first value of every known field. Unknown names are ignored.
func StateFromValues(values url.Values) *State {
	state := NewState(nil)
	for _, name := range fieldNames {
		if raw, ok := values[name]; ok && len(raw) > 0 {
			state.values[name] = raw[0]
		}
	}
	return state
}

// Get returns the current value for name, or "" when unset.
func (s *State) Get(name string) string {
	if s == nil || s.values == nil {
		return ""
	}
	return s.values[strings.TrimSpace(name)]
}

// Set stores value under name.
func (s *State) Set(name, value string) {
	if s == nil {
		return
	}
	if s.values == nil {
		s.values = make(map[string]string)
	}
	s.values[strings.TrimSpace(name)] = value
}

// Values returns the current value map (mutable).
func (s *State) Values() map[string]string {
	if s == nil {
		return nil
	}
	return s.values
}

// Snapshot returns a copy of every bound field, unset fields included as
// empty strings.
func (s *State) Snapshot() map[string]string {
	out := make(map[string]string, len(fieldNames))
	for _, name := range fieldNames {
		out[name] = s.Get(name)
	}
	return out
}

func cloneValues(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[strings.TrimSpace(k)] = v
	}
	return out
}

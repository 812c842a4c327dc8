package order

import "strings"

// Status is the order lifecycle state as defined by the service. Values the
// client does not know are carried verbatim.
type Status string

const (
	StatusReceived   Status = "received"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCanceled   Status = "canceled"
)

// DefaultStatus is the status a cleared form starts with.
const DefaultStatus = StatusReceived

var knownStatuses = []Status{
	StatusReceived,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCanceled,
}

// KnownStatuses lists the statuses the service is known to emit, in
// lifecycle order.
func KnownStatuses() []Status {
	return append([]Status(nil), knownStatuses...)
}

// ParseStatus normalises operator input.
func ParseStatus(raw string) Status {
	return Status(strings.ToLower(strings.TrimSpace(raw)))
}

// Known reports whether s is one of KnownStatuses.
func (s Status) Known() bool {
	for _, known := range knownStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

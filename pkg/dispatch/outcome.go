package dispatch

import (
	"errors"
	"strings"

	"github.com/goliatone/go-orderdesk/pkg/order"
	"github.com/goliatone/go-orderdesk/pkg/results"
)

// Status messages shown to the operator.
const (
	MessageSuccess     = "Success"
	MessageDeleted     = "Order Deleted!"
	MessageCanceled    = "Order Canceled!"
	MessageIDRequired  = "Order ID is required to update!"
	MessageServerError = "Server error!"
)

// ErrOrderIDRequired is returned by Update when the id field is blank.
var ErrOrderIDRequired = errors.New("dispatch: order id is required to update")

// Operation names an operator action.
type Operation string

const (
	OpCreate   Operation = "create"
	OpUpdate   Operation = "update"
	OpRetrieve Operation = "retrieve"
	OpDelete   Operation = "delete"
	OpCancel   Operation = "cancel"
	OpSearch   Operation = "search"
	OpClear    Operation = "clear"
)

// Operations lists every action in the order the form presents them.
func Operations() []Operation {
	return []Operation{OpCreate, OpUpdate, OpRetrieve, OpDelete, OpCancel, OpSearch, OpClear}
}

// ParseOperation matches a case-insensitive action name.
func ParseOperation(raw string) (Operation, bool) {
	candidate := Operation(strings.ToLower(strings.TrimSpace(raw)))
	for _, op := range Operations() {
		if op == candidate {
			return op, true
		}
	}
	return "", false
}

// Outcome is the result of one dispatched action. Message is what the status
// sink received; Err is nil on success.
type Outcome struct {
	Operation Operation
	Message   string
	Order     order.Order
	Orders    []order.Order
	Table     *results.Table
	Err       error
}

// OK reports whether the action succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

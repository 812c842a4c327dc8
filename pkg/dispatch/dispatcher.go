// Package dispatch runs operator actions against the orders service and
// routes each outcome to the form, the status message or the results table.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-orderdesk/pkg/client"
	"github.com/goliatone/go-orderdesk/pkg/form"
	"github.com/goliatone/go-orderdesk/pkg/order"
	"github.com/goliatone/go-orderdesk/pkg/query"
	"github.com/goliatone/go-orderdesk/pkg/results"
)

// OrdersClient is the subset of *client.Client the dispatcher uses.
type OrdersClient interface {
	Create(ctx context.Context, payload order.Order) (order.Order, error)
	Update(ctx context.Context, id string, payload order.Order) (order.Order, error)
	Get(ctx context.Context, id string) (order.Order, error)
	Delete(ctx context.Context, id string) (string, error)
	Cancel(ctx context.Context, id string) (order.Order, error)
	List(ctx context.Context, rawQuery string) ([]order.Order, error)
}

var _ OrdersClient = (*client.Client)(nil)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithStatusSink routes status messages to sink.
func WithStatusSink(sink StatusSink) Option {
	return func(d *Dispatcher) {
		if sink != nil {
			d.status = sink
		}
	}
}

// WithResultsSink routes search tables to sink.
func WithResultsSink(sink ResultsSink) Option {
	return func(d *Dispatcher) {
		if sink != nil {
			d.results = sink
		}
	}
}

// WithQueryBuilder overrides the search query builder.
func WithQueryBuilder(builder *query.Builder) Option {
	return func(d *Dispatcher) {
		if builder != nil {
			d.queries = builder
		}
	}
}

// WithLogger attaches a zap logger; failures are logged at warn.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// Dispatcher issues one request per action. It holds no state of its own;
// the bound fields are the state.
type Dispatcher struct {
	binding *form.Binding
	client  OrdersClient
	status  StatusSink
	results ResultsSink
	queries *query.Builder
	logger  *zap.Logger
}

// New builds a dispatcher over binding and api.
func New(binding *form.Binding, api OrdersClient, options ...Option) (*Dispatcher, error) {
	if binding == nil {
		return nil, errors.New("dispatch: form binding is required")
	}
	if api == nil {
		return nil, errors.New("dispatch: orders client is required")
	}

	d := &Dispatcher{
		binding: binding,
		client:  api,
		status:  discardStatus{},
		results: discardResults{},
		queries: query.NewBuilder(),
		logger:  zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(d)
		}
	}
	return d, nil
}

// Binding returns the form binding the dispatcher reads and writes.
func (d *Dispatcher) Binding() *form.Binding {
	return d.binding
}

// Dispatch runs op. Search reads its filter from the form.
func (d *Dispatcher) Dispatch(ctx context.Context, op Operation) Outcome {
	switch op {
	case OpCreate:
		return d.Create(ctx)
	case OpUpdate:
		return d.Update(ctx)
	case OpRetrieve:
		return d.Retrieve(ctx)
	case OpDelete:
		return d.Delete(ctx)
	case OpCancel:
		return d.Cancel(ctx)
	case OpSearch:
		return d.Search(ctx, nil)
	case OpClear:
		return d.Clear()
	default:
		err := fmt.Errorf("dispatch: unknown operation %q", op)
		return d.finish(Outcome{Operation: op, Message: MessageServerError, Err: err})
	}
}

// Create posts the form payload without its id.
func (d *Dispatcher) Create(ctx context.Context) Outcome {
	payload := d.binding.CollectPayload()
	payload.ID = ""

	created, err := d.client.Create(ctx, payload)
	if err != nil {
		return d.fail(OpCreate, err, false)
	}
	d.binding.ApplyResponse(created)
	return d.finish(Outcome{Operation: OpCreate, Message: MessageSuccess, Order: created})
}

// Update replaces the order named by the id field. A blank id sends nothing.
func (d *Dispatcher) Update(ctx context.Context) Outcome {
	id := strings.TrimSpace(d.binding.CurrentOrderID())
	if id == "" {
		return d.finish(Outcome{Operation: OpUpdate, Message: MessageIDRequired, Err: ErrOrderIDRequired})
	}

	payload := d.binding.CollectPayload()
	payload.ID = id
	updated, err := d.client.Update(ctx, id, payload)
	if err != nil {
		return d.fail(OpUpdate, err, false)
	}
	d.binding.ApplyResponse(updated)
	return d.finish(Outcome{Operation: OpUpdate, Message: MessageSuccess, Order: updated})
}

// Retrieve loads the order named by the id field into the form.
func (d *Dispatcher) Retrieve(ctx context.Context) Outcome {
	found, err := d.client.Get(ctx, d.binding.CurrentOrderID())
	if err != nil {
		return d.fail(OpRetrieve, err, true)
	}
	d.binding.ApplyResponse(found)
	return d.finish(Outcome{Operation: OpRetrieve, Message: MessageSuccess, Order: found})
}

// Delete removes the order named by the id field and clears the form.
func (d *Dispatcher) Delete(ctx context.Context) Outcome {
	id, err := d.client.Delete(ctx, d.binding.CurrentOrderID())
	if err != nil {
		return d.fail(OpDelete, err, true)
	}
	d.binding.Clear()
	return d.finish(Outcome{Operation: OpDelete, Message: MessageDeleted, Order: order.Order{ID: id}})
}

// Cancel cancels the order named by the id field.
func (d *Dispatcher) Cancel(ctx context.Context) Outcome {
	canceled, err := d.client.Cancel(ctx, d.binding.CurrentOrderID())
	if err != nil {
		return d.fail(OpCancel, err, true)
	}
	d.binding.ApplyResponse(canceled)
	return d.finish(Outcome{Operation: OpCancel, Message: MessageCanceled, Order: canceled})
}

// Search lists orders matching filter and hands the table to the results
// sink. A nil filter is read from the form's status and customer fields.
func (d *Dispatcher) Search(ctx context.Context, filter query.Filter) Outcome {
	if filter == nil {
		filter = d.FormFilter()
	}

	orders, err := d.client.List(ctx, d.queries.Build(filter))
	if err != nil {
		return d.fail(OpSearch, err, false)
	}
	table := results.Build(orders)
	d.results.ShowResults(table)
	return d.finish(Outcome{Operation: OpSearch, Message: MessageSuccess, Orders: orders, Table: &table})
}

// Clear resets the form and empties the status message.
func (d *Dispatcher) Clear() Outcome {
	d.binding.Clear()
	return d.finish(Outcome{Operation: OpClear})
}

// FormFilter reads the search filter from the bound fields.
func (d *Dispatcher) FormFilter() query.Filter {
	fields := d.binding.Fields()
	return query.Filter{
		query.KeyStatus:     fields.Get(form.FieldStatus),
		query.KeyCustomerID: fields.Get(form.FieldCustomerID),
	}
}

func (d *Dispatcher) fail(op Operation, err error, clearForm bool) Outcome {
	if clearForm {
		d.binding.Clear()
	}
	d.logger.Warn("order action failed",
		zap.String("operation", string(op)),
		zap.Error(err),
	)
	return d.finish(Outcome{Operation: op, Message: FailureMessage(err), Err: err})
}

func (d *Dispatcher) finish(outcome Outcome) Outcome {
	d.status.SetStatus(outcome.Message)
	return outcome
}

// FailureMessage returns the service's message for err, or the generic
// notice when there is none.
func FailureMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return MessageServerError
}

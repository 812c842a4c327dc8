// Package seed creates orders from a fixture table, the same rows the
// acceptance scenarios start from.
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-orderdesk/pkg/order"
)

// Row is one fixture line. JSON documents decode through the same YAML
// parser.
type Row struct {
	CustomerID string `yaml:"customer_id"`
	Status     string `yaml:"status"`
	ProductID  string `yaml:"product_id"`
	Name       string `yaml:"name"`
	Quantity   string `yaml:"quantity"`
	Price      string `yaml:"price"`
}

// Order converts the row into a create payload. A blank status becomes
// order.DefaultStatus.
func (r Row) Order() order.Order {
	status := order.ParseStatus(r.Status)
	if status == "" {
		status = order.DefaultStatus
	}
	return order.Order{
		CustomerID: strings.TrimSpace(r.CustomerID),
		Status:     status,
		Items: []order.LineItem{
			{
				ProductID: strings.TrimSpace(r.ProductID),
				Name:      strings.TrimSpace(r.Name),
				Quantity:  strings.TrimSpace(r.Quantity),
				Price:     strings.TrimSpace(r.Price),
			},
		},
	}
}

type document struct {
	Orders []Row `yaml:"orders"`
}

// Parse reads a fixture. Both a bare list of rows and a mapping with an
// "orders" list are accepted.
func Parse(raw []byte) ([]Row, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("seed: fixture is empty")
	}

	var node yaml.Node
	if err := yaml.Unmarshal(trimmed, &node); err != nil {
		return nil, fmt.Errorf("seed: parse fixture: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, errors.New("seed: fixture is empty")
	}

	root := node.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var rows []Row
		if err := root.Decode(&rows); err != nil {
			return nil, fmt.Errorf("seed: decode rows: %w", err)
		}
		return rows, nil
	case yaml.MappingNode:
		var doc document
		if err := root.Decode(&doc); err != nil {
			return nil, fmt.Errorf("seed: decode rows: %w", err)
		}
		return doc.Orders, nil
	default:
		return nil, errors.New("seed: fixture must be a list of rows or a mapping with an orders list")
	}
}

// Load reads and parses a fixture from r.
func Load(r io.Reader) ([]Row, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("seed: read fixture: %w", err)
	}
	return Parse(raw)
}

// LoadFile reads and parses a fixture file (.yaml, .yml or .json).
func LoadFile(path string) ([]Row, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: read %q: %w", path, err)
	}
	return Parse(raw)
}

// Creator creates one order; *client.Client satisfies it.
type Creator interface {
	Create(ctx context.Context, payload order.Order) (order.Order, error)
}

// RowError ties a failed row to its position in the fixture.
type RowError struct {
	Index int
	Row   Row
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("seed: row %d (%s): %v", e.Index+1, e.Row.CustomerID, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Report lists the orders the service created, in fixture order.
type Report struct {
	Created []order.Order
	Failed  []*RowError
}

// Option configures Run.
type Option func(*runner)

// WithLogger logs each created order at info.
func WithLogger(logger *zap.Logger) Option {
	return func(r *runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithStopOnError aborts at the first failed row.
func WithStopOnError() Option {
	return func(r *runner) {
		r.stopOnError = true
	}
}

type runner struct {
	logger      *zap.Logger
	stopOnError bool
}

// Run creates every row through creator. Failed rows are collected and
// returned joined; the report always lists what succeeded.
func Run(ctx context.Context, creator Creator, rows []Row, options ...Option) (Report, error) {
	if creator == nil {
		return Report{}, errors.New("seed: creator is required")
	}
	cfg := runner{logger: zap.NewNop()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	var (
		report Report
		errs   []error
	)
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		created, err := creator.Create(ctx, row.Order())
		if err != nil {
			rowErr := &RowError{Index: i, Row: row, Err: err}
			report.Failed = append(report.Failed, rowErr)
			errs = append(errs, rowErr)
			cfg.logger.Warn("seed row failed", zap.Int("row", i+1), zap.Error(err))
			if cfg.stopOnError {
				break
			}
			continue
		}
		report.Created = append(report.Created, created)
		cfg.logger.Info("seeded order",
			zap.String("id", created.ID),
			zap.String("customer_id", created.CustomerID),
		)
	}
	return report, errors.Join(errs...)
}

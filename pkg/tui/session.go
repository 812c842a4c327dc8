// Package tui drives the order form from a terminal: the operator picks an
// action, fills the fields it needs and reads the status message and results
// table after each round trip.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-orderdesk/pkg/dispatch"
	"github.com/goliatone/go-orderdesk/pkg/form"
	"github.com/goliatone/go-orderdesk/pkg/order"
	"github.com/goliatone/go-orderdesk/pkg/render"
	"github.com/goliatone/go-orderdesk/pkg/renderers/text"
)

const (
	actionQuit = "Quit"
	anyStatus  = "(any)"
)

type menuEntry struct {
	label string
	op    dispatch.Operation
}

var menu = []menuEntry{
	{"Create", dispatch.OpCreate},
	{"Update", dispatch.OpUpdate},
	{"Retrieve", dispatch.OpRetrieve},
	{"Delete", dispatch.OpDelete},
	{"Cancel", dispatch.OpCancel},
	{"Search", dispatch.OpSearch},
	{"Clear", dispatch.OpClear},
}

var fieldLabels = []struct {
	name  string
	label string
}{
	{form.FieldOrderID, "Order ID"},
	{form.FieldCustomerID, "Customer ID"},
	{form.FieldOrderDate, "Order Date"},
	{form.FieldStatus, "Status"},
	{form.FieldProductID, "Product ID"},
	{form.FieldItemName, "Name"},
	{form.FieldItemQty, "Quantity"},
	{form.FieldItemPrice, "Price"},
}

// Session is an interactive loop over a dispatcher.
type Session struct {
	dispatcher *dispatch.Dispatcher
	driver     PromptDriver
	renderer   render.Renderer
	theme      Theme
	logger     *zap.Logger
}

// New builds a session. The survey driver and the text renderer are used
// unless overridden.
func New(dispatcher *dispatch.Dispatcher, options ...Option) (*Session, error) {
	if dispatcher == nil {
		return nil, errors.New("tui: dispatcher is required")
	}
	s := &Session{
		dispatcher: dispatcher,
		logger:     zap.NewNop(),
		theme:      Theme{ErrorPrefix: "! "},
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	if s.renderer == nil {
		s.renderer = text.New()
	}
	return s, nil
}

// Run loops until the operator quits or aborts. Service failures are shown
// and the loop continues; only prompt and context errors end it.
func (s *Session) Run(ctx context.Context) error {
	for {
		op, quit, err := s.chooseAction(ctx)
		if err != nil {
			return s.exit(err)
		}
		if quit {
			return nil
		}
		if err := s.Step(ctx, op); err != nil {
			return s.exit(err)
		}
	}
}

// Step prompts for the fields op reads, dispatches it and prints the result.
func (s *Session) Step(ctx context.Context, op dispatch.Operation) error {
	if err := s.collect(ctx, op); err != nil {
		return err
	}

	outcome := s.dispatcher.Dispatch(ctx, op)
	s.logger.Debug("action dispatched",
		zap.String("operation", string(op)),
		zap.Bool("ok", outcome.OK()),
	)
	return s.show(ctx, outcome)
}

func (s *Session) exit(err error) error {
	if errors.Is(err, ErrAborted) {
		return nil
	}
	return err
}

func (s *Session) chooseAction(ctx context.Context) (dispatch.Operation, bool, error) {
	options := make([]string, 0, len(menu)+1)
	for _, entry := range menu {
		options = append(options, entry.label)
	}
	options = append(options, actionQuit)

	idx, err := s.driver.Select(ctx, SelectConfig{
		Message:  s.theme.PromptPrefix + "Action",
		Options:  options,
		PageSize: len(options),
	})
	if err != nil {
		return "", false, err
	}
	if idx < 0 || idx >= len(options) {
		return "", false, ErrNoSelection
	}
	if idx == len(menu) {
		return "", true, nil
	}
	return menu[idx].op, false, nil
}

func (s *Session) collect(ctx context.Context, op dispatch.Operation) error {
	switch op {
	case dispatch.OpCreate:
		return s.promptOrder(ctx)
	case dispatch.OpUpdate:
		if err := s.promptField(ctx, form.FieldOrderID, "Order ID"); err != nil {
			return err
		}
		return s.promptOrder(ctx)
	case dispatch.OpRetrieve, dispatch.OpDelete, dispatch.OpCancel:
		return s.promptField(ctx, form.FieldOrderID, "Order ID")
	case dispatch.OpSearch:
		if err := s.promptStatus(ctx, true); err != nil {
			return err
		}
		return s.promptField(ctx, form.FieldCustomerID, "Customer ID")
	default:
		return nil
	}
}

func (s *Session) promptOrder(ctx context.Context) error {
	if err := s.promptField(ctx, form.FieldCustomerID, "Customer ID"); err != nil {
		return err
	}
	if err := s.promptStatus(ctx, false); err != nil {
		return err
	}
	for _, field := range []struct{ name, label string }{
		{form.FieldProductID, "Product ID"},
		{form.FieldItemName, "Name"},
		{form.FieldItemQty, "Quantity"},
		{form.FieldItemPrice, "Price"},
	} {
		if err := s.promptField(ctx, field.name, field.label); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) promptField(ctx context.Context, name, label string) error {
	fields := s.dispatcher.Binding().Fields()
	value, err := s.driver.Input(ctx, InputConfig{
		Message: s.theme.PromptPrefix + label,
		Default: fields.Get(name),
	})
	if err != nil {
		return err
	}
	fields.Set(name, value)
	return nil
}

// promptStatus selects from the known statuses. A current value outside the
// list is offered as-is so it can be kept.
func (s *Session) promptStatus(ctx context.Context, allowAny bool) error {
	fields := s.dispatcher.Binding().Fields()
	current := fields.Get(form.FieldStatus)

	var options []string
	if allowAny {
		options = append(options, anyStatus)
	}
	for _, status := range order.KnownStatuses() {
		options = append(options, status.String())
	}
	if current != "" && !order.Status(current).Known() {
		options = append(options, current)
	}

	defaultIndex := 0
	if current != "" {
		defaultIndex = indexOf(options, current)
	} else if !allowAny {
		defaultIndex = indexOf(options, order.DefaultStatus.String())
	}

	idx, err := s.driver.Select(ctx, SelectConfig{
		Message:      s.theme.PromptPrefix + "Status",
		Options:      options,
		DefaultIndex: defaultIndex,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(options) {
		return ErrNoSelection
	}

	value := options[idx]
	if value == anyStatus {
		value = ""
	}
	fields.Set(form.FieldStatus, value)
	return nil
}

func (s *Session) show(ctx context.Context, outcome dispatch.Outcome) error {
	if outcome.Message != "" {
		prefix := s.theme.InfoPrefix
		if !outcome.OK() {
			prefix = s.theme.ErrorPrefix
		}
		if err := s.driver.Info(ctx, prefix+outcome.Message); err != nil {
			return err
		}
	}
	if !outcome.OK() {
		return nil
	}

	switch outcome.Operation {
	case dispatch.OpSearch:
		if outcome.Table == nil {
			return nil
		}
		out, err := s.renderer.Render(ctx, *outcome.Table)
		if err != nil {
			return fmt.Errorf("tui: render results: %w", err)
		}
		return s.driver.Info(ctx, strings.TrimRight(string(out), "\n"))
	case dispatch.OpCreate, dispatch.OpUpdate, dispatch.OpRetrieve, dispatch.OpCancel:
		return s.driver.Info(ctx, s.summary())
	default:
		return nil
	}
}

func (s *Session) summary() string {
	fields := s.dispatcher.Binding().Fields()
	lines := make([]string, 0, len(fieldLabels))
	for _, field := range fieldLabels {
		line := fmt.Sprintf("%-12s %s", field.label+":", fields.Get(field.name))
		lines = append(lines, strings.TrimRight(line, " "))
	}
	return strings.Join(lines, "\n")
}

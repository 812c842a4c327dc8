package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-orderdesk/pkg/client"
	"github.com/goliatone/go-orderdesk/pkg/dispatch"
	"github.com/goliatone/go-orderdesk/pkg/form"
	"github.com/goliatone/go-orderdesk/pkg/testsupport"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	selectErr    error
	infoMessages []string
	selects      []SelectConfig
	inputPos     int
	selectPos    int
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selects = append(s.selects, cfg)
	if s.selectErr != nil {
		return -1, s.selectErr
	}
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

const (
	menuCreate   = 0
	menuUpdate   = 1
	menuRetrieve = 2
	menuSearch   = 5
	menuQuit     = 7
)

func newSession(t *testing.T, driver *stubDriver) (*Session, *form.State) {
	t.Helper()
	fake := testsupport.NewFakeService()
	api, err := client.New(fake.Start(t).URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	state := form.NewState(nil)
	binding := form.NewBinding(state)
	binding.Clear()
	d, err := dispatch.New(binding, api)
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}
	s, err := New(d, WithPromptDriver(driver), WithTheme(Theme{ErrorPrefix: "! "}))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s, state
}

func TestRun_CreateSearchAndRejectedUpdate(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{
			menuCreate, 0,
			menuSearch, 0,
			menuUpdate, 0,
			menuQuit,
		},
		inputs: []string{
			"C1", "P1", "Widget", "3", "9.99",
			"C1",
			"", "C1", "P1", "Widget", "3", "9.99",
		},
	}
	s, state := newSession(t, driver)

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(driver.infoMessages) != 5 {
		t.Fatalf("expected 5 messages, got %d: %q", len(driver.infoMessages), driver.infoMessages)
	}
	if driver.infoMessages[0] != dispatch.MessageSuccess {
		t.Fatalf("unexpected create status %q", driver.infoMessages[0])
	}
	summary := driver.infoMessages[1]
	for _, line := range []string{"Order ID:    1", "Customer ID: C1", "Status:      received", "Name:        Widget", "Price:       9.99"} {
		if !strings.Contains(summary, line) {
			t.Fatalf("summary missing %q:\n%s", line, summary)
		}
	}
	if driver.infoMessages[2] != dispatch.MessageSuccess {
		t.Fatalf("unexpected search status %q", driver.infoMessages[2])
	}
	if table := driver.infoMessages[3]; !strings.HasPrefix(table, "ID") || !strings.Contains(table, "Widget") {
		t.Fatalf("unexpected results table:\n%s", table)
	}
	if got := driver.infoMessages[4]; got != "! "+dispatch.MessageIDRequired {
		t.Fatalf("unexpected update status %q", got)
	}
	if state.Get(form.FieldOrderID) != "" {
		t.Fatalf("expected blank id after rejected update, got %q", state.Get(form.FieldOrderID))
	}
}

func TestRun_StatusPromptOptions(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{menuCreate, 2, menuSearch, 0, menuQuit},
		inputs:    []string{"C1", "P1", "Widget", "3", "9.99", ""},
	}
	s, _ := newSession(t, driver)

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	createStatus := driver.selects[1]
	want := []string{"received", "processing", "shipped", "delivered", "canceled"}
	if diff := cmp.Diff(want, createStatus.Options); diff != "" {
		t.Fatalf("create status options mismatch (-want +got):\n%s", diff)
	}
	if createStatus.DefaultIndex != 0 {
		t.Fatalf("expected received preselected, got %d", createStatus.DefaultIndex)
	}

	searchStatus := driver.selects[3]
	if searchStatus.Options[0] != anyStatus {
		t.Fatalf("expected any option first, got %q", searchStatus.Options)
	}
	if searchStatus.Options[searchStatus.DefaultIndex] != "shipped" {
		t.Fatalf("expected current status preselected, got %q", searchStatus.Options[searchStatus.DefaultIndex])
	}
}

func TestRun_FailureContinuesSession(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{menuRetrieve, menuQuit},
		inputs:    []string{"9"},
	}
	s, state := newSession(t, driver)

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []string{"! Order with id '9' was not found."}
	if diff := cmp.Diff(want, driver.infoMessages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
	if state.Get(form.FieldOrderID) != "" {
		t.Fatal("expected form cleared after failed retrieve")
	}
}

func TestRun_AbortEndsQuietly(t *testing.T) {
	driver := &stubDriver{selectErr: ErrAborted}
	s, _ := newSession(t, driver)

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("expected nil on abort, got %v", err)
	}
}

func TestRun_DriverErrorPropagates(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{menuCreate}}
	s, _ := newSession(t, driver)

	if err := s.Run(context.Background()); err == nil {
		t.Fatal("expected error when prompts run out")
	}
}

func TestNew_RequiresDispatcher(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected error")
	}
}

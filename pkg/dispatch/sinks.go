package dispatch

import "github.com/goliatone/go-orderdesk/pkg/results"

// StatusSink receives the single-slot status message.
type StatusSink interface {
	SetStatus(message string)
}

// ResultsSink receives the search results table.
type ResultsSink interface {
	ShowResults(table results.Table)
}

// StatusFunc adapts a function to StatusSink.
type StatusFunc func(message string)

func (f StatusFunc) SetStatus(message string) {
	f(message)
}

// ResultsFunc adapts a function to ResultsSink.
type ResultsFunc func(table results.Table)

func (f ResultsFunc) ShowResults(table results.Table) {
	f(table)
}

type discardStatus struct{}

func (discardStatus) SetStatus(string) {}

type discardResults struct{}

func (discardResults) ShowResults(results.Table) {}

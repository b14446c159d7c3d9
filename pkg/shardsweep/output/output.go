// Package output provides formatters for displaying sweep results
// in various output formats (text, pretty, json, yaml, etc.).
//
// The package uses a registry pattern to allow registration of multiple
// formatter implementations that can be selected at runtime.
//
// Basic usage:
//
//	formatter, err := output.Get("text")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	var buf bytes.Buffer
//	if err := formatter.Format(&buf, report); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(buf.String())
package output

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/jamesainslie/shardsweep/pkg/shardsweep/calc"
)

// Report contains the complete output data for formatting.
type Report struct {
	// Input holds the sweep parameters.
	Input calc.Input

	// Results holds one result per shard size, in input order.
	Results calc.Results

	// MaxError is the error target used to pick Best. Zero disables it.
	MaxError float64

	// Best is the highest-throughput result within MaxError, if any.
	Best *calc.Result

	// BestIndex is Best's position in Results, or -1.
	BestIndex int

	// PlotPath is where the chart was written. Empty when no chart was rendered.
	PlotPath string

	// RunID identifies the run in the history store. Empty when history is disabled.
	RunID string

	// GeneratedAt is when the sweep was computed.
	GeneratedAt time.Time
}

// NewReport builds a report and resolves the best result for maxError.
func NewReport(in calc.Input, results calc.Results, maxError float64) *Report {
	r := &Report{
		Input:       in,
		Results:     results,
		MaxError:    maxError,
		BestIndex:   results.BestIndexWithin(maxError),
		GeneratedAt: time.Now(),
	}
	if r.BestIndex >= 0 {
		best := results[r.BestIndex]
		r.Best = &best
	}
	return r
}

// IsBest reports whether the result at index i is the report's best result.
func (r *Report) IsBest(i int) bool {
	return r.Best != nil && i == r.BestIndex
}

// Formatter is the interface that all output formatters must implement.
type Formatter interface {
	// Format writes the formatted output to the buffer.
	Format(w *bytes.Buffer, r *Report) error
}

// FormatterFactory is a function that creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]FormatterFactory),
	}
}

// Register adds a formatter factory to the registry.
// It will replace any existing formatter with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown formatter: %s", name)
	}
	return factory(), nil
}

// Available returns a sorted list of all registered formatter names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}

// FormatError renders an error probability in two-digit scientific notation.
func FormatError(p float64) string {
	return fmt.Sprintf("%.2e", p)
}

// FormatNumber renders a value with the fewest digits that represent it
// exactly, so 120.0 renders as "120".
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

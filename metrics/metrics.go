// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics provides package level meters, which are no-ops until
// Enable is called.
package metrics

import (
	"io"
	"sync"
	"time"
)

// Labels maps label names to values.
type Labels = map[string]string

// Counter only goes up.
type Counter interface {
	Add(int64)
}

// CounterVec is a counter partitioned by labels.
type CounterVec interface {
	AddWithLabel(int64, Labels)
}

// Gauge is a value that goes up and down.
type Gauge interface {
	Add(int64)
	Set(int64)
}

// Histogram samples observations into buckets.
type Histogram interface {
	Observe(int64)
}

// DurationBuckets are histogram buckets for durations in milliseconds.
var DurationBuckets = []int64{0, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10_000}

type registry interface {
	counter(name string) Counter
	counterVec(name string, labels []string) CounterVec
	gauge(name string) Gauge
	histogram(name string, buckets []int64) Histogram
	writeTo(w io.Writer) error
}

var (
	mu     sync.RWMutex
	active registry = noopRegistry{}
)

func current() registry {
	mu.RLock()
	defer mu.RUnlock()
	return active
}

// Enable switches to prometheus backed meters. Meters created before
// remain no-ops. Calling it again has no effect.
func Enable() {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := active.(*promRegistry); !ok {
		active = newPromRegistry()
	}
}

// Enabled returns whether Enable has been called.
func Enabled() bool {
	_, ok := current().(*promRegistry)
	return ok
}

// WriteTo writes the gathered metrics in text exposition format.
// Nothing is written unless enabled.
func WriteTo(w io.Writer) error {
	return current().writeTo(w)
}

func NewCounter(name string) Counter { return current().counter(name) }

func NewCounterVec(name string, labels []string) CounterVec {
	return current().counterVec(name, labels)
}

func NewGauge(name string) Gauge { return current().gauge(name) }

func NewHistogram(name string, buckets []int64) Histogram {
	return current().histogram(name, buckets)
}

// Lazy defers creating a meter to its first use, so that package level
// meters are created from the registry enabled at startup.
func Lazy[T any](create func() T) func() T {
	return sync.OnceValue(create)
}

func LazyCounter(name string) func() Counter {
	return Lazy(func() Counter { return NewCounter(name) })
}

func LazyCounterVec(name string, labels []string) func() CounterVec {
	return Lazy(func() CounterVec { return NewCounterVec(name, labels) })
}

func LazyGauge(name string) func() Gauge {
	return Lazy(func() Gauge { return NewGauge(name) })
}

func LazyHistogram(name string, buckets []int64) func() Histogram {
	return Lazy(func() Histogram { return NewHistogram(name, buckets) })
}

// ObserveSince observes the milliseconds elapsed since start.
func ObserveSince(h Histogram, start time.Time) {
	h.Observe(time.Since(start).Milliseconds())
}

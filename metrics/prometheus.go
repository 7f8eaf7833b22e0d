// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"io"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/common/expfmt"

	"github.com/vechain/worldstate/log"
)

const namespace = "worldstate"

var logger = log.WithContext("pkg", "metrics")

// promRegistry creates meters on its own prometheus registry, along with
// the go runtime and process collectors.
type promRegistry struct {
	reg    *prometheus.Registry
	meters sync.Map // name => meter
}

func newPromRegistry() *promRegistry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &promRegistry{reg: reg}
}

// load returns the meter of the given name, creating it if absent.
func (r *promRegistry) load(name string, create func() (prometheus.Collector, any)) any {
	if m, ok := r.meters.Load(name); ok {
		return m
	}
	c, m := create()
	actual, loaded := r.meters.LoadOrStore(name, m)
	if !loaded {
		if err := r.reg.Register(c); err != nil {
			logger.Warn("unable to register metric", "name", name, "err", err)
		}
	}
	return actual
}

func (r *promRegistry) counter(name string) Counter {
	return r.load(name, func() (prometheus.Collector, any) {
		c := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name})
		return c, promCounter{c}
	}).(Counter)
}

func (r *promRegistry) counterVec(name string, labels []string) CounterVec {
	return r.load(name, func() (prometheus.Collector, any) {
		c := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name}, labels)
		return c, promCounterVec{c}
	}).(CounterVec)
}

func (r *promRegistry) gauge(name string) Gauge {
	return r.load(name, func() (prometheus.Collector, any) {
		g := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name})
		return g, promGauge{g}
	}).(Gauge)
}

func (r *promRegistry) histogram(name string, buckets []int64) Histogram {
	return r.load(name, func() (prometheus.Collector, any) {
		floatBuckets := make([]float64, 0, len(buckets))
		for _, b := range buckets {
			floatBuckets = append(floatBuckets, float64(b))
		}
		h := prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Buckets:   floatBuckets,
		})
		return h, promHistogram{h}
	}).(Histogram)
}

func (r *promRegistry) writeTo(w io.Writer) error {
	families, err := r.reg.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}

type promCounter struct{ c prometheus.Counter }

func (m promCounter) Add(i int64) { m.c.Add(float64(i)) }

type promCounterVec struct{ c *prometheus.CounterVec }

func (m promCounterVec) AddWithLabel(i int64, labels Labels) { m.c.With(labels).Add(float64(i)) }

type promGauge struct{ g prometheus.Gauge }

func (m promGauge) Add(i int64) { m.g.Add(float64(i)) }
func (m promGauge) Set(i int64) { m.g.Set(float64(i)) }

type promHistogram struct{ h prometheus.Histogram }

func (m promHistogram) Observe(i int64) { m.h.Observe(float64(i)) }

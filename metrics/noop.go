// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import "io"

type noopRegistry struct{}

func (noopRegistry) counter(string) Counter                 { return noopMeter{} }
func (noopRegistry) counterVec(string, []string) CounterVec { return noopMeter{} }
func (noopRegistry) gauge(string) Gauge                     { return noopMeter{} }
func (noopRegistry) histogram(string, []int64) Histogram    { return noopMeter{} }
func (noopRegistry) writeTo(io.Writer) error                { return nil }

type noopMeter struct{}

func (noopMeter) Add(int64)                  {}
func (noopMeter) AddWithLabel(int64, Labels) {}
func (noopMeter) Set(int64)                  {}
func (noopMeter) Observe(int64)              {}

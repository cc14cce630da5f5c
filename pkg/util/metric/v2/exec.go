// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package v2

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ExecBatchCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "polystore",
			Subsystem: "exec",
			Name:      "batch_total",
			Help:      "Total number of batches consumed by sink executors.",
		}, []string{"executor"})
	GroupExecBatchCounter       = ExecBatchCounter.WithLabelValues("group")
	AggregationExecBatchCounter = ExecBatchCounter.WithLabelValues("aggregation")
	MergeOrderExecBatchCounter  = ExecBatchCounter.WithLabelValues("mergeorder")

	ExecRowCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "polystore",
			Subsystem: "exec",
			Name:      "row_total",
			Help:      "Total number of rows consumed by sink executors.",
		}, []string{"executor"})
	GroupExecRowCounter       = ExecRowCounter.WithLabelValues("group")
	AggregationExecRowCounter = ExecRowCounter.WithLabelValues("aggregation")
	MergeOrderExecRowCounter  = ExecRowCounter.WithLabelValues("mergeorder")

	GroupBuiltCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "polystore",
			Subsystem: "exec",
			Name:      "group_built_total",
			Help:      "Total number of distinct groups built.",
		})

	GroupFlushCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "polystore",
			Subsystem: "exec",
			Name:      "group_flush_total",
			Help:      "Total number of group buffers folded into accumulator states.",
		})

	FilterSelectivityHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "polystore",
			Subsystem: "exec",
			Name:      "filter_selectivity",
			Help:      "Bucketed histogram of the share of rows kept by a restrict operator.",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		})
)

func initExecMetrics() {
	registry.MustRegister(ExecBatchCounter)
	registry.MustRegister(ExecRowCounter)
	registry.MustRegister(GroupBuiltCounter)
	registry.MustRegister(GroupFlushCounter)
	registry.MustRegister(FilterSelectivityHistogram)
}

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
	PipelineDurationHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "polystore",
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Bucketed histogram of pipeline run duration.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2.0, 20),
		})

	PipelineCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "polystore",
			Subsystem: "pipeline",
			Name:      "run_total",
			Help:      "Total number of pipeline runs.",
		}, []string{"type"})
	PipelineSucceedCounter = PipelineCounter.WithLabelValues("succeed")
	PipelineFailedCounter  = PipelineCounter.WithLabelValues("failed")
)

func initPipelineMetrics() {
	registry.MustRegister(PipelineDurationHistogram)
	registry.MustRegister(PipelineCounter)
}

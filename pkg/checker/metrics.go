// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package checker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	checkDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "datachecker_check_duration_seconds",
			Help:    "Time taken to iterate all files for one check",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		},
		[]string{"check"},
	)

	filesChecked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datachecker_files_checked_total",
			Help: "Total number of files processed by checks",
		},
		[]string{"check"},
	)

	findings = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "datachecker_check_findings",
			Help: "Number of top level report entries of the last run of a check",
		},
		[]string{"check"},
	)
)

func recordFindings(check string, n int) {
	findings.WithLabelValues(check).Set(float64(n))
}

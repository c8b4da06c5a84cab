/*
Copyright 2020 GramLabs, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package metric exposes Prometheus metrics describing experiment runs so they
// can be exported next to the results as a node exporter textfile.
package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tarslab/tarsctl/internal/experiment"
)

const namespace = "tars"

// Collector records driver events and run results into a private registry.
type Collector struct {
	registry *prometheus.Registry

	phases        *prometheus.CounterVec
	phaseDuration *prometheus.HistogramVec
	interactions  prometheus.Gauge
	users         prometheus.Gauge
	items         prometheus.Gauge
	runDuration   prometheus.Gauge
	score         *prometheus.GaugeVec
	bestScore     *prometheus.GaugeVec
	trials        *prometheus.CounterVec
}

// NewCollector returns a collector whose metrics are labeled with the experiment and dataset.
func NewCollector(experimentName, datasetID string) *Collector {
	labels := prometheus.Labels{"experiment": experimentName, "dataset": datasetID}
	c := &Collector{
		registry: prometheus.NewRegistry(),
		phases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "phases_total",
			Help:        "Number of completed driver phases.",
			ConstLabels: labels,
		}, []string{"phase", "result"}),
		phaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "phase_duration_seconds",
			Help:        "Time spent in each driver phase.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.01, 4, 10),
		}, []string{"phase"}),
		interactions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "dataset_interactions",
			Help:        "Number of interactions after filtering.",
			ConstLabels: labels,
		}),
		users: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "dataset_users",
			Help:        "Number of distinct users after filtering.",
			ConstLabels: labels,
		}),
		items: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "dataset_items",
			Help:        "Number of distinct items after filtering.",
			ConstLabels: labels,
		}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "run_duration_seconds",
			Help:        "Wall clock duration of the run.",
			ConstLabels: labels,
		}),
		score: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "metric_value",
			Help:        "Evaluation metric value of an algorithm on the test data.",
			ConstLabels: labels,
		}, []string{"algorithm", "metric"}),
		bestScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "optimisation_best_score",
			Help:        "Best optimisation metric value found during the parameter search.",
			ConstLabels: labels,
		}, []string{"algorithm"}),
		trials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "optimisation_trials_total",
			Help:        "Number of evaluated search space points.",
			ConstLabels: labels,
		}, []string{"algorithm"}),
	}

	c.registry.MustRegister(
		c.phases,
		c.phaseDuration,
		c.interactions,
		c.users,
		c.items,
		c.runDuration,
		c.score,
		c.bestScore,
		c.trials,
	)
	return c
}

// Observe records the completion of a driver phase.
func (c *Collector) Observe(e experiment.Event) {
	if !e.Done {
		return
	}

	result := "success"
	if e.Err != nil {
		result = "failure"
	}
	c.phases.WithLabelValues(string(e.Phase), result).Inc()
	c.phaseDuration.WithLabelValues(string(e.Phase)).Observe(e.Elapsed.Seconds())
}

// RecordResult records the dataset shape and metric values of a completed run.
func (c *Collector) RecordResult(r *experiment.Result) {
	c.interactions.Set(float64(r.Interactions))
	c.users.Set(float64(r.Users))
	c.items.Set(float64(r.Items))
	if !r.EndTime.IsZero() {
		c.runDuration.Set(r.EndTime.Sub(r.StartTime).Seconds())
	}

	if r.Metrics == nil {
		return
	}
	for algorithm, metrics := range r.Metrics.Metrics {
		for name, value := range metrics {
			c.score.WithLabelValues(algorithm, name).Set(value)
		}
	}

	best := make(map[string]float64)
	for _, t := range r.Metrics.Optimisation {
		c.trials.WithLabelValues(t.Algorithm).Inc()
		if v, ok := best[t.Algorithm]; !ok || t.Score > v {
			best[t.Algorithm] = t.Score
		}
	}
	for algorithm, v := range best {
		c.bestScore.WithLabelValues(algorithm).Set(v)
	}
}

// Gatherer returns the registry holding the collected metrics.
func (c *Collector) Gatherer() prometheus.Gatherer {
	return c.registry
}

// WriteTextfile writes the collected metrics in the text exposition format.
func (c *Collector) WriteTextfile(filename string) error {
	return prometheus.WriteToTextfile(filename, c.registry)
}

// SPDX-License-Identifier: MIT

// Package metrics exposes sampler observability hooks.
//
// The sampler depends only on the Recorder interface. NoopRecorder is the
// default; PrometheusRecorder registers collectors under the "foldflow"
// namespace and HTTPHandler serves them for scraping.
package metrics

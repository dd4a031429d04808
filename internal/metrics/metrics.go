// Package metrics defines the Prometheus metrics of the timesheet tracker.
// All metrics are registered with the default registry on package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "timesheet"

// Result label values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultHit     = "hit"
	ResultMiss    = "miss"
	ResultSkipped = "skipped"
)

// SubmissionsTotal counts timesheet submissions.
// Label:
//   - result: "success" or an error code such as "ALREADY_SUBMITTED"
var SubmissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submissions_total",
		Help:      "Total number of weekly timesheet submissions, by result.",
	},
	[]string{"result"},
)

// TransitionsTotal counts lifecycle transitions on entries and timesheets.
// Labels:
//   - transition: "submit", "approve" or "reject"
//   - result: "success" or an error code
var TransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transitions_total",
		Help:      "Total number of lifecycle transitions, by transition and result.",
	},
	[]string{"transition", "result"},
)

// OvertimeHours observes the overtime of weeks submitted above the threshold.
var OvertimeHours = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "overtime_hours",
		Help:      "Overtime hours of submitted weeks that exceeded the threshold.",
		Buckets:   []float64{1, 2, 4, 8, 12, 16, 24, 40},
	},
)

// ReportDuration measures report generation time.
// Label:
//   - report: "weekly", "summary", "department" or "payroll"
var ReportDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "report_duration_seconds",
		Help:      "Duration of report generation.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"report"},
)

// NotificationsTotal counts submission notifications.
// Label:
//   - result: "success", "error" or "skipped" (deduplicated)
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of submission notifications, by result.",
	},
	[]string{"result"},
)

// ReportCacheTotal counts report cache lookups.
// Label:
//   - result: "hit" or "miss"
var ReportCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "report_cache_total",
		Help:      "Total number of report cache lookups, by result.",
	},
	[]string{"result"},
)

// HTTPRequestDuration measures API request handling time.
// Labels:
//   - method: HTTP method
//   - route: registered route pattern, e.g. "/api/v1/entries/:id"
//   - status: response status code
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests, by method, route and status.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route", "status"},
)

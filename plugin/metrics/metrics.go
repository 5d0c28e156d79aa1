// Package metrics provides a Prometheus plugin for the field authorization
// engine.
//
// Metrics:
//   - fieldauth_censor_fields_requested_total / _granted_total by kind
//   - fieldauth_authorization_decisions_total by check, kind and decision
//   - fieldauth_cache_lookups_total by cache and result
//   - fieldauth_query_duration_seconds by kind and operation
//   - fieldauth_query_errors_total by kind and operation
//   - fieldauth_ownership_invalidations_total
//
// Usage:
//
//	m := metrics.New(prometheus.DefaultRegisterer)
//	eng, err := fieldauth.NewEngine(fieldauth.WithStore(s), fieldauth.WithPlugin(m))
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/shelterhub/fieldauth/plugin"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin           = (*Plugin)(nil)
	_ plugin.AfterCensor      = (*Plugin)(nil)
	_ plugin.AfterAuthorize   = (*Plugin)(nil)
	_ plugin.AfterQuery       = (*Plugin)(nil)
	_ plugin.CacheLookup      = (*Plugin)(nil)
	_ plugin.OwnershipChanged = (*Plugin)(nil)
)

// Plugin records engine events as Prometheus metrics.
type Plugin struct {
	fieldsRequested *prometheus.CounterVec
	fieldsGranted   *prometheus.CounterVec
	decisions       *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	queryDuration   *prometheus.HistogramVec
	queryErrors     *prometheus.CounterVec
	invalidations   prometheus.Counter
}

// New registers the plugin's collectors with reg.
func New(reg prometheus.Registerer) *Plugin {
	f := promauto.With(reg)
	return &Plugin{
		fieldsRequested: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fieldauth_censor_fields_requested_total",
				Help: "Total number of field paths submitted to censors",
			},
			[]string{"kind"},
		),
		fieldsGranted: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fieldauth_censor_fields_granted_total",
				Help: "Total number of field paths censors let through",
			},
			[]string{"kind"},
		),
		decisions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fieldauth_authorization_decisions_total",
				Help: "Total number of authorization decisions",
			},
			[]string{"check", "kind", "decision"}, // decision: "allowed", "denied"
		),
		cacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fieldauth_cache_lookups_total",
				Help: "Total number of resolver and requirement cache reads",
			},
			[]string{"cache", "result"}, // result: "hit", "miss"
		),
		queryDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fieldauth_query_duration_seconds",
				Help:    "Duration of store round trips issued by the query layer",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"kind", "operation"},
		),
		queryErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fieldauth_query_errors_total",
				Help: "Total number of failed store round trips",
			},
			[]string{"kind", "operation"},
		),
		invalidations: f.NewCounter(
			prometheus.CounterOpts{
				Name: "fieldauth_ownership_invalidations_total",
				Help: "Total number of per-user cache invalidations",
			},
		),
	}
}

// Name implements plugin.Plugin.
func (p *Plugin) Name() string { return "metrics" }

// OnAfterCensor implements plugin.AfterCensor.
func (p *Plugin) OnAfterCensor(_ context.Context, ev plugin.CensorEvent) error {
	p.fieldsRequested.WithLabelValues(ev.Kind).Add(float64(len(ev.Requested)))
	p.fieldsGranted.WithLabelValues(ev.Kind).Add(float64(len(ev.Granted)))
	return nil
}

// OnAfterAuthorize implements plugin.AfterAuthorize.
func (p *Plugin) OnAfterAuthorize(_ context.Context, ev plugin.AuthorizeEvent) error {
	p.decisions.WithLabelValues(ev.Check, ev.Kind, decision(ev.Allowed)).Inc()
	return nil
}

// OnAfterQuery implements plugin.AfterQuery.
func (p *Plugin) OnAfterQuery(_ context.Context, ev plugin.QueryEvent) error {
	p.queryDuration.WithLabelValues(ev.Kind, ev.Operation).Observe(ev.Elapsed.Seconds())
	if ev.Err != nil {
		p.queryErrors.WithLabelValues(ev.Kind, ev.Operation).Inc()
	}
	return nil
}

// OnCacheLookup implements plugin.CacheLookup.
func (p *Plugin) OnCacheLookup(_ context.Context, cache string, hit bool) error {
	result := "miss"
	if hit {
		result = "hit"
	}
	p.cacheLookups.WithLabelValues(cache, result).Inc()
	return nil
}

// OnOwnershipChanged implements plugin.OwnershipChanged.
func (p *Plugin) OnOwnershipChanged(_ context.Context, _ string) error {
	p.invalidations.Inc()
	return nil
}

func decision(allowed bool) string {
	if allowed {
		return "allowed"
	}
	return "denied"
}

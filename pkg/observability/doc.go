/*
Package observability exports engine activity as Prometheus metrics.

Metrics are fed by domain.Hooks, so any engine can be instrumented without
changes to the reconciliation code:

	metrics := observability.New(prometheus.DefaultRegisterer)
	engine, _ := sectionkit.New(surface, sectionkit.WithHooks(metrics.Hooks()))

Chain combines several hook sets when a host also logs or records events.
*/
package observability

/*
Package observability provides tools for monitoring the Cadence engine.

Everything here plugs into domain.LifecycleHooks: Metrics records Prometheus
counters and histograms, Logging writes one structured record per event and
Chain combines several hook sets into one. Tracing spans are started through
Tracer, which defaults to the global OpenTelemetry provider.

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	eng, _ := cadence.New("",
		cadence.WithLifecycleHooks(observability.Chain(
			metrics.Hooks(),
			observability.Logging(logger),
		)),
	)
*/
package observability

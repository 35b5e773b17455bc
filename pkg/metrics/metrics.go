package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestCounter conta o total de requisições HTTP.
	HTTPRequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "doefood_http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestDuration observa a duração das requisições HTTP.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "doefood_http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// PasswordResetEvents conta as transições do fluxo de redefinição de senha.
	// stage: "request" | "confirm"; outcome: "issued", "confirmed", "expired", "invalidated", ...
	PasswordResetEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "doefood_password_reset_events_total",
			Help: "Password reset lifecycle events by stage and outcome.",
		},
		[]string{"stage", "outcome"},
	)

	// AppInfo expõe informações sobre a aplicação.
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "doefood_app_info",
			Help: "Information about the DoeFood backend.",
		},
		[]string{"version"},
	)
)

// SetAppVersion publica a versão carregada da configuração.
func SetAppVersion(version string) {
	if version == "" {
		version = "unknown"
	}
	AppInfo.With(prometheus.Labels{"version": version}).Set(1)
}

// ObservePasswordReset incrementa o contador de eventos do fluxo de redefinição.
func ObservePasswordReset(stage, outcome string) {
	PasswordResetEvents.WithLabelValues(stage, outcome).Inc()
}

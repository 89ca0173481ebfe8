package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"service", "method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)

	RegistrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_registrations_total",
			Help: "Total number of registration attempts.",
		},
		[]string{"service", "result"},
	)

	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Total number of login attempts.",
		},
		[]string{"service", "result"},
	)

	TokensIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_tokens_issued_total",
			Help: "Total number of token pairs issued, by flow.",
		},
		[]string{"service", "flow", "result"},
	)

	EmailsSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_emails_sent_total",
			Help: "Total number of outbound emails, by kind.",
		},
		[]string{"service", "kind", "result"},
	)
)

func MustRegister(serviceName string) {
	HTTPRequestsTotal = HTTPRequestsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	HTTPRequestDurationSeconds = HTTPRequestDurationSeconds.MustCurryWith(prometheus.Labels{"service": serviceName}).(*prometheus.HistogramVec)
	RegistrationsTotal = RegistrationsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	LoginsTotal = LoginsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	TokensIssuedTotal = TokensIssuedTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	EmailsSentTotal = EmailsSentTotal.MustCurryWith(prometheus.Labels{"service": serviceName})

	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		RegistrationsTotal,
		LoginsTotal,
		TokensIssuedTotal,
		EmailsSentTotal,
	)
}

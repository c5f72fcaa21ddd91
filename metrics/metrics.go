package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so that several servers (and tests) can
// live in one process.
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	posts    *prometheus.CounterVec
	comments prometheus.Counter
	contact  *prometheus.CounterVec
	logins   *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_requests_latency_seconds",
				Help:    "Latency of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		posts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blog_posts_total",
				Help: "Post writes by action",
			},
			[]string{"action"}, // create|update|delete
		),
		comments: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "blog_comments_total",
				Help: "Comments added",
			},
		),
		contact: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blog_contact_messages_total",
				Help: "Contact form submissions by outcome",
			},
			[]string{"outcome"}, // sent|failed
		),
		logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blog_logins_total",
				Help: "Login attempts by outcome",
			},
			[]string{"outcome"},
		),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.latency, m.posts, m.comments, m.contact, m.logins,
	)
	return m
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	code := strconv.Itoa(status)
	m.requests.WithLabelValues(route, method, code).Inc()
	m.latency.WithLabelValues(method, route, code).Observe(elapsed.Seconds())
}

func (m *Metrics) PostWritten(action string) { m.posts.WithLabelValues(action).Inc() }

func (m *Metrics) CommentAdded() { m.comments.Inc() }

func (m *Metrics) ContactMessage(sent bool) {
	if sent {
		m.contact.WithLabelValues("sent").Inc()
		return
	}
	m.contact.WithLabelValues("failed").Inc()
}

func (m *Metrics) Login(outcome string) { m.logins.WithLabelValues(outcome).Inc() }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

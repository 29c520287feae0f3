package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the process metrics. A nil *Registry is valid and records
// nothing, so services can be built without metrics in tests.
type Registry struct {
	reg *prometheus.Registry

	quotes          prometheus.Counter
	ordersSubmitted prometheus.Counter
	ordersRejected  *prometheus.CounterVec
	filesUploaded   prometheus.Counter
	uploadBytes     prometheus.Counter
	feedCache       *prometheus.CounterVec
	mailsSent       *prometheus.CounterVec
	mailRetries     prometheus.Counter
	httpDuration    *prometheus.HistogramVec
}

func New() *Registry {
	r := prometheus.NewRegistry()
	quotes := prometheus.NewCounter(prometheus.CounterOpts{Name: "writedesk_quotes_total"})
	submitted := prometheus.NewCounter(prometheus.CounterOpts{Name: "writedesk_orders_submitted_total"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "writedesk_orders_rejected_total"}, []string{"reason"})
	files := prometheus.NewCounter(prometheus.CounterOpts{Name: "writedesk_files_uploaded_total"})
	bytes := prometheus.NewCounter(prometheus.CounterOpts{Name: "writedesk_upload_bytes_total"})
	feedCache := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "writedesk_feed_cache_total"}, []string{"feed", "result"})
	mails := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "writedesk_mails_total"}, []string{"kind", "result"})
	retries := prometheus.NewCounter(prometheus.CounterOpts{Name: "writedesk_mail_retries_total"})
	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "writedesk_http_request_duration_seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "code"})

	r.MustRegister(quotes, submitted, rejected, files, bytes, feedCache, mails, retries, httpDuration)
	return &Registry{
		reg:             r,
		quotes:          quotes,
		ordersSubmitted: submitted,
		ordersRejected:  rejected,
		filesUploaded:   files,
		uploadBytes:     bytes,
		feedCache:       feedCache,
		mailsSent:       mails,
		mailRetries:     retries,
		httpDuration:    httpDuration,
	}
}

func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

func (r *Registry) QuoteComputed() {
	if r != nil {
		r.quotes.Inc()
	}
}

func (r *Registry) OrderSubmitted() {
	if r != nil {
		r.ordersSubmitted.Inc()
	}
}

func (r *Registry) OrderRejected(reason string) {
	if r != nil {
		r.ordersRejected.WithLabelValues(reason).Inc()
	}
}

func (r *Registry) FileUploaded(size int64) {
	if r != nil {
		r.filesUploaded.Inc()
		r.uploadBytes.Add(float64(size))
	}
}

func (r *Registry) FeedCache(feed string, hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.feedCache.WithLabelValues(feed, result).Inc()
}

func (r *Registry) MailSent(kind string, ok bool) {
	if r == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	r.mailsSent.WithLabelValues(kind, result).Inc()
}

func (r *Registry) MailRetried() {
	if r != nil {
		r.mailRetries.Inc()
	}
}

func (r *Registry) ObserveHTTP(method, route string, code int, took time.Duration) {
	if r != nil {
		r.httpDuration.WithLabelValues(method, route, strconv.Itoa(code)).Observe(took.Seconds())
	}
}

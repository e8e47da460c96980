package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Label values.
const (
	ModeIssue = "issue"
	ModeRenew = "renew"

	ResultSuccess = "success"
	ResultFailure = "failure"

	SourceAPI       = "api"
	SourceScheduler = "scheduler"
)

var (
	// acquisitionsTotal counts finished acquisitions by mode and result
	acquisitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lazyacme_acquisitions_total",
		Help: "Finished certificate acquisitions by mode and result",
	}, []string{"mode", "result"})

	// acquisitionDuration tracks wall time of the issuance tool
	acquisitionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lazyacme_acquisition_duration_seconds",
		Help:    "Certificate acquisition duration in seconds",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10), // 1s to ~8.5m
	}, []string{"mode"})

	lockRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lazyacme_lock_rejections_total",
		Help: "Operations rejected because the global acquisition lock was held",
	}, []string{"source"})

	certificateExpiry = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "lazyacme_certificate_expiry_seconds",
		Help: "Seconds until the certificate for a domain expires",
	}, []string{"domain"})

	renewalTicksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lazyacme_renewal_ticks_total",
		Help: "Renewal scheduler evaluations started",
	})
)

// ObserveAcquisition records one finished acquisition.
func ObserveAcquisition(mode string, err error, d time.Duration) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	acquisitionsTotal.WithLabelValues(mode, result).Inc()
	acquisitionDuration.WithLabelValues(mode).Observe(d.Seconds())
}

// LockRejected records an operation turned away by the global lock.
func LockRejected(source string) {
	lockRejectionsTotal.WithLabelValues(source).Inc()
}

// SetCertificateExpiry records the time left on a domain's certificate.
func SetCertificateExpiry(domain string, left time.Duration) {
	certificateExpiry.WithLabelValues(domain).Set(left.Seconds())
}

// RenewalTick records one scheduler evaluation.
func RenewalTick() {
	renewalTicksTotal.Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

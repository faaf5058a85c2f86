package nav

import "github.com/prometheus/client_golang/prometheus"

const metricNamespace = "osr"

var (
	routeRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "route_requests_total",
			Help:      "Route requests accepted, by search profile",
		}, []string{
			"profile",
		})

	profileRejections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "profile_rejections_total",
			Help:      "Requests rejected for naming an unrecognized search profile",
		})
)

func init() {
	prometheus.MustRegister(routeRequests, profileRejections)
}

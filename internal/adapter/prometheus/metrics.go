package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	reachabilityStatus   prometheus.Gauge
	endpointsTotal       prometheus.Gauge
	endpointsReachable   prometheus.Gauge
	endpointsUnreachable prometheus.Gauge
	endpointStatus       *prometheus.GaugeVec
}

const (
	prefix = "ixreach_"
)

func newMetrics(reg *prometheus.Registry) (*metrics, error) {
	m := &metrics{
		reachabilityStatus: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "reachability_status",
			Help: "Status of the exchange (1: at least one mirror reachable, 0: none)",
		}),
		endpointsTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "endpoints_total",
			Help: "Total number of endpoints probed in the last run",
		}),
		endpointsReachable: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "endpoints_reachable",
			Help: "Number of endpoints reachable in the last run",
		}),
		endpointsUnreachable: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "endpoints_unreachable",
			Help: "Number of endpoints unreachable in the last run",
		}),
		endpointStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: prefix + "endpoint_status",
			Help: "Status of a specific endpoint (1: reachable, 0: unreachable)",
		}, []string{"endpoint"}),
	}

	err := register(reg,
		m.reachabilityStatus,
		m.endpointsTotal,
		m.endpointsReachable,
		m.endpointsUnreachable,
		m.endpointStatus,
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func register(r *prometheus.Registry, cs ...prometheus.Collector) error {
	for i, c := range cs {
		if err := r.Register(c); err != nil {
			for _, c := range cs[:i] {
				r.Unregister(c)
			}

			return err
		}
	}

	return nil
}

package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Register registers the agent collectors plus Go and process metrics.
func Register(logger *logrus.Logger) {
	registerIfNotExists(collectors.NewGoCollector(), "go_collector", logger)
	registerIfNotExists(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}), "process_collector", logger)

	registerIfNotExists(rpcRequestsTotal, "rpc_requests_total", logger)
	registerIfNotExists(rpcRequestDuration, "rpc_request_duration", logger)
	registerIfNotExists(submissionsTotal, "tx_submissions_total", logger)
	registerIfNotExists(lastPoolSize, "tx_last_pool_size", logger)
	registerIfNotExists(cycleStepsTotal, "cycle_steps_total", logger)
	registerIfNotExists(cycleDuration, "cycle_duration", logger)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// registerIfNotExists registers a collector if it's not already registered
func registerIfNotExists(collector prometheus.Collector, name string, logger *logrus.Logger) {
	if err := prometheus.Register(collector); err != nil {
		var alreadyRegErr prometheus.AlreadyRegisteredError
		if errors.As(err, &alreadyRegErr) {
			logger.Debugf("%s already registered", name)
		} else {
			logger.Errorf("Failed to register %s: %v", name, err)
		}
	}
}

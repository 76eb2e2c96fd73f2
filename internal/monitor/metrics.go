package monitor

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/turtacn/FlightStatus/internal/status"
	"github.com/turtacn/FlightStatus/pkg/consts"
	"github.com/turtacn/FlightStatus/pkg/logger"
)

var (
	// StatusGauge mirrors each status field as a number, labelled by field.
	StatusGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "flightstatus_field",
		Help: "Current value of each flight status field",
	}, []string{"field"})
	// ArmRequests counts arm/disarm requests by outcome.
	ArmRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "flightstatus_arm_requests_total",
		Help: "Arm and disarm requests, partitioned by result",
	}, []string{"result"})
	// ModeRequests counts flight-mode requests by outcome.
	ModeRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "flightstatus_mode_requests_total",
		Help: "Flight mode requests, partitioned by result",
	}, []string{"result"})
	// PlacementWindows counts classifier windows by verdict.
	PlacementWindows = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "flightstatus_placement_windows_total",
		Help: "Completed placement classifier windows, partitioned by verdict",
	}, []string{"verdict"})
	// NavigationResets counts calls into the navigation reset.
	NavigationResets = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flightstatus_navigation_resets_total",
		Help: "Navigation resets triggered by arm and disarm transitions",
	})
	// SampleMisses counts control-loop ticks that found no sample.
	SampleMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flightstatus_sample_misses_total",
		Help: "Control loop ticks without a gyro sample",
	})
)

var registerOnce sync.Once

// Register adds every collector to reg. Only the first call registers.
func Register(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		reg.MustRegister(StatusGauge, ArmRequests, ModeRequests, PlacementWindows, NavigationResets, SampleMisses)
	})
}

// InitMetrics registers Prometheus metrics and starts an HTTP server to expose them.
// It takes an address string (e.g., ":9090") on which to listen for requests.
func InitMetrics(addr string) {
	Register(prometheus.DefaultRegisterer)

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		logger.Log.Info("Metrics server starting", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Log.Error("Metrics server failed", "err", err)
		}
	}()
}

// Recorder feeds store outcomes into the collectors. It satisfies status.Observer.
type Recorder struct{}

func (Recorder) ObserveArm(r status.ArmResult) {
	ArmRequests.WithLabelValues(r.String()).Inc()
}

func (Recorder) ObserveMode(_ consts.FlightMode, r status.ModeResult) {
	ModeRequests.WithLabelValues(r.String()).Inc()
}

func (Recorder) ObservePlacement(p consts.Placement) {
	PlacementWindows.WithLabelValues(p.String()).Inc()
}

// ObserveSnapshot publishes every field of s.
func ObserveSnapshot(s status.Snapshot) {
	StatusGauge.WithLabelValues("init").Set(float64(s.Init))
	StatusGauge.WithLabelValues("armed").Set(float64(s.Armed))
	StatusGauge.WithLabelValues("flight").Set(float64(s.Flight))
	StatusGauge.WithLabelValues("placement").Set(float64(s.Placement))
	StatusGauge.WithLabelValues("alt_control").Set(float64(s.AltControl))
	StatusGauge.WithLabelValues("pos_control").Set(float64(s.PosControl))
	failsafe := 0.0
	if s.Failsafe {
		failsafe = 1
	}
	StatusGauge.WithLabelValues("failsafe").Set(failsafe)
	StatusGauge.WithLabelValues("mode").Set(float64(s.Mode))
}

// Personal.AI order the ending

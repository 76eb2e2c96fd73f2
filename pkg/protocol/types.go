package protocol

// Config represents the root configuration of a FlightStatus node
type Config struct {
	Version       string              `yaml:"version"`
	Vehicle       VehicleConfig       `yaml:"vehicle"`
	Loop          LoopConfig          `yaml:"loop"`
	Placement     PlacementConfig     `yaml:"placement"`
	Source        SourceConfig        `yaml:"source"`
	Telemetry     TelemetryConfig     `yaml:"telemetry"`
	Export        ExportConfig        `yaml:"export"`
	Observability ObservabilityConfig `yaml:"observability"`
}

type VehicleConfig struct {
	Name string `yaml:"name"`
}

type LoopConfig struct {
	RateHz          int    `yaml:"rate_hz"`
	WarmupDelay     string `yaml:"warmup_delay"`     // init is marked finished after this
	FailsafeTimeout string `yaml:"failsafe_timeout"` // sample starvation before failsafe
}

type PlacementConfig struct {
	Window    int     `yaml:"window"`
	TripCount int     `yaml:"trip_count"`
	Threshold float64 `yaml:"threshold"`
}

// Source kinds
const (
	SourceSynthetic = "synthetic"
	SourceCSV       = "csv"
)

type SourceConfig struct {
	Kind  string  `yaml:"kind"`
	Path  string  `yaml:"path"`  // csv only
	Loop  bool    `yaml:"loop"`  // csv only: rewind at EOF
	Noise float64 `yaml:"noise"` // synthetic only: peak sample jitter
	Seed  int64   `yaml:"seed"`  // synthetic only
}

type TelemetryConfig struct {
	Enabled    bool   `yaml:"enabled"`
	SocketPath string `yaml:"socket_path"`
	Timeout    string `yaml:"timeout"`
}

type ExportConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
	UnitID   uint8  `yaml:"unit_id"`
	Address  uint16 `yaml:"address"`
	Interval string `yaml:"interval"`
	Timeout  string `yaml:"timeout"`
}

type ObservabilityConfig struct {
	MetricsPort string `yaml:"metrics_port"`
	LogLevel    string `yaml:"log_level"`
}

// Personal.AI order the ending

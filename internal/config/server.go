package config

import "time"

type HTTP struct {
	Address         string        `env:"HTTP_ADDRESS" envDefault:":8080" validate:"required"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	LogFieldMaxLen  int           `env:"HTTP_LOG_FIELD_MAX_LEN" envDefault:"2048"`
}

type Probe struct {
	Address string `env:"PROBE_ADDRESS" envDefault:":8081" validate:"required"`
}

type Metrics struct {
	Address string `env:"METRICS_ADDRESS" envDefault:":9090" validate:"required"`
}

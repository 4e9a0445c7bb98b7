package config

import (
	"fmt"
	"time"
	_ "time/tzdata" // встроенная база часовых поясов
)

type Audit struct {
	Window      time.Duration `env:"AUDIT_WINDOW" envDefault:"168h" validate:"gt=0"`
	Cronspec    string        `env:"AUDIT_CRONSPEC" envDefault:"0 3 * * *"`
	Timezone    string        `env:"AUDIT_TIMEZONE" envDefault:"UTC" validate:"timezone"`
	Queue       string        `env:"AUDIT_QUEUE" envDefault:"audit" validate:"required"`
	Retention   time.Duration `env:"AUDIT_RESULT_RETENTION" envDefault:"72h"`
	Concurrency int           `env:"AUDIT_WORKER_CONCURRENCY" envDefault:"2" validate:"gt=0"`
}

// Location загружает часовой пояс расписания аудита.
func (a Audit) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return nil, fmt.Errorf("time.LoadLocation: %w", err)
	}

	return loc, nil
}

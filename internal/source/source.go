package source

import (
	"github.com/turtacn/FlightStatus/internal/placement"
	"github.com/turtacn/FlightStatus/pkg/errors"
	"github.com/turtacn/FlightStatus/pkg/protocol"
)

// Source yields one angular-rate sample per control-loop tick.
// Next returns an ErrCodeSourceExhausted error once no more samples will come.
type Source interface {
	Next() (placement.Vector3, error)
	Close() error
}

// Open builds the source described by cfg.
func Open(cfg protocol.SourceConfig) (Source, error) {
	switch cfg.Kind {
	case protocol.SourceSynthetic, "":
		return NewSynthetic(cfg.Noise, cfg.Seed), nil
	case protocol.SourceCSV:
		c, err := OpenCSV(cfg.Path, cfg.Loop)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, errors.New(errors.ErrCodeSourceOpen, "OpenSource", "unknown source kind "+cfg.Kind, nil)
	}
}

// Personal.AI order the ending

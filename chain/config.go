package chain

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/lixenwraith/maze-chain/parameter"
)

// ErrInvalidConfig wraps every validation failure of a Config
var ErrInvalidConfig = errors.New("invalid chain config")

var validate = validator.New()

// Config holds the generation knobs of a chain
type Config struct {
	BaseSize      int     `yaml:"base_size" validate:"gte=3"`
	SizeIncrement int     `yaml:"size_increment" validate:"gte=0"`
	AlignmentX    int     `yaml:"alignment_x" validate:"gte=1"`
	CellSize      float64 `yaml:"cell_size" validate:"gt=0"`
	Spacing       float64 `yaml:"spacing" validate:"gte=0"`
	LookAhead     int     `yaml:"look_ahead" validate:"gte=1,lte=16"` // parameter.MaxLookAhead
	MaxSegments   int     `yaml:"max_segments" validate:"gte=0"`      // 0 = unbounded
	Seed          int64   `yaml:"seed"`                               // 0 = time-derived
}

// DefaultConfig returns the recommended chain settings
func DefaultConfig() Config {
	return Config{
		BaseSize:      parameter.BaseSegmentSize,
		SizeIncrement: parameter.SegmentSizeIncrement,
		AlignmentX:    parameter.DefaultAlignmentX,
		CellSize:      parameter.DefaultCellSize,
		Spacing:       parameter.DefaultSegmentSpacing,
		LookAhead:     parameter.DefaultLookAhead,
	}
}

// Validate checks field bounds
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

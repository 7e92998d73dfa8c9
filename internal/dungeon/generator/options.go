package generator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/dungeon/internal/config"
	"github.com/cory-johannsen/dungeon/internal/dungeon/bsp"
	"github.com/cory-johannsen/dungeon/internal/game/dice"
)

// ErrInvalidConfig reports generator options that cannot produce a dungeon.
var ErrInvalidConfig = errors.New("generator: invalid configuration")

// Options control one generation run.
type Options struct {
	Width               int
	Height              int
	MaxLeafSize         int
	MinLeafSize         int
	SplitContinueChance float64
	MinRoomWidth        int
	MinRoomHeight       int
	ObstacleChance      float64
	EnemiesPerRoom      dice.Expression
	EnemyKinds          []string
	ObstacleKinds       []string
	EnsureConnectivity  bool
}

// DefaultOptions returns the stock 100×100 configuration.
func DefaultOptions() Options {
	return Options{
		Width:               100,
		Height:              100,
		MaxLeafSize:         30,
		MinLeafSize:         20,
		SplitContinueChance: 0.75,
		MinRoomWidth:        10,
		MinRoomHeight:       6,
		ObstacleChance:      0.5,
		EnemiesPerRoom:      dice.MustParse("1d5"),
		EnemyKinds:          []string{"goblin", "skeleton", "slime"},
		ObstacleKinds:       []string{"crate", "barrel", "pillar"},
		EnsureConnectivity:  true,
	}
}

// OptionsFromConfig converts validated configuration into Options.
//
// Postcondition: Returns Options that pass Validate, or an error wrapping
// ErrInvalidConfig.
func OptionsFromConfig(cfg config.GeneratorConfig) (Options, error) {
	expr, err := dice.Parse(cfg.EnemiesPerRoom)
	if err != nil {
		return Options{}, fmt.Errorf("%w: enemies_per_room: %v", ErrInvalidConfig, err)
	}
	opts := Options{
		Width:               cfg.Width,
		Height:              cfg.Height,
		MaxLeafSize:         cfg.MaxLeafSize,
		MinLeafSize:         cfg.MinLeafSize,
		SplitContinueChance: cfg.SplitContinueChance,
		MinRoomWidth:        cfg.MinRoomWidth,
		MinRoomHeight:       cfg.MinRoomHeight,
		ObstacleChance:      cfg.ObstacleChance,
		EnemiesPerRoom:      expr,
		EnemyKinds:          append([]string(nil), cfg.EnemyKinds...),
		ObstacleKinds:       append([]string(nil), cfg.ObstacleKinds...),
		EnsureConnectivity:  cfg.EnsureConnectivity,
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Validate checks that the options can drive a run.
//
// Postcondition: Returns nil, or an error wrapping ErrInvalidConfig that
// lists every violation.
func (o Options) Validate() error {
	var errs []string
	if o.MinLeafSize < 1 || o.MaxLeafSize < o.MinLeafSize {
		errs = append(errs, fmt.Sprintf("leaf sizes min=%d max=%d", o.MinLeafSize, o.MaxLeafSize))
	}
	if o.Width < o.MinLeafSize || o.Height < o.MinLeafSize {
		errs = append(errs, fmt.Sprintf("map %dx%d smaller than min leaf %d", o.Width, o.Height, o.MinLeafSize))
	}
	if o.MinRoomWidth < 3 || o.MinRoomHeight < 3 ||
		o.MinRoomWidth+2 > o.MinLeafSize || o.MinRoomHeight+2 > o.MinLeafSize {
		errs = append(errs, fmt.Sprintf("min room %dx%d must be >= 3x3 and fit min leaf %d with margins", o.MinRoomWidth, o.MinRoomHeight, o.MinLeafSize))
	}
	if o.SplitContinueChance < 0 || o.SplitContinueChance > 1 {
		errs = append(errs, fmt.Sprintf("split continue chance %v", o.SplitContinueChance))
	}
	if o.ObstacleChance < 0 || o.ObstacleChance > 1 {
		errs = append(errs, fmt.Sprintf("obstacle chance %v", o.ObstacleChance))
	}
	if o.EnemiesPerRoom.Raw == "" || o.EnemiesPerRoom.Min() < 0 {
		errs = append(errs, fmt.Sprintf("enemies per room %q", o.EnemiesPerRoom.Raw))
	}
	if len(o.EnemyKinds) == 0 {
		errs = append(errs, "no enemy kinds")
	}
	if len(o.ObstacleKinds) == 0 {
		errs = append(errs, "no obstacle kinds")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}
	return nil
}

func (o Options) partition() bsp.Options {
	return bsp.Options{
		MinLeafSize:    o.MinLeafSize,
		MaxLeafSize:    o.MaxLeafSize,
		ContinueChance: o.SplitContinueChance,
	}
}

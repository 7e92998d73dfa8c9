// Package config provides Viper-based configuration loading for the dungeon
// generator.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/dungeon/internal/game/dice"
)

// FileLogConfig holds rotating log file settings.
type FileLogConfig struct {
	// Path is the log file path. Empty disables file output.
	Path string `mapstructure:"path"`
	// MaxSizeMB is the size in megabytes at which the file is rotated.
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of rotated files to keep.
	MaxBackups int `mapstructure:"max_backups"`
	// MaxAgeDays is the number of days to keep rotated files.
	MaxAgeDays int `mapstructure:"max_age_days"`
	// Compress gzips rotated files.
	Compress bool `mapstructure:"compress"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string        `mapstructure:"format"`
	File   FileLogConfig `mapstructure:"file"`
}

// GeneratorConfig holds dungeon generation settings.
type GeneratorConfig struct {
	// Width and Height are the map dimensions in tiles.
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
	// MaxLeafSize forces a split attempt on any larger partition leaf.
	MaxLeafSize int `mapstructure:"max_leaf_size"`
	// MinLeafSize is the smallest side a partition split may produce.
	MinLeafSize int `mapstructure:"min_leaf_size"`
	// SplitContinueChance is the chance a small enough leaf still splits.
	SplitContinueChance float64 `mapstructure:"split_continue_chance"`
	// MinRoomWidth and MinRoomHeight bound carved rooms.
	MinRoomWidth  int `mapstructure:"min_room_width"`
	MinRoomHeight int `mapstructure:"min_room_height"`
	// ObstacleChance is the chance a non-special room gets an obstacle.
	ObstacleChance float64 `mapstructure:"obstacle_chance"`
	// EnemiesPerRoom is a dice expression such as "1d5".
	EnemiesPerRoom string   `mapstructure:"enemies_per_room"`
	EnemyKinds     []string `mapstructure:"enemy_kinds"`
	ObstacleKinds  []string `mapstructure:"obstacle_kinds"`
	// Seed fixes the random sequence. 0 draws a fresh seed per run.
	Seed uint64 `mapstructure:"seed"`
	// EnsureConnectivity adds repair corridors until every room is reachable.
	EnsureConnectivity bool `mapstructure:"ensure_connectivity"`
}

// ContentConfig locates room templates and scripts.
type ContentConfig struct {
	// TemplatesDir holds room template YAML. Empty selects carved rooms.
	TemplatesDir string `mapstructure:"templates_dir"`
	// ScriptsDir holds Lua room hooks. Empty disables scripting.
	ScriptsDir string `mapstructure:"scripts_dir"`
	// ScriptInstructionLimit bounds each hook call; 0 uses the default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Content   ContentConfig   `mapstructure:"content"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGenerator(c.Generator); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Content.ScriptInstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("content.script_instruction_limit must be >= 0, got %d", c.Content.ScriptInstructionLimit))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	var errs []string
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		errs = append(errs, fmt.Sprintf("logging.level must be one of [debug, info, warn, error], got %q", l.Level))
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		errs = append(errs, fmt.Sprintf("logging.format must be one of [json, console], got %q", l.Format))
	}
	if l.File.Path != "" {
		if l.File.MaxSizeMB < 1 {
			errs = append(errs, fmt.Sprintf("logging.file.max_size_mb must be >= 1, got %d", l.File.MaxSizeMB))
		}
		if l.File.MaxBackups < 0 {
			errs = append(errs, "logging.file.max_backups must not be negative")
		}
		if l.File.MaxAgeDays < 0 {
			errs = append(errs, "logging.file.max_age_days must not be negative")
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateGenerator(g GeneratorConfig) error {
	var errs []string
	if g.MinLeafSize < 1 {
		errs = append(errs, fmt.Sprintf("generator.min_leaf_size must be >= 1, got %d", g.MinLeafSize))
	}
	if g.MaxLeafSize < g.MinLeafSize {
		errs = append(errs, fmt.Sprintf("generator.max_leaf_size (%d) must be >= generator.min_leaf_size (%d)", g.MaxLeafSize, g.MinLeafSize))
	}
	if g.Width < g.MinLeafSize || g.Height < g.MinLeafSize {
		errs = append(errs, fmt.Sprintf("generator map %dx%d must be at least min_leaf_size (%d) on each side", g.Width, g.Height, g.MinLeafSize))
	}
	if g.MinRoomWidth < 3 || g.MinRoomHeight < 3 {
		errs = append(errs, fmt.Sprintf("generator minimum room %dx%d must be at least 3x3", g.MinRoomWidth, g.MinRoomHeight))
	}
	if g.MinRoomWidth+2 > g.MinLeafSize || g.MinRoomHeight+2 > g.MinLeafSize {
		errs = append(errs, fmt.Sprintf("generator minimum room %dx%d plus margins must fit min_leaf_size (%d)", g.MinRoomWidth, g.MinRoomHeight, g.MinLeafSize))
	}
	if g.SplitContinueChance < 0 || g.SplitContinueChance > 1 {
		errs = append(errs, fmt.Sprintf("generator.split_continue_chance must be in [0,1], got %v", g.SplitContinueChance))
	}
	if g.ObstacleChance < 0 || g.ObstacleChance > 1 {
		errs = append(errs, fmt.Sprintf("generator.obstacle_chance must be in [0,1], got %v", g.ObstacleChance))
	}
	if expr, err := dice.Parse(g.EnemiesPerRoom); err != nil {
		errs = append(errs, fmt.Sprintf("generator.enemies_per_room: %v", err))
	} else if expr.Min() < 0 {
		errs = append(errs, fmt.Sprintf("generator.enemies_per_room %q can roll below zero", g.EnemiesPerRoom))
	}
	if len(g.EnemyKinds) == 0 {
		errs = append(errs, "generator.enemy_kinds must not be empty")
	}
	if len(g.ObstacleKinds) == 0 {
		errs = append(errs, "generator.obstacle_kinds must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// Default returns the validated configuration built from defaults and
// DUNGEON_ environment overrides alone.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Default() (Config, error) {
	return LoadFromViper(newViper())
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()

	// Environment variable overrides with DUNGEON_ prefix
	v.SetEnvPrefix("DUNGEON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file.path", "")
	v.SetDefault("logging.file.max_size_mb", 10)
	v.SetDefault("logging.file.max_backups", 3)
	v.SetDefault("logging.file.max_age_days", 7)
	v.SetDefault("logging.file.compress", false)

	v.SetDefault("generator.width", 100)
	v.SetDefault("generator.height", 100)
	v.SetDefault("generator.max_leaf_size", 30)
	v.SetDefault("generator.min_leaf_size", 20)
	v.SetDefault("generator.split_continue_chance", 0.75)
	v.SetDefault("generator.min_room_width", 10)
	v.SetDefault("generator.min_room_height", 6)
	v.SetDefault("generator.obstacle_chance", 0.5)
	v.SetDefault("generator.enemies_per_room", "1d5")
	v.SetDefault("generator.enemy_kinds", []string{"goblin", "skeleton", "slime"})
	v.SetDefault("generator.obstacle_kinds", []string{"crate", "barrel", "pillar"})
	v.SetDefault("generator.seed", 0)
	v.SetDefault("generator.ensure_connectivity", true)

	v.SetDefault("content.templates_dir", "")
	v.SetDefault("content.scripts_dir", "")
	v.SetDefault("content.script_instruction_limit", 0)
}

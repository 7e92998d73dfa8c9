// Package main provides the dungeon generator binary: it loads configuration,
// room templates, and Lua room hooks, generates one dungeon, and reports it.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/dungeon/internal/config"
	"github.com/cory-johannsen/dungeon/internal/dungeon/generator"
	"github.com/cory-johannsen/dungeon/internal/dungeon/template"
	"github.com/cory-johannsen/dungeon/internal/game/dice"
	"github.com/cory-johannsen/dungeon/internal/observability"
	"github.com/cory-johannsen/dungeon/internal/scripting"
)

// scriptSeedSalt separates the script dice stream from the generation stream
// so hooks that roll dice do not shift the layout.
const scriptSeedSalt = 0x5bd1e995

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file; empty = defaults and environment only")
	templatesDir := flag.String("templates", "", "room template YAML directory (overrides content.templates_dir)")
	scriptsDir := flag.String("scripts", "", "Lua room hook root directory (overrides content.scripts_dir)")
	seedFlag := flag.Uint64("seed", 0, "random seed (overrides generator.seed); 0 = use config")
	ascii := flag.Bool("ascii", false, "print the generated map to stdout")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *templatesDir != "" {
		cfg.Content.TemplatesDir = *templatesDir
	}
	if *scriptsDir != "" {
		cfg.Content.ScriptsDir = *scriptsDir
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	seed := cfg.Generator.Seed
	if *seedFlag != 0 {
		seed = *seedFlag
	}
	if seed == 0 {
		seed = dice.RandomSeed()
	}
	logger.Info("starting dungeon generation", zap.Uint64("seed", seed))

	opts, err := generator.OptionsFromConfig(cfg.Generator)
	if err != nil {
		logger.Fatal("building generator options", zap.Error(err))
	}

	var templates generator.TemplateSource
	if cfg.Content.TemplatesDir != "" {
		catalog, err := template.LoadCatalog(cfg.Content.TemplatesDir)
		if err != nil {
			logger.Fatal("loading room templates", zap.Error(err))
		}
		logger.Info("loaded room templates",
			zap.String("dir", cfg.Content.TemplatesDir),
			zap.Strings("ids", catalog.IDs()),
		)
		templates = catalog
	}

	observers := []generator.RoomObserver{generator.NewLogObserver(logger)}
	if cfg.Content.ScriptsDir != "" {
		roller := dice.NewLoggedRoller(dice.NewSeededSource(seed^scriptSeedSalt), logger)
		hooks := scripting.NewManager(roller, logger)
		defer hooks.Close()
		scopes, err := hooks.LoadTree(cfg.Content.ScriptsDir, cfg.Content.ScriptInstructionLimit)
		if err != nil {
			logger.Fatal("loading room scripts", zap.Error(err))
		}
		logger.Info("loaded room scripts", zap.Strings("scopes", scopes))
		observers = append(observers, generator.NewScriptObserver(hooks, logger))
	}

	gen, err := generator.New(opts, dice.NewSeededSource(seed), templates, logger, observers...)
	if err != nil {
		logger.Fatal("creating generator", zap.Error(err))
	}
	d := gen.Generate()

	for _, w := range d.Warnings {
		logger.Warn("warning",
			zap.String("kind", string(w.Kind)),
			zap.Ints("rooms", w.Rooms),
			zap.String("detail", w.Detail),
		)
	}
	enemies := 0
	for _, r := range d.Rooms {
		enemies += len(r.Enemies)
	}
	logger.Info("dungeon summary",
		zap.Uint64("seed", seed),
		zap.Int("rooms", d.RoomCount()),
		zap.Int("corridors", len(d.Corridors)),
		zap.Int("start_room", d.StartRoom),
		zap.Int("key_room", d.KeyRoom),
		zap.Int("enemies", enemies),
		zap.Int("obstacles", len(d.Obstacles)),
		zap.Int("warnings", len(d.Warnings)),
		zap.Bool("connected", d.Connected()),
		zap.Duration("elapsed", time.Since(start)),
	)

	if *ascii {
		fmt.Fprint(os.Stdout, d.Render())
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default()
	}
	return config.Load(path)
}

package main

import (
	"log"

	"ashgrove/internal/config"
	"ashgrove/internal/enemy"
	"ashgrove/internal/loot"
	"ashgrove/internal/quests"
	"ashgrove/internal/sim"
	"ashgrove/internal/view"
	"ashgrove/internal/zone"

	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Warn("using built-in defaults", zap.Error(err))
		cfg = config.Defaults()
	}

	// Load data tables
	assets := sim.Assets{
		Archetypes: enemy.MustLoadArchetypes("assets/archetypes.yaml"),
		Loot:       loot.MustLoadTables("assets/loot.yaml"),
		Zones:      zone.MustLoad("assets/zones.yaml"),
	}

	var tracker *quests.Tracker
	questCfg, err := quests.LoadQuestConfig("assets/quests.yaml")
	if err != nil {
		logger.Warn("quests disabled", zap.Error(err))
	} else if tracker, err = quests.NewTracker(questCfg, quests.TableResolver(assets.Archetypes)); err != nil {
		logger.Warn("quests disabled", zap.Error(err))
		tracker = nil
	}

	opts := []sim.Option{sim.WithLogger(logger.Named("sim"))}
	if tracker != nil {
		opts = append(opts, sim.WithProgressHook(tracker))
	}
	world, err := sim.New(cfg, assets, opts...)
	if err != nil {
		logger.Fatal("failed to build world", zap.Error(err))
	}

	g := view.NewGame(cfg, world, tracker, logger.Named("view"))
	if err := view.Run(g); err != nil {
		logger.Fatal("game exited with error", zap.Error(err))
	}
}

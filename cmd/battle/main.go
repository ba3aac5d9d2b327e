// Package main fights a single battle between two random teams and prints
// every turn.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/cory-johannsen/battletower/internal/app"
	"github.com/cory-johannsen/battletower/internal/config"
	"github.com/cory-johannsen/battletower/internal/game/dice"
	"github.com/cory-johannsen/battletower/internal/observability"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	seed := flag.Int64("seed", 0, "override tower.seed; 0 keeps the configured seed")
	random := flag.Bool("random", false, "draw teams from crypto/rand instead of the seed")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *seed != 0 {
		cfg.Tower.Seed = *seed
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}
	defer a.Close()
	if *random {
		a.Roller = dice.NewLoggedRoller(dice.NewCryptoSource(), logger)
	}

	red, err := a.RandomTeam("Red")
	if err != nil {
		logger.Fatal("building team", zap.String("team", "Red"), zap.Error(err))
	}
	blue, err := a.RandomTeam("Blue")
	if err != nil {
		logger.Fatal("building team", zap.String("team", "Blue"), zap.Error(err))
	}
	fmt.Fprintf(os.Stdout, "Red:  %s\nBlue: %s\n", red.Roster(), blue.Roster())

	out, err := a.Engine.Battle(red, blue)
	if err != nil {
		logger.Fatal("battle", zap.Error(err))
	}
	for _, turn := range out.Turns {
		fmt.Fprintln(os.Stdout, turn)
	}
	fmt.Fprintf(os.Stdout, "result: %s after %d turns\n", out.Result, len(out.Turns))
}

// Package main runs a battle tower session: a random player team climbs a
// ladder of random opponents until it or every opponent is out of lives.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/battletower/internal/app"
	"github.com/cory-johannsen/battletower/internal/config"
	"github.com/cory-johannsen/battletower/internal/observability"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	roster := flag.Int("roster", 0, "number of opponent teams; 0 uses tower.roster_size")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *roster > 0 {
		cfg.Tower.RosterSize = *roster
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

	player, err := a.RandomTeam("Player")
	if err != nil {
		logger.Fatal("building player team", zap.Error(err))
	}
	tw := a.NewTower()
	tw.SetPlayerTeam(player)
	if err := tw.GenerateTeams(cfg.Tower.RosterSize); err != nil {
		logger.Fatal("generating opponents", zap.Error(err))
	}

	logger.Info("starting tower",
		zap.String("tower_id", tw.ID().String()),
		zap.String("player", player.Roster()),
		zap.Int("opponents", len(tw.Opponents())),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stdout, "player: %s\n", player.Roster())
	for tw.BattlesRemaining() {
		if ctx.Err() != nil {
			logger.Info("interrupted, stopping between battles", zap.Int("battles", tw.BattlesFought()))
			break
		}
		if missing := tw.OutOfMeta(); len(missing) > 0 {
			fmt.Fprintf(os.Stdout, "  out of meta: %v\n", missing)
		}
		rec, err := tw.NextBattle()
		if err != nil {
			logger.Fatal("tower battle", zap.Error(err))
		}
		fmt.Fprintf(os.Stdout, "battle %d vs %s: %s in %d turns (player %d lives, opponent %d lives)\n",
			tw.BattlesFought(), rec.Opponent, rec.Result, rec.Turns, rec.PlayerLives, rec.OpponentLives)
	}

	fmt.Fprintf(os.Stdout, "tower finished: %d battles, %d teams defeated, player lives %d [%s]\n",
		tw.BattlesFought(), len(tw.DeadTeams()), tw.PlayerLives(), time.Since(start).Round(time.Millisecond))
}

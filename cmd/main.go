package main

import (
	"math/rand"
	"time"

	"github.com/aquaeye/internal/alert"
	"github.com/aquaeye/internal/api"
	"github.com/aquaeye/internal/auth"
	"github.com/aquaeye/internal/config"
	"github.com/aquaeye/internal/database"
	"github.com/aquaeye/internal/engine"
	"github.com/aquaeye/internal/logger"
	"github.com/aquaeye/internal/notify"
	"github.com/aquaeye/internal/simulator"
	"github.com/aquaeye/internal/ws"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Init("info")
		logger.Logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Init(cfg.Log.Level)
	log := logger.WithComponent("main")

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer database.Close(db)

	hub := ws.NewHub()
	go hub.Run()

	dispatcher := notify.NewDispatcher(db, hub, cfg)

	sim := simulator.New(rand.New(rand.NewSource(time.Now().UnixNano())))
	evaluator := alert.NewEvaluator(cfg.Engine.StalenessBound)
	alerts := alert.NewManager(db, dispatcher, cfg.Engine.DedupWindow, cfg.Engine.RetentionWindow)

	eng := engine.New(db, sim, evaluator, alerts, dispatcher, *cfg)
	eng.Start()
	defer eng.Stop()

	authn := auth.New(db, cfg.Server.JWTSecret)
	server := api.NewServer(db, eng, alerts, hub, authn)
	if err := server.Start(cfg.Server.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start API server")
	}
}

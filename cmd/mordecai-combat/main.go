package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/api"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/config"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/constants"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/dice"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/effects"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/engine"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/events"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/game"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/logging"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/service"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/session"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/storage"
)

func main() {
	rt, err := config.LoadRuntime()
	if err != nil {
		logging.Fatal("Invalid runtime configuration", err, nil)
	}

	cfg, err := config.LoadConfig(rt.ConfigPath)
	if err != nil {
		logging.Fatal("Missing or invalid mordecai configuration", err, logging.Fields{"config_path": rt.ConfigPath, "hint": "create a mordecai_config.json with an 'effect_list' array of effect definitions and optional keys: npc_templates, seed_characters"})
	}

	db, err := storage.OpenAndMigrate(rt.DatabasePath, cfg.NPCTemplates, cfg.SeedCharacters)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	repo := storage.NewSQLiteRepository(db)

	registry := effects.NewRegistry(cfg.Effects)
	if err := service.VerifyContent(registry); err != nil {
		logging.Fatal("Content is missing required effect definitions", err, logging.Fields{constants.LogFieldEffect: service.EffectKeyWound})
	}
	fx := effects.NewEngine(registry, repo)

	roller := dice.NewRoller(dice.NewCryptoSeededSource())
	// Equipment data is owned by the item subsystem; until it is wired in,
	// every combatant fights with the unarmed fallback.
	equipment := game.NewStaticEquipment()
	attacks := engine.New(roller, equipment, fx)

	bus := events.NewLogBus()
	sessions := session.NewManager(repo, bus)
	svc := service.New(repo, sessions, attacks, fx, roller, bus)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go svc.RunHealthPulse(ctx, rt.HealthPulse)
	go svc.RunEffectPulse(ctx, rt.EffectPulse)
	go svc.RunNPCPulse(ctx, rt.NPCPulse)

	handler := api.NewCombatHandler(repo, registry, fx)

	router := gin.Default()
	router.GET(constants.RouteHealthz, handler.Healthz)

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		apiRoutes.GET("/version", api.Version)
		apiRoutes.GET(constants.RouteSessions, handler.ListSessions)
		apiRoutes.GET(constants.RouteSessionByUUID, handler.GetSession)
		apiRoutes.GET(constants.RouteSessionLog, handler.GetSessionLog)
		apiRoutes.GET(constants.RouteCombatantVitals, handler.GetCombatantVitals)
		apiRoutes.GET(constants.RouteEffectCatalog, handler.ListEffects)
	}

	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: rt.ListenAddr})
	if err := router.Run(rt.ListenAddr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}

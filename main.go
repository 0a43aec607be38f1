package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/mama165/sdk-go/logs"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cobra"

	"github.com/damione1/live-poll/internal/config"
	"github.com/damione1/live-poll/internal/handlers"
	"github.com/damione1/live-poll/internal/security"
	"github.com/damione1/live-poll/internal/services"
)

// Version information, set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := logs.GetLoggerFromString(cfg.LogLevel)

	pb := pocketbase.New()

	// Session state
	clock := services.SystemClock()
	metrics := services.NewMetrics()
	limiter := security.NewRateLimiter(config.MaxMessagesPerSecond, config.RateLimitWindow)
	hub := services.NewHub(metrics, limiter, logger)
	registry := services.NewParticipantRegistry(clock)
	engine := services.NewPollEngine(registry, clock)
	coordinator := services.NewCoordinator(registry, engine, hub, metrics, logger, cfg.TeacherName)
	router := services.NewRouter(coordinator, hub, logger)

	ctx, cancel := context.WithCancel(context.Background())
	go coordinator.Run(ctx)

	wsHandler := handlers.NewWSHandler(hub, router, security.NewOriginValidator(cfg.OriginPatterns()), logger)
	pollHandlers := handlers.NewPollHandlers(coordinator)

	// Add HTTP routes
	pb.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.GET("/{$}", handlers.Home)
		se.Router.GET("/ws", wsHandler.HandleWebSocket)

		// /api belongs to pocketbase
		g := se.Router.Group("/live")
		g.Bind(handlers.NoStore())
		g.GET("/health", handlers.HandleHealth(hub))
		g.GET("/metrics", handlers.HandleMetrics(hub))
		g.GET("/poll", pollHandlers.ActivePoll)
		g.GET("/history", pollHandlers.History)
		g.GET("/participants", pollHandlers.Participants)

		logger.Info("Live poll server ready", "addr", cfg.Addr(), "origins", cfg.OriginPatterns())
		return se.Next()
	})

	pb.OnTerminate().BindFunc(func(e *core.TerminateEvent) error {
		cancel()
		hub.Close()
		return e.Next()
	})

	pb.RootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("live-poll %s (commit %s)\n", version, commit)
		},
	})

	// Without arguments, serve on the configured address
	if len(os.Args) == 1 {
		pb.RootCmd.SetArgs([]string{"serve", "--http", cfg.Addr(), "--origins", cfg.AllowedOrigins})
	}

	if err := pb.Start(); err != nil {
		log.Fatal(err)
	}
}

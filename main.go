package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lab1702/fighter-ai/ai"
	"github.com/lab1702/fighter-ai/game"
	"github.com/lab1702/fighter-ai/server"
)

func main() {
	port := flag.String("port", "8080", "Server port")
	tuningPath := flag.String("config", "", "Autopilot tuning YAML (defaults built in)")
	scenarioPath := flag.String("scenario", "", "Scenario YAML (defaults to the built-in patrol)")
	recordPath := flag.String("record", "", "Write a zstd compressed telemetry recording to this file")
	tick := flag.Duration("tick", server.DefaultTick, "Simulation step")
	debug := flag.Bool("debug", false, "Development logging with fire control and radio traces")
	origins := flag.String("origins", "", "Comma separated viewer hosts allowed to open the websocket")
	flag.Parse()

	var logger *zap.Logger
	var err error
	if *debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ai.SetLogger(logger)
	server.SetLogger(logger)
	if *debug {
		ai.DebugFireControl = true
		server.DebugWeapons = true
		server.DebugTraffic = true
	}

	tuning := ai.DefaultTuning()
	if *tuningPath != "" {
		if tuning, err = ai.LoadTuningFile(*tuningPath); err != nil {
			logger.Fatal("loading tuning", zap.String("path", *tuningPath), zap.Error(err))
		}
	}

	var sc *game.Scenario
	if *scenarioPath != "" {
		sc, err = game.LoadScenarioFile(*scenarioPath)
	} else {
		sc, err = game.DefaultScenario()
	}
	if err != nil {
		logger.Fatal("loading scenario", zap.Error(err))
	}
	world, err := sc.Build()
	if err != nil {
		logger.Fatal("building scenario", zap.Error(err))
	}
	world.IndexContacts()

	var rec *server.Recorder
	if *recordPath != "" {
		if rec, err = server.OpenRecorder(*recordPath); err != nil {
			logger.Fatal("opening recording", zap.String("path", *recordPath), zap.Error(err))
		}
	}

	logger.Info("starting fighter simulation", zap.String("port", *port), zap.Duration("tick", *tick))

	var allowed []string
	for _, host := range strings.Split(*origins, ",") {
		if host = strings.TrimSpace(host); host != "" {
			allowed = append(allowed, host)
		}
	}

	// Create simulation server
	sim := server.NewServer(world, server.Options{
		Tuning:   tuning,
		Tick:     *tick,
		Recorder: rec,
		Origins:  allowed,
	})
	go sim.Run()

	mux := http.NewServeMux()

	// WebSocket telemetry endpoint
	mux.HandleFunc("/ws", sim.HandleWebSocket)

	// Ship list endpoint
	mux.HandleFunc("/api/ships", sim.HandleShips)

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Start HTTP server
	srv := &http.Server{
		Addr:         ":" + *port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	logger.Info("shutting down", zap.Stringer("signal", sig))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Stop the game loop and flush the recording
	sim.Shutdown()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("server shutdown", zap.Error(err))
	}

	logger.Info("server stopped", zap.String("run", sim.RunID().String()))
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"churn-predictor/api"
	"churn-predictor/config"
	"churn-predictor/model"
)

func main() {
	// load the environment variables
	_ = godotenv.Load()

	// parse the command line arguments
	cfg := parseFlags()

	// Initialize logging
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.WarnLevel
	}
	log.SetLevel(level)

	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	// Print welcome message
	printWelcome()

	// Load the prediction pipeline once; it is read-only from here on
	pipeline, err := model.Open(cfg.Model)
	if err != nil {
		log.Fatal("Failed to load pipeline: ", err)
	}
	log.WithField("pipeline", cfg.Model.Pipeline).Info("Pipeline loaded")

	// Create and start API server
	apiServer := api.NewServer(model.NewInvoker(pipeline))
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Info("Starting API server on ", addr)
		if err := apiServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start API server: ", err)
		}
	}()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	<-sigChan
	log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Error("Failed to shut down API server: ", err)
	}
}

func parseFlags() *config.Config {
	// Load config file, falling back to the environment
	cfg, err := config.LoadFromFile("./config.json")
	if err != nil {
		cfg, err = config.LoadFromEnv()
		if err != nil {
			log.Warn("Ignoring environment configuration: ", err)
			cfg = config.DefaultConfig()
		}
	}

	// Server flags
	flag.StringVar(&cfg.Server.Host, "host", cfg.Server.Host, "Host address")
	flag.StringVar(&cfg.Server.Port, "port", cfg.Server.Port, "Port number")

	// Pipeline flags
	flag.Var(&cfg.Model.Pipeline, "pipeline", "Pipeline kind (logistic, remote)")
	flag.StringVar(&cfg.Model.ArtifactPath, "artifact", cfg.Model.ArtifactPath, "Path to the logistic pipeline artifact")
	flag.StringVar(&cfg.Model.RemoteURL, "remote-url", cfg.Model.RemoteURL, "Scoring endpoint of a remote pipeline")
	flag.IntVar(&cfg.Model.RemoteTimeout, "remote-timeout", cfg.Model.RemoteTimeout, "Remote prediction timeout in seconds")

	// Log level flag
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error, fatal)")

	// Parse flags
	flag.Parse()

	return cfg
}

func printWelcome() {
	fmt.Println("  ___ _                    ___            _ _    _           ")
	fmt.Println(" / __| |_ _  _ _ _ _ _    | _ \\_ _ ___ __| (_)__| |_ ___ _ _ ")
	fmt.Println("| (__| ' \\ || | '_| ' \\   |  _/ '_/ -_) _` | / _|  _/ _ \\ '_|")
	fmt.Println(" \\___|_||_\\_,_|_| |_||_|  |_| |_| \\___\\__,_|_\\__|\\__\\___/_|  ")
}

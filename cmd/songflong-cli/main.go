package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"songflong/internal/adapters/downloader"
	"songflong/internal/adapters/ffmpeg"
	"songflong/internal/adapters/localstorage"
	"songflong/internal/adapters/media"
	"songflong/internal/adapters/tempo"
	"songflong/internal/adapters/ytdlp"
	"songflong/internal/pipeline"
	"songflong/internal/service"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// It's okay if .env doesn't exist, environment variables might be set manually
		fmt.Fprintln(os.Stderr, "No .env file found")
	}

	// Parse flags
	song := flag.String("song", "", "Seed song title to build tempo-matched videos from")
	dataDir := flag.String("data-dir", "./temp", "Base directory for session downloads and outputs")
	workers := flag.Int("workers", pipeline.DefaultWorkers, "Number of concurrent download workers")
	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Parse()

	if *song == "" {
		fmt.Println("Usage: songflong-cli -song <title> [-data-dir <path>] [-workers <n>]")
		fmt.Println("\nExample:")
		fmt.Println("  songflong-cli -song \"America childish gambino\"")
		fmt.Println("  songflong-cli -song \"Take On Me\" -workers 8")
		os.Exit(1)
	}

	// Setup logger
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	log.Info("=== songflong ===")
	log.Infof("Song: %s", *song)
	log.Infof("Data Directory: %s", *dataDir)

	// Initialize adapters
	tempoClient, err := tempo.NewClient()
	if err != nil {
		log.Fatalf("Failed to initialize tempo search: %v", err)
	}

	resolver := ytdlp.New()
	store := localstorage.NewLocalStorage(*dataDir)
	dl := media.NewDownloader(resolver, downloader.NewHTTPFetcher(), store)
	transcoder := ffmpeg.NewTranscoder()

	// Create generator
	generator := service.NewGenerator(tempoClient, resolver, dl, transcoder, store, *workers, log)

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Received interrupt signal, cancelling...")
		cancel()
	}()

	start := time.Now()
	result, err := generator.Run(ctx, *song)
	if err != nil {
		log.Fatalf("Session failed: %v", err)
	}

	// Print summary
	fmt.Println("\n=== Session Summary ===")
	fmt.Printf("Session ID:   %s\n", result.SessionID)
	fmt.Printf("Seed Song:    %s\n", result.SongTitle)
	fmt.Printf("BPM:          %d\n", result.BPM)
	fmt.Printf("Candidates:   %d\n", result.Candidates)
	fmt.Printf("Outputs:      %d\n", len(result.OutputFiles))
	for _, path := range result.OutputFiles {
		fmt.Printf("  %s\n", path)
	}
	fmt.Printf("Session Dir:  %s\n", result.SessionDir)
	fmt.Printf("Completed At: %s\n", result.CompletedAt.Format("2006-01-02 15:04:05 UTC"))

	log.Infof("Took %s", time.Since(start).Round(time.Millisecond))
}

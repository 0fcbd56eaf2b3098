package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-ir-engine/api"
	"github.com/gcbaptista/go-ir-engine/config"
	"github.com/gcbaptista/go-ir-engine/internal/engine"
)

func main() {
	var (
		help       = flag.Bool("help", false, "Show help message")
		port       = flag.String("port", "8080", "Port to run the server on")
		corpusPath = flag.String("corpus", "", "Path to the JSON corpus file (required)")
		configPath = flag.String("config", "", "Path to a YAML config file (optional)")
	)

	flag.Parse()

	if *help {
		fmt.Printf("Go IR Engine - positional-index document retrieval over a batch corpus\n\n")
		fmt.Printf("Usage: %s --corpus corpus.json [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		return
	}

	if *corpusPath == "" {
		log.Fatal("Missing required flag: --corpus")
	}

	settings := config.DefaultSettings()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		settings = loaded
	}

	log.Printf("Using corpus file: %s", *corpusPath)
	eng, err := engine.NewEngine(settings, *corpusPath, nil)
	if err != nil {
		log.Fatalf("Failed to initialize engine: %v", err)
	}
	defer eng.Stop()

	router := gin.Default()
	api.SetupRoutes(router, eng)

	log.Printf("Starting server on port %s...", *port)
	if err := router.Run(":" + *port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

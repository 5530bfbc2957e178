package main

import (
	"log"
	"os"
	"time"

	"tunematch/config"
	dbpkg "tunematch/db"
	"tunematch/recommender"
	"tunematch/router"
	"tunematch/store"
	"tunematch/tools"

	"github.com/gin-gonic/gin"
)

// =====================
// ENV esperadas
// =====================
//
// - CONFIG_PATH       (default: config.json)
// - AUTOMIGRATE       (1 para migrar o schema em dev)
// - OPENAI_API_KEY    (fallback quando ausente do config)
// - LASTFM_API_KEY    (opcional; liga o enriquecimento de tags)
//
// =====================

func main() {
	cfg := config.Get(getenv("CONFIG_PATH", "config.json"))

	dbpkg.SetConfigurations(cfg)
	database, err := dbpkg.Connect()
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	st := store.NewPreferenceStore(database)
	gateway := recommender.NewOpenAIGateway(
		cfg.OpenAI.ApiKey,
		cfg.OpenAI.BaseURL,
		cfg.OpenAI.Model,
		cfg.OpenAI.MaxTokens,
	)

	opts := recommender.Options{
		LearningRate: cfg.Recommender.LearningRate,
		BpmPull:      cfg.Recommender.BpmPull,
		Timeout:      time.Duration(cfg.OpenAI.TimeoutSeconds) * time.Second,
	}
	if cfg.LastFM.ApiKey != "" {
		opts.Enricher = tools.LastFMClient{APIKey: cfg.LastFM.ApiKey}
	}
	svc := recommender.NewService(st, gateway, opts)

	r := gin.New()
	r.Use(dbpkg.SetDBtoContext(database))
	router.Initialize(r, cfg, svc, st)

	log.Printf("tunematch listening on :%s", cfg.ApiPort)
	log.Fatal(r.Run(":" + cfg.ApiPort))
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

package config

import (
	"encoding/json"
	"log"
	"os"
)

type Configuration struct {
	ApiPort string `json:"api_port"`
	LogPath string `json:"log_path"`

	Database string `json:"database"` // "sqlite3" ou "postgres"
	DbHost   string `json:"db_host"`
	DbPort   string `json:"db_port"`
	DbUser   string `json:"db_user"`
	DbName   string `json:"db_name"`
	DbPass   string `json:"db_pass"`

	Security struct {
		JwtSecret       string `json:"jwt_secret"`
		TokenTTLMinutes int    `json:"token_ttl_minutes"`
	} `json:"security"`

	OpenAI struct {
		ApiKey         string `json:"api_key"`
		BaseURL        string `json:"base_url"`
		Model          string `json:"model"`
		MaxTokens      int    `json:"max_tokens"`
		TimeoutSeconds int    `json:"timeout_seconds"`
	} `json:"openai"`

	Recommender struct {
		LearningRate float64 `json:"learning_rate"`
		BpmPull      float64 `json:"bpm_pull"`
	} `json:"recommender"`

	LastFM struct {
		ApiKey string `json:"api_key"` // vazio = enriquecimento de tags desligado
	} `json:"lastfm"`
}

func Get(path string) Configuration {
	b, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	var c Configuration
	if err := json.Unmarshal(b, &c); err != nil {
		log.Fatal(err)
	}

	// defaults (pra evitar nil/zero chato)
	if c.ApiPort == "" {
		c.ApiPort = "8080"
	}
	if c.LogPath == "" {
		c.LogPath = "logs/server.log"
	}
	if c.Database == "" {
		c.Database = "sqlite3"
	}
	if c.Security.JwtSecret == "" {
		c.Security.JwtSecret = "CHANGE_ME"
	}
	if c.Security.TokenTTLMinutes <= 0 {
		c.Security.TokenTTLMinutes = 24 * 60
	}
	if c.OpenAI.ApiKey == "" {
		c.OpenAI.ApiKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
	if c.OpenAI.MaxTokens <= 0 {
		c.OpenAI.MaxTokens = 100
	}
	if c.OpenAI.TimeoutSeconds <= 0 {
		c.OpenAI.TimeoutSeconds = 10
	}
	if c.Recommender.LearningRate <= 0 {
		c.Recommender.LearningRate = 0.05
	}
	if c.Recommender.BpmPull <= 0 {
		c.Recommender.BpmPull = 0.1
	}
	if c.LastFM.ApiKey == "" {
		c.LastFM.ApiKey = os.Getenv("LASTFM_API_KEY")
	}

	return c
}

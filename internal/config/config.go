package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const defaultMaxHistory = 20

func Load() (*Config, error) {
	aiConfig, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	multiBot, err := loadMultiBotConfig()
	if err != nil {
		return nil, err
	}

	maxHistory := defaultMaxHistory
	if n, err := strconv.Atoi(os.Getenv("MAX_HISTORY")); err == nil && n > 0 {
		maxHistory = n
	}

	return &Config{
		AI:         aiConfig,
		Bots:       multiBot,
		Storage:    loadStorageConfig(),
		MaxHistory: maxHistory,
	}, nil
}

func loadAIConfig() (AIConfig, error) {
	provider := strings.ToLower(os.Getenv("AI_PROVIDER"))
	if provider == "" {
		provider = "openrouter"
	}

	if !IsKnownProvider(provider) {
		return AIConfig{}, fmt.Errorf("unknown AI_PROVIDER %q (valid: openai, gemini, anthropic, openrouter)", provider)
	}

	apiKey := os.Getenv("AI_API_KEY")
	if apiKey == "" {
		return AIConfig{}, fmt.Errorf("AI_API_KEY not set")
	}

	model := os.Getenv("AI_MODEL")
	if model == "" {
		resolved, err := resolveModel(provider)
		if err != nil {
			return AIConfig{}, err
		}
		model = resolved
	}

	return AIConfig{
		Provider: provider,
		APIKey:   apiKey,
		Model:    model,
	}, nil
}

func loadMultiBotConfig() (MultiBot, error) {
	telegramToken := os.Getenv("TELEGRAM_TOKEN")
	discordToken := os.Getenv("DISCORD_TOKEN")

	if telegramToken == "" && discordToken == "" {
		return MultiBot{}, fmt.Errorf("no bot configured: set TELEGRAM_TOKEN or DISCORD_TOKEN")
	}

	return MultiBot{
		Telegram: BotInstance{
			Enabled: telegramToken != "",
			Token:   telegramToken,
		},
		Discord: BotInstance{
			Enabled: discordToken != "",
			Token:   discordToken,
		},
	}, nil
}

func loadStorageConfig() StorageConfig {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = "minio:9000"
	}

	accessKey := os.Getenv("MINIO_ACCESS_KEY")
	secretKey := os.Getenv("MINIO_SECRET_KEY")

	return StorageConfig{
		Enabled:   accessKey != "" && secretKey != "",
		Endpoint:  endpoint,
		AccessKey: accessKey,
		SecretKey: secretKey,
		UseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
	}
}

package config

type Config struct {
	AI         AIConfig
	Bots       MultiBot
	Storage    StorageConfig
	MaxHistory int
}

type AIConfig struct {
	Provider string
	APIKey   string
	Model    string
}

type BotInstance struct {
	Enabled bool
	Token   string
}

type MultiBot struct {
	Telegram BotInstance
	Discord  BotInstance
}

type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

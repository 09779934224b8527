package bot

import (
	"context"

	"github.com/bwmarrin/discordgo"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/bowerhall/relay/internal/agent"
	"github.com/bowerhall/relay/internal/batch"
	"github.com/bowerhall/relay/internal/storage"
)

type Bot interface {
	Start(ctx context.Context) error
}

type telegram struct {
	api       *tgbotapi.BotAPI
	agent     *agent.Agent
	archive   *storage.Client
	collector *batch.Collector
}

type discord struct {
	session *discordgo.Session
	agent   *agent.Agent
	archive *storage.Client
	ctx     context.Context
}

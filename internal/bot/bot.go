package bot

import (
	"github.com/bowerhall/relay/internal/agent"
	"github.com/bowerhall/relay/internal/storage"
)

// NewTelegram builds the Telegram front-end. archive may be nil when
// media archival is not configured.
func NewTelegram(token string, agent *agent.Agent, archive *storage.Client) (Bot, error) {
	return newTelegram(token, agent, archive)
}

// NewDiscord builds the Discord front-end. archive may be nil.
func NewDiscord(token string, agent *agent.Agent, archive *storage.Client) (Bot, error) {
	return newDiscord(token, agent, archive)
}

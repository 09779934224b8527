package janitor

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bowerhall/relay/internal/conversation"
	"github.com/bowerhall/relay/internal/logger"
)

const maxIdle = 24 * time.Hour

// Janitor sweeps idle conversation histories so abandoned sessions don't
// accumulate for the lifetime of the process.
type Janitor struct {
	c     *cron.Cron
	store *conversation.Store
}

func New(store *conversation.Store) *Janitor {
	return &Janitor{c: cron.New(), store: store}
}

func (j *Janitor) Start() error {
	_, err := j.c.AddFunc("@hourly", func() {
		if removed := j.store.ClearIdle(maxIdle); removed > 0 {
			logger.Info("idle sessions cleared", "count", removed)
		}
	})
	if err != nil {
		return err
	}

	j.c.Start()
	return nil
}

func (j *Janitor) Stop() {
	j.c.Stop()
}

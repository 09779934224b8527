package batch

import (
	"sync"
	"time"

	"github.com/bowerhall/relay/internal/llm"
)

// DefaultQuiet is how long a media group must be silent before it flushes.
// Telegram delivers album photos as separate updates with no terminator,
// so a debounce window is the only way to know the album is complete.
const DefaultQuiet = 1500 * time.Millisecond

const defaultPrompt = "Please describe what you see in these images."

// FlushFunc receives a completed media group.
type FlushFunc func(chatID int64, sessionID string, parts []llm.Part)

type timer interface {
	Stop() bool
}

type group struct {
	chatID    int64
	sessionID string
	images    []llm.Part
	caption   string
	timer     timer
}

// Collector accumulates photos that share a media group ID and flushes
// them as one multimodal turn once the group goes quiet.
type Collector struct {
	mu        sync.Mutex
	quiet     time.Duration
	groups    map[string]*group
	flush     FlushFunc
	afterFunc func(d time.Duration, f func()) timer
}

func NewCollector(quiet time.Duration, flush FlushFunc) *Collector {
	if quiet <= 0 {
		quiet = DefaultQuiet
	}

	return &Collector{
		quiet:  quiet,
		groups: make(map[string]*group),
		flush:  flush,
		afterFunc: func(d time.Duration, f func()) timer {
			return time.AfterFunc(d, f)
		},
	}
}

// Add registers one photo of a media group and re-arms the quiet timer.
// The last non-empty caption in the group becomes the prompt.
func (c *Collector) Add(groupID string, chatID int64, sessionID string, image llm.Part, caption string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.groups[groupID]
	if !ok {
		g = &group{chatID: chatID, sessionID: sessionID}
		c.groups[groupID] = g
	}

	g.images = append(g.images, image)
	if caption != "" {
		g.caption = caption
	}

	if g.timer != nil {
		g.timer.Stop()
	}
	g.timer = c.afterFunc(c.quiet, func() { c.fire(groupID) })
}

func (c *Collector) fire(groupID string) {
	c.mu.Lock()
	g, ok := c.groups[groupID]
	if ok {
		delete(c.groups, groupID)
	}
	c.mu.Unlock()

	if !ok {
		return
	}

	caption := g.caption
	if caption == "" {
		caption = defaultPrompt
	}

	parts := append(g.images, llm.TextPart(caption))
	c.flush(g.chatID, g.sessionID, parts)
}

package batch

import (
	"fmt"
	"testing"
	"time"

	"github.com/bowerhall/relay/internal/llm"
)

// fakeTimer records arming and firing so tests control time.
type fakeTimer struct {
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := t.stopped
	t.stopped = true
	return !was
}

type fakeClock struct {
	timers []*fakeTimer
}

func (c *fakeClock) afterFunc(_ time.Duration, f func()) timer {
	ft := &fakeTimer{fn: f}
	c.timers = append(c.timers, ft)
	return ft
}

// fireLast runs the most recently armed timer if it was not superseded.
func (c *fakeClock) fireLast() {
	last := c.timers[len(c.timers)-1]
	if !last.stopped {
		last.fn()
	}
}

type flushRecord struct {
	chatID    int64
	sessionID string
	parts     []llm.Part
}

func newTestCollector() (*Collector, *fakeClock, *[]flushRecord) {
	clock := &fakeClock{}
	var flushed []flushRecord

	c := NewCollector(DefaultQuiet, func(chatID int64, sessionID string, parts []llm.Part) {
		flushed = append(flushed, flushRecord{chatID, sessionID, parts})
	})
	c.afterFunc = clock.afterFunc

	return c, clock, &flushed
}

func TestCollectorBatchesAlbum(t *testing.T) {
	c, clock, flushed := newTestCollector()

	for i := 0; i < 3; i++ {
		caption := ""
		if i == 1 {
			caption = "what is this?"
		}
		c.Add("album1", 42, "telegram:42", llm.ImagePart([]byte(fmt.Sprintf("img%d", i)), "image/jpeg"), caption)
	}
	clock.fireLast()

	if len(*flushed) != 1 {
		t.Fatalf("expected exactly one flush, got %d", len(*flushed))
	}

	rec := (*flushed)[0]
	if rec.chatID != 42 || rec.sessionID != "telegram:42" {
		t.Errorf("unexpected flush target: %+v", rec)
	}

	if len(rec.parts) != 4 {
		t.Fatalf("expected 3 images + 1 text part, got %d", len(rec.parts))
	}

	for i := 0; i < 3; i++ {
		if rec.parts[i].Type != llm.PartImage || string(rec.parts[i].Data) != fmt.Sprintf("img%d", i) {
			t.Errorf("image %d out of order: %+v", i, rec.parts[i])
		}
	}

	last := rec.parts[3]
	if last.Type != llm.PartText || last.Text != "what is this?" {
		t.Errorf("expected caption as trailing text part, got %+v", last)
	}
}

func TestCollectorDefaultPrompt(t *testing.T) {
	c, clock, flushed := newTestCollector()

	c.Add("album1", 1, "telegram:1", llm.ImagePart([]byte("img"), "image/jpeg"), "")
	clock.fireLast()

	rec := (*flushed)[0]
	last := rec.parts[len(rec.parts)-1]
	if last.Text != defaultPrompt {
		t.Errorf("expected default prompt, got %q", last.Text)
	}
}

func TestCollectorLastCaptionWins(t *testing.T) {
	c, clock, flushed := newTestCollector()

	c.Add("album1", 1, "telegram:1", llm.ImagePart([]byte("a"), "image/jpeg"), "first")
	c.Add("album1", 1, "telegram:1", llm.ImagePart([]byte("b"), "image/jpeg"), "")
	c.Add("album1", 1, "telegram:1", llm.ImagePart([]byte("c"), "image/jpeg"), "second")
	clock.fireLast()

	rec := (*flushed)[0]
	last := rec.parts[len(rec.parts)-1]
	if last.Text != "second" {
		t.Errorf("expected last non-empty caption, got %q", last.Text)
	}
}

func TestCollectorEachAddSupersedesTimer(t *testing.T) {
	c, clock, flushed := newTestCollector()

	c.Add("album1", 1, "telegram:1", llm.ImagePart([]byte("a"), "image/jpeg"), "")
	c.Add("album1", 1, "telegram:1", llm.ImagePart([]byte("b"), "image/jpeg"), "")

	if len(clock.timers) != 2 {
		t.Fatalf("expected 2 armed timers, got %d", len(clock.timers))
	}

	if !clock.timers[0].stopped {
		t.Error("first timer must be stopped when a new photo arrives")
	}

	// stale timer firing anyway must not flush a second time
	clock.timers[0].fn()
	clock.fireLast()
	clock.timers[0].fn()

	if len(*flushed) != 1 {
		t.Errorf("expected exactly one flush, got %d", len(*flushed))
	}
}

func TestCollectorIndependentGroups(t *testing.T) {
	c, clock, flushed := newTestCollector()

	c.Add("album1", 1, "telegram:1", llm.ImagePart([]byte("a"), "image/jpeg"), "")
	c.Add("album2", 2, "telegram:2", llm.ImagePart([]byte("b"), "image/jpeg"), "")

	for _, ft := range clock.timers {
		if !ft.stopped {
			ft.fn()
		}
	}

	if len(*flushed) != 2 {
		t.Fatalf("expected both groups to flush, got %d", len(*flushed))
	}
}

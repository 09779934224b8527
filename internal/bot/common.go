package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/bowerhall/relay/internal/logger"
	"github.com/bowerhall/relay/internal/storage"
)

// maxMediaSize is the maximum size for media downloads (20MB).
const maxMediaSize = 20 * 1024 * 1024

const singleImagePrompt = "Please describe what you see in this image."

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}

	return s[:max] + "..."
}

func errorReply(err error) string {
	return fmt.Sprintf("⚠️ AI error: %v", err)
}

// archiveMedia copies a media payload to object storage off the message
// path. Failures are logged, never surfaced to the chat.
func archiveMedia(archive *storage.Client, sessionID, name string, data []byte, contentType string) {
	if archive == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := archive.Archive(ctx, sessionID, name, data, contentType); err != nil {
			logger.Error("media archive failed", "session", sessionID, "error", err)
		}
	}()
}

package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/bowerhall/relay/internal/agent"
	"github.com/bowerhall/relay/internal/extract"
	"github.com/bowerhall/relay/internal/llm"
	"github.com/bowerhall/relay/internal/logger"
	"github.com/bowerhall/relay/internal/storage"
	"github.com/bowerhall/relay/internal/sysinfo"
)

// Discord caps messages well below Telegram's limit.
const discordMaxChunk = 2000

func newDiscord(token string, ag *agent.Agent, archive *storage.Client) (Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	d := &discord{session: session, agent: ag, archive: archive}
	session.AddHandler(d.handleMessage)

	return d, nil
}

func (d *discord) Start(ctx context.Context) error {
	d.ctx = ctx

	if err := d.session.Open(); err != nil {
		return err
	}

	logger.Info("discord bot started")

	<-ctx.Done()
	return d.session.Close()
}

func (d *discord) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID {
		return
	}

	sessionID := fmt.Sprintf("discord:%s", m.ChannelID)

	if handled := d.handleCommand(s, m, sessionID); handled {
		return
	}

	parts, stored := d.collectAttachments(s, m, sessionID)
	if stored {
		return
	}

	if len(parts) == 0 && m.Content == "" {
		return
	}

	logger.Info("message received", "session", sessionID, "from", m.Author.Username, "text", truncate(m.Content, 50))
	s.ChannelTyping(m.ChannelID)

	var chunks []string
	var err error

	if len(parts) > 0 {
		if m.Content != "" {
			parts = append(parts, llm.TextPart(m.Content))
		} else {
			parts = append(parts, llm.TextPart(singleImagePrompt))
		}
		chunks, err = d.agent.ProcessParts(d.ctx, sessionID, parts)
	} else {
		chunks, err = d.agent.Process(d.ctx, sessionID, m.Content)
	}

	if err != nil {
		d.send(s, m, errorReply(err))
		return
	}

	for _, chunk := range chunks {
		for _, piece := range splitForDiscord(chunk) {
			d.send(s, m, piece)
		}
	}
}

func (d *discord) handleCommand(s *discordgo.Session, m *discordgo.MessageCreate, sessionID string) bool {
	switch strings.TrimSpace(m.Content) {
	case "/clear":
		d.agent.Clear(sessionID)
		d.send(s, m, "Conversation history cleared.")
	case "/model":
		d.send(s, m, fmt.Sprintf("Provider: %s\nModel: %s", d.agent.Provider(), d.agent.Model()))
	case "/status":
		d.send(s, m, sysinfo.Summary())
	default:
		return false
	}

	return true
}

// collectAttachments downloads image and pdf attachments. A lone PDF with
// no message text is stored as context and acknowledged; stored reports
// that case so the caller stops.
func (d *discord) collectAttachments(s *discordgo.Session, m *discordgo.MessageCreate, sessionID string) (parts []llm.Part, stored bool) {
	for _, att := range m.Attachments {
		isImage := strings.HasPrefix(att.ContentType, "image/")
		isPDF := att.ContentType == "application/pdf" || strings.HasSuffix(strings.ToLower(att.Filename), ".pdf")

		if !isImage && !isPDF {
			continue
		}

		data, err := downloadAttachment(att.URL)
		if err != nil {
			logger.Error("attachment download failed", "session", sessionID, "error", err)
			continue
		}

		archiveMedia(d.archive, sessionID, att.Filename, data, att.ContentType)

		if isImage {
			parts = append(parts, llm.ImagePart(data, att.ContentType))
			continue
		}

		text := extract.PDFText(data)
		if m.Content == "" && len(m.Attachments) == 1 {
			d.agent.StorePDF(sessionID, text)
			d.send(s, m, "PDF received and stored as context.")
			return nil, true
		}

		parts = append(parts, llm.PDFPart(text))
	}

	return parts, false
}

func (d *discord) send(s *discordgo.Session, m *discordgo.MessageCreate, text string) {
	if _, err := s.ChannelMessageSendReply(m.ChannelID, text, m.Reference()); err != nil {
		logger.Error("discord send failed", "channelID", m.ChannelID, "error", err)
	}
}

func splitForDiscord(text string) []string {
	runes := []rune(text)
	if len(runes) <= discordMaxChunk {
		return []string{text}
	}

	var pieces []string
	for i := 0; i < len(runes); i += discordMaxChunk {
		end := i + discordMaxChunk
		if end > len(runes) {
			end = len(runes)
		}
		pieces = append(pieces, string(runes[i:end]))
	}

	return pieces
}

func downloadAttachment(url string) ([]byte, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed: HTTP %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxMediaSize))
}

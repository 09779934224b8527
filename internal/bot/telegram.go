package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/bowerhall/relay/internal/agent"
	"github.com/bowerhall/relay/internal/batch"
	"github.com/bowerhall/relay/internal/extract"
	"github.com/bowerhall/relay/internal/llm"
	"github.com/bowerhall/relay/internal/logger"
	"github.com/bowerhall/relay/internal/storage"
	"github.com/bowerhall/relay/internal/sysinfo"
)

const helpText = `I relay your messages to an AI model and keep the conversation going.

Commands:
/start - show this introduction
/help - show this message
/clear - forget the conversation history
/model - show the active provider and model
/status - show process health

Send text, photos (with or without a caption), or PDF documents.`

func newTelegram(token string, ag *agent.Agent, archive *storage.Client) (Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	t := &telegram{api: api, agent: ag, archive: archive}

	// album flushes run after the originating update is long gone, so they
	// carry their own context
	t.collector = batch.NewCollector(batch.DefaultQuiet, func(chatID int64, sessionID string, parts []llm.Part) {
		t.respondParts(context.Background(), chatID, 0, sessionID, parts)
	})

	return t, nil
}

func (t *telegram) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := t.api.GetUpdatesChan(u)

	logger.Info("telegram bot started", "username", t.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil {
				continue
			}

			go t.handleMessage(ctx, update.Message)
		}
	}
}

func (t *telegram) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	sessionID := fmt.Sprintf("telegram:%d", msg.Chat.ID)

	switch {
	case msg.IsCommand():
		t.handleCommand(msg, sessionID)
	case len(msg.Photo) > 0:
		t.handlePhoto(ctx, msg, sessionID)
	case msg.Document != nil:
		t.handleDocument(ctx, msg, sessionID)
	case msg.Text != "":
		logger.Info("message received", "session", sessionID, "from", msg.From.UserName, "text", truncate(msg.Text, 50))
		t.respondText(ctx, msg.Chat.ID, msg.MessageID, sessionID, msg.Text)
	}
}

func (t *telegram) handleCommand(msg *tgbotapi.Message, sessionID string) {
	switch msg.Command() {
	case "start", "help":
		t.send(msg.Chat.ID, 0, helpText)
	case "clear":
		t.agent.Clear(sessionID)
		t.send(msg.Chat.ID, 0, "Conversation history cleared.")
	case "model":
		t.send(msg.Chat.ID, 0, fmt.Sprintf("Provider: %s\nModel: %s", t.agent.Provider(), t.agent.Model()))
	case "status":
		t.send(msg.Chat.ID, 0, sysinfo.Summary())
	default:
		t.send(msg.Chat.ID, 0, "Unknown command. Try /help.")
	}
}

func (t *telegram) handlePhoto(ctx context.Context, msg *tgbotapi.Message, sessionID string) {
	// largest size variant is last
	photo := msg.Photo[len(msg.Photo)-1]

	data, mediaType, err := t.downloadFile(photo.FileID)
	if err != nil {
		logger.Error("photo download failed", "session", sessionID, "error", err)
		t.send(msg.Chat.ID, msg.MessageID, "Couldn't download that photo, sorry.")
		return
	}

	archiveMedia(t.archive, sessionID, "photo.jpg", data, mediaType)
	logger.Info("photo received", "session", sessionID, "from", msg.From.UserName, "caption", truncate(msg.Caption, 50))

	image := llm.ImagePart(data, mediaType)

	if msg.MediaGroupID != "" {
		t.collector.Add(msg.MediaGroupID, msg.Chat.ID, sessionID, image, msg.Caption)
		return
	}

	caption := msg.Caption
	if caption == "" {
		caption = singleImagePrompt
	}

	t.respondParts(ctx, msg.Chat.ID, msg.MessageID, sessionID, []llm.Part{image, llm.TextPart(caption)})
}

func (t *telegram) handleDocument(ctx context.Context, msg *tgbotapi.Message, sessionID string) {
	doc := msg.Document

	isImage := strings.HasPrefix(doc.MimeType, "image/")
	isPDF := doc.MimeType == "application/pdf" || strings.HasSuffix(strings.ToLower(doc.FileName), ".pdf")

	if !isImage && !isPDF {
		t.send(msg.Chat.ID, msg.MessageID, "I can only handle images and PDF documents.")
		return
	}

	data, mediaType, err := t.downloadFile(doc.FileID)
	if err != nil {
		logger.Error("document download failed", "session", sessionID, "error", err)
		t.send(msg.Chat.ID, msg.MessageID, "Couldn't download that file, sorry.")
		return
	}

	archiveMedia(t.archive, sessionID, doc.FileName, data, mediaType)
	logger.Info("document received", "session", sessionID, "from", msg.From.UserName, "name", doc.FileName, "type", doc.MimeType)

	if isImage {
		caption := msg.Caption
		if caption == "" {
			caption = singleImagePrompt
		}

		t.respondParts(ctx, msg.Chat.ID, msg.MessageID, sessionID, []llm.Part{llm.ImagePart(data, mediaType), llm.TextPart(caption)})
		return
	}

	text := extract.PDFText(data)

	if msg.Caption != "" {
		t.respondParts(ctx, msg.Chat.ID, msg.MessageID, sessionID, []llm.Part{llm.PDFPart(text), llm.TextPart(msg.Caption)})
		return
	}

	// no question asked: keep it as context for later turns
	t.agent.StorePDF(sessionID, text)
	t.send(msg.Chat.ID, msg.MessageID, "PDF received and stored as context.")
}

func (t *telegram) respondText(ctx context.Context, chatID int64, replyTo int, sessionID, text string) {
	t.sendTyping(chatID)

	chunks, err := t.agent.Process(ctx, sessionID, text)
	if err != nil {
		t.send(chatID, replyTo, errorReply(err))
		return
	}

	t.sendChunks(chatID, replyTo, chunks)
}

func (t *telegram) respondParts(ctx context.Context, chatID int64, replyTo int, sessionID string, parts []llm.Part) {
	t.sendTyping(chatID)

	chunks, err := t.agent.ProcessParts(ctx, sessionID, parts)
	if err != nil {
		t.send(chatID, replyTo, errorReply(err))
		return
	}

	t.sendChunks(chatID, replyTo, chunks)
}

func (t *telegram) sendChunks(chatID int64, replyTo int, chunks []string) {
	for _, chunk := range chunks {
		t.send(chatID, replyTo, chunk)
	}
}

func (t *telegram) send(chatID int64, replyTo int, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if replyTo > 0 {
		msg.ReplyToMessageID = replyTo
	}

	if _, err := t.api.Send(msg); err != nil {
		logger.Error("send failed", "chatID", chatID, "error", err)
	}
}

func (t *telegram) sendTyping(chatID int64) {
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	if _, err := t.api.Request(action); err != nil {
		logger.Debug("typing action failed", "chatID", chatID, "error", err)
	}
}

func (t *telegram) downloadFile(fileID string) ([]byte, string, error) {
	file, err := t.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, "", err
	}

	url := file.Link(t.api.Token)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("download failed: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxMediaSize))
	if err != nil {
		return nil, "", err
	}

	mediaType := http.DetectContentType(data)

	return data, mediaType, nil
}

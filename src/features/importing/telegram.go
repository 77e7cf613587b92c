package importing

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramHandler handles Telegram commands for the importing feature
type TelegramHandler struct {
	service *Service
}

// NewTelegramHandler creates a new Telegram handler for the importing feature
func NewTelegramHandler(service *Service) *TelegramHandler {
	return &TelegramHandler{service: service}
}

// HandleCommand processes import-related Telegram commands
func (h *TelegramHandler) HandleCommand(bot *tgbotapi.BotAPI, chatID int64, command string, args string) error {
	switch command {
	case "import":
		return h.handleImport(bot, chatID, args)
	default:
		msg := tgbotapi.NewMessage(chatID, "❌ Unknown import command. Use /import <path>")
		msg.ParseMode = tgbotapi.ModeMarkdown
		bot.Send(msg)
		return nil
	}
}

// GetCommands returns the available commands for this handler
func (h *TelegramHandler) GetCommands() map[string]string {
	return map[string]string{
		"import": "Import a directory into the catalog",
	}
}

// HandleCallback handles callback queries for this feature (importing has no callbacks)
func (h *TelegramHandler) HandleCallback(bot *tgbotapi.BotAPI, callback *tgbotapi.CallbackQuery) bool {
	return false
}

// handleImport starts a directory import job
func (h *TelegramHandler) handleImport(bot *tgbotapi.BotAPI, chatID int64, args string) error {
	path := strings.TrimSpace(args)
	if path == "" {
		path = h.service.config.Get().LibraryPath
	}

	jobID, err := h.service.ImportDirectory(context.Background(), path)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("❌ Failed to start import: %v", err))
		bot.Send(msg)
		return err
	}

	message := fmt.Sprintf("📀 *Import started*\n\nPath: `%s`\nJob: `%s`\n\nUse /jobs to follow progress.", path, jobID)
	msg := tgbotapi.NewMessage(chatID, message)
	msg.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(msg)
	return nil
}

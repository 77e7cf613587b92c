package library

import (
	"context"
	"fmt"
	"strings"

	"github.com/cleriovision/musicdb/src/music"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramHandler handles Telegram commands for the library feature
type TelegramHandler struct {
	service *Service
}

// NewTelegramHandler creates a new Telegram handler for the library feature
func NewTelegramHandler(service *Service) *TelegramHandler {
	return &TelegramHandler{service: service}
}

// HandleCommand processes library-related Telegram commands
func (h *TelegramHandler) HandleCommand(bot *tgbotapi.BotAPI, chatID int64, command string, args string) error {
	switch command {
	case "stats":
		return h.handleStats(bot, chatID)
	case "search":
		return h.handleSearch(bot, chatID, args)
	case "tree":
		return h.handleTree(bot, chatID)
	default:
		bot.Send(tgbotapi.NewMessage(chatID, "❌ Unknown library command. Use /stats, /search <artist> or /tree"))
		return nil
	}
}

// GetCommands returns the available commands for this handler
func (h *TelegramHandler) GetCommands() map[string]string {
	return map[string]string{
		"stats":  "Show library statistics",
		"search": "Search tracks by artist name",
		"tree":   "Show library file tree",
	}
}

// HandleCallback handles callback queries for this feature (library has no callbacks)
func (h *TelegramHandler) HandleCallback(bot *tgbotapi.BotAPI, callback *tgbotapi.CallbackQuery) bool {
	return false
}

// handleStats shows library statistics
func (h *TelegramHandler) handleStats(bot *tgbotapi.BotAPI, chatID int64) error {
	ctx := context.Background()

	stats, err := h.service.GetStats(ctx)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ Failed to get library statistics")
		msg.ParseMode = tgbotapi.ModeMarkdown
		bot.Send(msg)
		return err
	}

	message := fmt.Sprintf("📊 *Library Statistics*\n\n"+
		"👤 Artists: `%d`\n---\n"+
		"💿 Albums: `%d`\n---\n"+
		"🎵 Tracks: `%d`\n---\n"+
		"⏱ Total time: `%s`",
		stats.ArtistCount, stats.AlbumCount, stats.TrackCount,
		music.FormatDuration(stats.TotalDurationSeconds))

	msg := tgbotapi.NewMessage(chatID, message)
	msg.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(msg)
	return nil
}

// handleSearch searches tracks by artist name
func (h *TelegramHandler) handleSearch(bot *tgbotapi.BotAPI, chatID int64, args string) error {
	term := strings.TrimSpace(args)
	if term == "" {
		bot.Send(tgbotapi.NewMessage(chatID, "Usage: /search <artist>"))
		return nil
	}

	results, err := h.service.SearchTracksByArtist(context.Background(), term)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ Search failed")
		bot.Send(msg)
		return err
	}

	if len(results) == 0 {
		bot.Send(tgbotapi.NewMessage(chatID, fmt.Sprintf("🔍 No tracks found for *%s*", term)))
		return nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🔍 *Tracks matching %s*\n\n", term))
	for i, r := range results {
		if i >= 20 {
			sb.WriteString(fmt.Sprintf("... and %d more\n", len(results)-i))
			break
		}
		sb.WriteString(fmt.Sprintf("🎵 %s — %s (`%s`)\n", r.TrackTitle, r.AlbumTitle, r.FormattedDuration()))
	}

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(msg)
	return nil
}

// handleTree shows the library file tree
func (h *TelegramHandler) handleTree(bot *tgbotapi.BotAPI, chatID int64) error {
	tree, err := h.service.GetLibraryFileTree()
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("❌ Failed to get library file tree: %s", err.Error()))
		msg.ParseMode = tgbotapi.ModeMarkdown
		bot.Send(msg)
		return err
	}

	if len(tree) > 4000 {
		tree = tree[:4000] + "\n... (truncated)"
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
			Name:  "library_tree.txt",
			Bytes: []byte(tree),
		})
		bot.Send(doc)
	} else {
		message := fmt.Sprintf("🌳 *Library File Tree*\n\n```\n%s\n```", tree)
		msg := tgbotapi.NewMessage(chatID, message)
		msg.ParseMode = tgbotapi.ModeMarkdown
		bot.Send(msg)
	}
	return nil
}

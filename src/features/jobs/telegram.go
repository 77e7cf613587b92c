package jobs

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramHandler answers job queries over Telegram.
type TelegramHandler struct {
	service *Service
}

// NewTelegramHandler creates a new Telegram handler for the jobs feature
func NewTelegramHandler(service *Service) *TelegramHandler {
	return &TelegramHandler{service: service}
}

// HandleCommand processes jobs-related Telegram commands
func (h *TelegramHandler) HandleCommand(bot *tgbotapi.BotAPI, chatID int64, command string, args string) error {
	if command != "jobs" {
		h.send(bot, chatID, "❌ Unknown jobs command. Use /jobs")
		return nil
	}
	return h.listJobs(bot, chatID)
}

// GetCommands returns the available commands for this handler
func (h *TelegramHandler) GetCommands() map[string]string {
	return map[string]string{
		"jobs": "Show import jobs and their progress",
	}
}

// HandleCallback handles callback queries for this feature (jobs has no callbacks)
func (h *TelegramHandler) HandleCallback(bot *tgbotapi.BotAPI, callback *tgbotapi.CallbackQuery) bool {
	return false
}

// listJobs renders every known job, newest first. Running jobs show their
// progress; finished ones show how they ended and how long they took.
func (h *TelegramHandler) listJobs(bot *tgbotapi.BotAPI, chatID int64) error {
	all := h.service.GetJobs()
	if len(all) == 0 {
		h.send(bot, chatID, "📋 *No jobs*\n\nStart one with /import")
		return nil
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	var b strings.Builder
	b.WriteString("📋 *Jobs*\n\n")
	for _, job := range all {
		b.WriteString(h.renderJob(job))
	}

	h.send(bot, chatID, b.String())
	return nil
}

func (h *TelegramHandler) renderJob(job *Job) string {
	line := fmt.Sprintf("%s `%s`", statusEmoji(job.Status), jobLabel(job))
	if job.Status == JobStatusRunning || job.Status == JobStatusPending {
		return fmt.Sprintf("%s: %s (%d%%)\n", line, job.Message, job.Progress)
	}

	took := job.UpdatedAt.Sub(job.CreatedAt).Round(time.Second)
	return fmt.Sprintf("%s: %s (took %s)\n", line, job.Message, took)
}

// jobLabel translates internal job types into something readable in chat.
func jobLabel(job *Job) string {
	switch job.Type {
	case "directory_import":
		if path, ok := job.Metadata["path"].(string); ok && path != "" {
			return "Import " + path
		}
		return "Directory import"
	default:
		return job.Name
	}
}

func statusEmoji(status JobStatus) string {
	switch status {
	case JobStatusPending:
		return "⏳"
	case JobStatusRunning:
		return "🔄"
	case JobStatusCompleted:
		return "✅"
	case JobStatusFailed:
		return "❌"
	case JobStatusCancelled:
		return "🚫"
	default:
		return "❓"
	}
}

func (h *TelegramHandler) send(bot *tgbotapi.BotAPI, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(msg)
}

package hosting

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"github.com/cleriovision/musicdb/src/features/config"
	"github.com/cleriovision/musicdb/src/features/importing"
	"github.com/cleriovision/musicdb/src/features/jobs"
	"github.com/cleriovision/musicdb/src/features/library"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramCommandHandler is implemented by each feature exposing chat
// commands.
type TelegramCommandHandler interface {
	HandleCommand(bot *tgbotapi.BotAPI, chatID int64, command string, args string) error
	// GetCommands maps each command the feature answers to a short
	// description shown in /help.
	GetCommands() map[string]string
	// HandleCallback reports whether the feature consumed the callback.
	HandleCallback(bot *tgbotapi.BotAPI, callback *tgbotapi.CallbackQuery) bool
}

// menuAction binds an inline-menu selection to a feature command. Selections
// with prompt set ask the user to reply with input first.
type menuAction struct {
	feature string
	command string
	prompt  string
}

var menuActions = map[string]menuAction{
	"menu_jobs":       {feature: "jobs", command: "jobs"},
	"menu_config":     {feature: "config", command: "config"},
	"menu_lib_stats":  {feature: "library", command: "stats"},
	"menu_lib_tree":   {feature: "library", command: "tree"},
	"menu_lib_search": {feature: "library", command: "search", prompt: "🔍 *Search the library*\n\nPlease reply with an artist name:"},
	"menu_import_dir": {feature: "importing", command: "import", prompt: "📁 *Import Directory*\n\nPlease reply with the directory path to import:\n\nLeave empty to import the configured library path, or specify a custom path like `/path/to/music`"},
}

// TelegramBot routes chat commands, inline menus and reply prompts to the
// feature handlers.
type TelegramBot struct {
	bot           *tgbotapi.BotAPI
	config        *config.Manager
	handlers      map[string]TelegramCommandHandler
	routes        map[string]string // command -> feature, from GetCommands
	updates       tgbotapi.UpdatesChannel
	stopChan      chan struct{}
	pendingInputs map[string]string // chatID_messageID -> menu action key
}

// NewTelegramBot creates a new Telegram bot instance
func NewTelegramBot(cfg *config.Manager, libraryService *library.Service, jobService *jobs.Service, importingService *importing.Service) (*TelegramBot, error) {
	telegramConfig := cfg.Get().Telegram

	if !telegramConfig.Enabled {
		return nil, fmt.Errorf("telegram bot is disabled in configuration")
	}
	if telegramConfig.Token == "" {
		return nil, fmt.Errorf("telegram bot token is not configured")
	}

	bot, err := tgbotapi.NewBotAPI(telegramConfig.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	slog.Info("Telegram bot initialized", "username", bot.Self.UserName)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30

	t := &TelegramBot{
		bot:           bot,
		config:        cfg,
		handlers:      make(map[string]TelegramCommandHandler),
		routes:        make(map[string]string),
		updates:       bot.GetUpdatesChan(updateConfig),
		stopChan:      make(chan struct{}),
		pendingInputs: make(map[string]string),
	}

	t.RegisterHandler("library", library.NewTelegramHandler(libraryService))
	t.RegisterHandler("config", config.NewTelegramHandler(cfg))
	t.RegisterHandler("jobs", jobs.NewTelegramHandler(jobService))
	t.RegisterHandler("importing", importing.NewTelegramHandler(importingService))

	return t, nil
}

// RegisterHandler registers a feature handler and routes every command it
// advertises.
func (t *TelegramBot) RegisterHandler(feature string, handler TelegramCommandHandler) {
	t.handlers[feature] = handler
	for command := range handler.GetCommands() {
		t.routes[command] = feature
	}
	slog.Debug("Registered Telegram handler", "feature", feature)
}

// Start begins listening for Telegram updates
func (t *TelegramBot) Start() {
	slog.Info("Starting Telegram bot listener")

	for {
		select {
		case update := <-t.updates:
			if update.Message != nil {
				go t.handleMessage(update)
			}
			if update.CallbackQuery != nil {
				go t.handleCallbackQuery(update)
			}
		case <-t.stopChan:
			slog.Info("Stopping Telegram bot listener")
			return
		}
	}
}

// Stop gracefully stops the bot
func (t *TelegramBot) Stop() {
	close(t.stopChan)
}

// handleMessage processes one incoming message from an authorized user.
func (t *TelegramBot) handleMessage(update tgbotapi.Update) {
	message := update.Message
	chatID := message.Chat.ID

	if !t.authorized(message) {
		t.sendMessage(chatID, "Unknown user, please add your user to the config")
		return
	}

	if message.IsCommand() {
		t.handleCommand(message)
		return
	}

	if message.ReplyToMessage != nil && t.handleReplyInput(message) {
		return
	}

	t.sendMessage(chatID, "🤖 Send /menu or /help to see available options")
}

// authorized checks the sender against the allowed-users list. An empty list
// locks the bot down.
func (t *TelegramBot) authorized(message *tgbotapi.Message) bool {
	allowedUsers := t.config.Get().Telegram.AllowedUsers
	if len(allowedUsers) == 0 {
		slog.Warn("No allowed users configured", "chat_id", message.Chat.ID)
		return false
	}

	username := message.From.UserName
	if username == "" {
		username = strings.TrimSpace(message.From.FirstName + " " + message.From.LastName)
	}
	if !slices.Contains(allowedUsers, username) {
		slog.Warn("Unauthorized user", "username", username, "chat_id", message.Chat.ID)
		return false
	}
	return true
}

// handleCommand dispatches a /command to its feature.
func (t *TelegramBot) handleCommand(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	command := message.Command()
	args := message.CommandArguments()

	slog.Debug("Processing command", "command", command, "args", args, "chat_id", chatID)

	switch command {
	case "help", "start", "menu":
		t.showMainMenu(chatID)
		return
	}

	feature, exists := t.routes[command]
	if !exists {
		t.sendMessage(chatID, "❌ Unknown command. Send /help to see available commands.")
		return
	}
	if err := t.handlers[feature].HandleCommand(t.bot, chatID, command, args); err != nil {
		slog.Error("Failed to handle command", "command", command, "error", err)
		t.sendMessage(chatID, "❌ Failed to process command")
	}
}

// escapeMarkdown escapes special characters for safe Markdown usage
func (t *TelegramBot) escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"`", "\\`", "*", "\\*", "_", "\\_", "[", "\\[", "]", "\\]",
		"(", "\\(", ")", "\\)", "~", "\\~", ">", "\\>", "#", "\\#",
		"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
		"}", "\\}", ".", "\\.", "!", "\\!",
	)
	return replacer.Replace(text)
}

// sendMessage sends a message to the specified chat
func (t *TelegramBot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := t.bot.Send(msg); err != nil {
		slog.Error("Failed to send message", "error", err, "chat_id", chatID)
	}
}

// handleCallbackQuery handles callback queries from inline keyboards
func (t *TelegramBot) handleCallbackQuery(update tgbotapi.Update) {
	callback := update.CallbackQuery

	if strings.HasPrefix(callback.Data, "menu_") {
		t.handleMenuCallback(callback)
		return
	}

	for _, handler := range t.handlers {
		if handler.HandleCallback(t.bot, callback) {
			break
		}
	}

	// Answer callback to remove loading state
	t.bot.Request(tgbotapi.NewCallback(callback.ID, ""))
}

// showMainMenu sends the inline main menu plus the full command list built
// from the registered handlers.
func (t *TelegramBot) showMainMenu(chatID int64) {
	var b strings.Builder
	b.WriteString("*🎵 MusicDB*\n\nChoose an action below or use a command:\n\n")

	commands := make([]string, 0, len(t.routes))
	for command := range t.routes {
		commands = append(commands, command)
	}
	sort.Strings(commands)
	for _, command := range commands {
		description := t.handlers[t.routes[command]].GetCommands()[command]
		b.WriteString(fmt.Sprintf("/%s - %s\n", command, t.escapeMarkdown(description)))
	}

	buttons := [][]tgbotapi.InlineKeyboardButton{
		{
			tgbotapi.NewInlineKeyboardButtonData("📊 Library", "menu_library"),
			tgbotapi.NewInlineKeyboardButtonData("📥 Import", "menu_import"),
		},
		{
			tgbotapi.NewInlineKeyboardButtonData("📋 Jobs", "menu_jobs"),
			tgbotapi.NewInlineKeyboardButtonData("⚙️ Config", "menu_config"),
		},
	}

	msg := tgbotapi.NewMessage(chatID, b.String())
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	if _, err := t.bot.Send(msg); err != nil {
		slog.Error("Failed to send menu", "error", err, "chat_id", chatID)
	}
}

// handleMenuCallback handles main menu callback queries
func (t *TelegramBot) handleMenuCallback(callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	data := callback.Data

	// Answer callback to remove loading state
	t.bot.Request(tgbotapi.NewCallback(callback.ID, ""))

	switch data {
	case "menu_back":
		t.showMainMenu(chatID)
		return
	case "menu_library":
		t.showLibraryMenu(chatID)
		return
	case "menu_import":
		data = "menu_import_dir"
	}

	action, exists := menuActions[data]
	if !exists {
		t.sendMessage(chatID, "❌ Unknown menu option")
		return
	}
	if action.prompt != "" {
		t.promptForInput(chatID, action.prompt, data)
		return
	}
	t.runMenuAction(chatID, action, "")
}

// showLibraryMenu shows library-specific options
func (t *TelegramBot) showLibraryMenu(chatID int64) {
	text := `*📊 Library Menu*

Choose a library action:`

	buttons := [][]tgbotapi.InlineKeyboardButton{
		{
			tgbotapi.NewInlineKeyboardButtonData("📈 Statistics", "menu_lib_stats"),
			tgbotapi.NewInlineKeyboardButtonData("🌳 File Tree", "menu_lib_tree"),
		},
		{
			tgbotapi.NewInlineKeyboardButtonData("🔍 Search Artist", "menu_lib_search"),
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", "menu_back"),
		},
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	t.bot.Send(msg)
}

// promptForInput asks the user to reply with input for the given menu action.
func (t *TelegramBot) promptForInput(chatID int64, promptText, actionKey string) {
	msg := tgbotapi.NewMessage(chatID, promptText)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.ForceReply{ForceReply: true}

	sentMsg, err := t.bot.Send(msg)
	if err != nil {
		slog.Error("Failed to send prompt", "error", err)
		return
	}

	t.pendingInputs[fmt.Sprintf("%d_%d", chatID, sentMsg.MessageID)] = actionKey
}

// handleReplyInput resolves a reply to one of our prompts. Returns false when
// the message is not an answer we are waiting for.
func (t *TelegramBot) handleReplyInput(message *tgbotapi.Message) bool {
	key := fmt.Sprintf("%d_%d", message.Chat.ID, message.ReplyToMessage.MessageID)
	actionKey, exists := t.pendingInputs[key]
	if !exists {
		return false
	}
	delete(t.pendingInputs, key)

	action, exists := menuActions[actionKey]
	if !exists {
		return false
	}
	t.runMenuAction(message.Chat.ID, action, message.Text)
	return true
}

func (t *TelegramBot) runMenuAction(chatID int64, action menuAction, args string) {
	handler, exists := t.handlers[action.feature]
	if !exists {
		t.sendMessage(chatID, fmt.Sprintf("❌ %s feature not available", t.escapeMarkdown(action.feature)))
		return
	}
	if err := handler.HandleCommand(t.bot, chatID, action.command, args); err != nil {
		slog.Error("Failed to handle menu command", "command", action.command, "error", err)
		t.sendMessage(chatID, "❌ Failed to process menu selection")
	}
}

package notifier

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// CommandHandler is called when a bot command is received. args is the
// text after the command.
type CommandHandler func(ctx context.Context, command, args string) string

// StartPolling long-polls for bot commands from the configured chat. Blocks
// until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 60
	updates := t.bot.GetUpdatesChan(cfg)

	for {
		select {
		case <-ctx.Done():
			t.bot.StopReceivingUpdates()
			t.logger.Info().Msg("telegram polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			msg := update.Message
			if msg == nil || !msg.IsCommand() {
				continue
			}
			if msg.Chat == nil || msg.Chat.ID != t.chatID {
				t.logger.Warn().Int64("chat_id", chatID(msg)).Msg("ignoring command from unknown chat")
				continue
			}

			command := msg.Command()
			t.logger.Info().Str("command", command).Msg("received command")
			reply := handler(ctx, command, strings.TrimSpace(msg.CommandArguments()))
			if reply == "" {
				continue
			}
			if err := t.sendTo(ctx, msg.Chat.ID, reply); err != nil {
				t.logger.Error().Err(err).Str("command", command).Msg("send reply failed")
			}
		}
	}
}

func chatID(msg *tgbotapi.Message) int64 {
	if msg.Chat == nil {
		return 0
	}
	return msg.Chat.ID
}

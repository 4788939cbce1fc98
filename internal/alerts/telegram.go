package alerts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
)

const maxAlertLen = 4096

// Notifier pushes operational events to an out-of-band channel. All methods
// are fire-and-forget.
type Notifier interface {
	Error(scope string, err error)
	Degraded(userID string, stages []string)
	PersistenceWarning(userID string, targets []string)
}

// TelegramNotifier sends alerts to a configured chat.
type TelegramNotifier struct {
	bot    *bot.Bot
	chatID int64
}

func NewTelegramNotifier(b *bot.Bot, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{bot: b, chatID: chatID}
}

func (n *TelegramNotifier) Error(scope string, err error) {
	n.send(fmt.Sprintf("❌ *Error*\n\n*Scope:* %s\n*Error:* `%s`\n*Time:* %s",
		scope, err.Error(), time.Now().Format("2006-01-02 15:04:05")))
}

func (n *TelegramNotifier) Degraded(userID string, stages []string) {
	n.send(fmt.Sprintf("⚠️ *Degraded diagnosis*\n\n*User:* `%s`\n*Stages:* %s",
		userID, strings.Join(stages, ", ")))
}

func (n *TelegramNotifier) PersistenceWarning(userID string, targets []string) {
	n.send(fmt.Sprintf("⚠️ *Persistence warning*\n\n*User:* `%s`\n*Failed writes:* %s",
		userID, strings.Join(targets, ", ")))
}

func (n *TelegramNotifier) send(message string) {
	if n == nil || n.bot == nil || n.chatID == 0 {
		return
	}
	if len([]rune(message)) > maxAlertLen {
		message = string([]rune(message)[:maxAlertLen-20]) + "\n\n... (truncated)"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    n.chatID,
		Text:      message,
		ParseMode: "Markdown",
	})
	if err != nil {
		slog.Error("failed to send telegram alert", "error", err)
	}
}

// Nop discards all alerts; used when no alert channel is configured.
type Nop struct{}

func (Nop) Error(string, error)                 {}
func (Nop) Degraded(string, []string)           {}
func (Nop) PersistenceWarning(string, []string) {}

// Package alert pushes low-stock warnings to an operator channel so items
// surfaced on the dashboard also reach someone who can reorder.
package alert

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-branchpos-ws/internal/model"
)

type Notifier interface {
	LowStock(item model.Item)
}

// NoopNotifier is used when no Telegram bot is configured.
type NoopNotifier struct{}

func (NoopNotifier) LowStock(item model.Item) {}

// TelegramNotifier sends low-stock messages to a fixed chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (n *TelegramNotifier) LowStock(item model.Item) {
	text := fmt.Sprintf("⚠️ Stok menipis: %s tersisa %d unit", item.ItemName, item.Stock)
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		log.Printf("Warning: failed to send low-stock alert for %s: %v", item.ItemName, err)
	}
}

package services

import (
	"time"

	tele "gopkg.in/telebot.v3"
)

// Bot pushes operator alerts (pool exhaustion, failed transfers) to a
// Telegram admin chat. A zero admin chat id disables sending.
type Bot struct {
	token       string
	adminChatID int64
}

func NewBot(token string, adminChatID int64) (*Bot, error) {
	return &Bot{token, adminChatID}, nil
}

func (bot *Bot) SendMsg(chatID int64, text string) error {
	pref := tele.Settings{
		Token:  bot.token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return err
	}

	_, err = b.Send(&tele.User{ID: chatID}, text, &tele.SendOptions{
		ParseMode: tele.ModeHTML,
	})
	if err != nil {
		return err
	}

	return nil
}

func (bot *Bot) SendAdminMsg(text string) error {
	if bot.adminChatID == 0 {
		return nil
	}

	return bot.SendMsg(bot.adminChatID, text)
}

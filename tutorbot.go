package tutorbot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/sirupsen/logrus"
	"github.com/tutormatch/tutorbot/database"
)

// Bot connects the conversation state machine to Telegram and the database.
type Bot struct {
	cfg       Config
	client    *tgbotapi.BotAPI
	db        *database.Database
	sessions  *Sessions
	screening *Screening
	log       *logrus.Logger
}

func New(cfg Config, log *logrus.Logger) (bot *Bot, err error) {
	bot = &Bot{
		cfg:       cfg,
		log:       log,
		sessions:  NewSessions(),
		screening: NewScreening(),
	}
	bot.db, err = database.OpenDatabase(cfg.DBPath, log)
	if err != nil {
		return nil, err
	}
	bot.client, err = tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	return bot, nil
}

func (bot *Bot) Close() error {
	return bot.db.Close()
}

// Run polls for updates until ctx is cancelled. Each user's messages arrive
// in order on the single update stream, so sessions need no extra locking
// beyond the session map itself.
func (bot *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates, err := bot.client.GetUpdatesChan(u)
	if err != nil {
		return err
	}
	bot.log.Infof("Authorized on account %s, database at %s", bot.client.Self.UserName, bot.cfg.DBPath)

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			for _, r := range bot.Handle(fromTelegram(update.Message)) {
				bot.send(r)
			}
		}
	}
}

func fromTelegram(msg *tgbotapi.Message) Message {
	m := Message{UserID: msg.Chat.ID, Text: msg.Text}
	if msg.IsCommand() {
		m.Command = msg.Command()
	}
	if msg.Contact != nil {
		m.ContactPhone = msg.Contact.PhoneNumber
	}
	return m
}

// send delivers one outbound message. Delivery failures are logged and
// dropped: a tutor who never started the bot simply misses the notification,
// and the sender's transition has already happened.
func (bot *Bot) send(r Reply) {
	msg := tgbotapi.NewMessage(r.ChatID, r.Text)
	if r.Markdown {
		msg.ParseMode = tgbotapi.ModeMarkdown
	}
	switch {
	case r.RemoveKeyboard:
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	case r.Keyboard != nil:
		msg.ReplyMarkup = toTelegramKeyboard(r.Keyboard, r.OneTime)
	}
	if _, err := bot.client.Send(msg); err != nil {
		bot.log.Warnf("Failed to send message to %d: %v", r.ChatID, err)
	}
}

func toTelegramKeyboard(kb Keyboard, oneTime bool) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, len(kb))
	for i, row := range kb {
		buttons := make([]tgbotapi.KeyboardButton, len(row))
		for j, b := range row {
			if b.RequestContact {
				buttons[j] = tgbotapi.NewKeyboardButtonContact(b.Text)
			} else {
				buttons[j] = tgbotapi.NewKeyboardButton(b.Text)
			}
		}
		rows[i] = buttons
	}
	markup := tgbotapi.NewReplyKeyboard(rows...)
	markup.OneTimeKeyboard = oneTime
	return markup
}

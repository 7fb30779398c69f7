package bot

import (
	"log/slog"

	"Pollster/core"
	"Pollster/lib/sl"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

type TgBot struct {
	conf   *core.Config
	log    *slog.Logger
	api    *tgbotapi.BotAPI
	survey core.SurveyService
}

func NewTgBot(conf *core.Config, log *slog.Logger) (*TgBot, error) {
	api, err := tgbotapi.NewBotAPI(conf.TelegramApiKey)
	if err != nil {
		return nil, err
	}
	return &TgBot{
		conf: conf,
		log:  log.With(sl.Module("bot")),
		api:  api,
	}, nil
}

// SetSurvey sets the survey service handling classified events.
func (t *TgBot) SetSurvey(survey core.SurveyService) {
	t.survey = survey
}

func (t *TgBot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates, err := t.api.GetUpdatesChan(u)
	if err != nil {
		return err
	}

	for update := range updates {
		if update.Message == nil {
			continue
		}
		incoming := update.Message

		// surveys run in private chats; groups may still ask for
		// their id to be put into the audience config
		if !incoming.Chat.IsPrivate() && !incoming.IsCommand() {
			continue
		}

		logText := incoming.Text
		if len(logText) > 50 {
			logText = logText[:50] + "..."
		}
		t.log.Debug("incoming", sl.User(incoming.Chat.ID), slog.String("text", logText))

		go t.survey.HandleEvent(classify(incoming))
	}
	return nil
}

func (t *TgBot) Stop() {
	t.api.StopReceivingUpdates()
}

func classify(incoming *tgbotapi.Message) core.Event {
	ev := core.Event{UserID: incoming.Chat.ID}
	switch {
	case incoming.IsCommand():
		ev.Kind = core.EventCommand
		ev.Command = incoming.Command()
	case incoming.Photo != nil && len(*incoming.Photo) > 0:
		photos := *incoming.Photo
		ev.Kind = core.EventPhoto
		// sizes are ordered smallest first
		ev.PhotoFileID = photos[len(photos)-1].FileID
		ev.Text = incoming.Caption
	default:
		ev.Kind = core.EventText
		ev.Text = incoming.Text
	}
	return ev
}

func (t *TgBot) SendText(chatId int64, text string, keyboard [][]string) error {
	msg := tgbotapi.NewMessage(chatId, text)
	if keyboard != nil {
		msg.ReplyMarkup = replyKeyboard(keyboard)
	}
	_, err := t.api.Send(msg)
	return err
}

func (t *TgBot) SendPhoto(chatId int64, fileId, caption string) error {
	photo := tgbotapi.NewPhotoShare(chatId, fileId)
	photo.Caption = caption
	_, err := t.api.Send(photo)
	return err
}

func replyKeyboard(rows [][]string) tgbotapi.ReplyKeyboardMarkup {
	buttonRows := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
		}
		buttonRows = append(buttonRows, buttons)
	}
	kb := tgbotapi.NewReplyKeyboard(buttonRows...)
	kb.ResizeKeyboard = true
	return kb
}

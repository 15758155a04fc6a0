package main

import (
	"log"
	"os"
	"time"

	"github.com/hiendaovinh/toolkit/pkg/env"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	tele "gopkg.in/telebot.v3"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

const (
	textStart = `💖 Welcome to CharmTap!

Tap to earn gems, chat with your favorite characters and spin the wheel for prizes.

‼️ Tip: Pin CharmTap at the top of your Telegram for fastest access.
`
	textHelp = `Commands:

/start - open the game
/help - this message`
)

func main() {
	app := &cli.App{
		Name: "bot-telegram",
		Commands: []*cli.Command{
			commandBot(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandBot() *cli.Command {
	return &cli.Command{
		Name:   "server",
		Action: action,
	}
}

func action(c *cli.Context) error {
	vs, err := env.EnvsRequired(
		"BOT_TOKEN",
	)
	if err != nil {
		return err
	}

	pref := tele.Settings{
		Token:  vs["BOT_TOKEN"],
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return err
	}

	playMarkup := &tele.ReplyMarkup{
		InlineKeyboard: [][]tele.InlineButton{
			{{Text: "💖 Play Now", WebApp: &tele.WebApp{URL: os.Getenv("TELEGRAM_WEB_APP_URL")}}},
			{{Text: "🔊 Latest news", URL: os.Getenv("TELEGRAM_ANNOUNCEMENT_URL")}},
		},
	}

	b.Handle("/start", func(c tele.Context) error {
		log.Println("/start:", "user:", c.Sender().ID, "username:", c.Sender().Username)
		return c.Send(textStart, &tele.SendOptions{
			ParseMode:   tele.ModeHTML,
			ReplyMarkup: playMarkup,
		})
	})

	b.Handle("/help", func(c tele.Context) error {
		return c.Send(textHelp)
	})

	log.Println("bot started")
	b.Start()
	return nil
}

package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/heronbot/heron/bot"
	"github.com/heronbot/heron/config"
	"github.com/heronbot/heron/connectors/cli"
	"github.com/heronbot/heron/connectors/slackrtm"
	"github.com/heronbot/heron/plugins"
	"github.com/heronbot/heron/web"

	_ "github.com/heronbot/heron/plugins/help"
	_ "github.com/heronbot/heron/plugins/ping"
	_ "github.com/heronbot/heron/plugins/seen"
)

var (
	cfile   = flag.String("config", "config.json", "Config file to load. (Defaults to config.json)")
	useCli  = flag.Bool("cli", false, "Talk to the bot on stdin instead of Slack.")
	httpOff = flag.Bool("nohttp", false, "Disable the HTTP status interface.")
)

func main() {
	flag.Parse()

	c, err := config.ReadConfig(*cfile)
	if err != nil {
		zlog.Fatal().Err(err).Msg("could not load config")
	}

	if c.Get("env", "") == "development" {
		zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	var conn bot.Connector
	if *useCli {
		conn = cli.New(c, os.Stdin, os.Stdout)
	} else {
		conn = slackrtm.New(c)
	}

	b := bot.New(c, conn)
	plugins.Load(b)

	if !*httpOff {
		ws := web.New(c, b)
		go ws.ListenAndServe(c.Get("httpaddr", "127.0.0.1:1337"))
	}

	if err := conn.Serve(); err != nil {
		zlog.Fatal().Err(err).Msg("transport failed")
	}
}

package cli

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/heronbot/heron/bot"
	"github.com/heronbot/heron/bot/msg"
	"github.com/heronbot/heron/bot/user"
	"github.com/heronbot/heron/config"
)

// Cli is a transport for talking to the bot on a terminal. Every input line
// arrives as a direct message from a synthetic user; replies print to the
// writer. It exists for local development, not production.
type Cli struct {
	config *config.Config
	in     io.Reader
	out    io.Writer

	event bot.Callback
	done  chan struct{}
}

func New(c *config.Config, in io.Reader, out io.Writer) *Cli {
	return &Cli{
		config: c,
		in:     in,
		out:    out,
		done:   make(chan struct{}),
	}
}

func (c *Cli) RegisterEvent(f bot.Callback) {
	c.event = f
}

// Serve authenticates with a synthetic payload, then feeds input lines
// through the pipeline until EOF.
func (c *Cli) Serve() error {
	nick := c.config.Get("nick", "heron")
	channel := c.config.Get("defaultchannel", "general")

	c.emit(bot.Event{Kind: bot.Authenticated, Auth: &bot.AuthPayload{
		SelfID:   "U0",
		SelfName: nick,
		TeamID:   "T0",
		TeamName: "cli",
		Users: []user.User{
			{ID: "U0", Name: nick, BotID: "B0"},
			{ID: "U1", Name: "you"},
		},
		Channels: []bot.Channel{{ID: "C0", Name: channel}},
	}})
	c.emit(bot.Event{Kind: bot.Connected})

	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		select {
		case <-c.done:
			return nil
		default:
		}
		c.emit(bot.Event{Kind: bot.Message, Msg: msg.Message{
			ID:             uuid.NewString(),
			User:           &user.User{ID: "U1", Name: "you"},
			Channel:        "D0",
			Body:           scanner.Text(),
			IsIM:           true,
			Time:           time.Now(),
			AdditionalData: map[string]string{},
		}})
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	c.emit(bot.Event{Kind: bot.Disconnected})
	return nil
}

func (c *Cli) emit(ev bot.Event) {
	if c.event == nil {
		return
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	c.event(ev)
}

func (c *Cli) Send(channel, message string) (string, error) {
	fmt.Fprintf(c.out, "%s> %s\n", channel, message)
	return uuid.NewString(), nil
}

func (c *Cli) Reply(channel, message string, replyTo msg.Message) (string, error) {
	return c.Send(channel, message)
}

func (c *Cli) Disconnect() error {
	log.Debug().Msg("cli transport closing")
	select {
	case <-c.done:
	default:
		close(c.done)
	}
	return nil
}

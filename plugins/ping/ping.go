package ping

import (
	"fmt"
	"time"

	"github.com/heronbot/heron/bot"
	"github.com/heronbot/heron/bot/msg"
	"github.com/heronbot/heron/plugins"
)

func init() {
	plugins.Register("ping", func(b bot.Bot) bot.Plugin { return New(b) })
}

// PingPlugin answers liveness checks and echoes text back, mostly useful
// for verifying that routing and replies work end to end.
type PingPlugin struct {
	bot     bot.Bot
	started time.Time
	matcher plugins.Matcher
}

func New(b bot.Bot) *PingPlugin {
	p := &PingPlugin{
		bot:     b,
		started: time.Now(),
	}
	p.matcher.Handle(`(?i)^ping\b`, p.pong)
	p.matcher.Handle(`(?i)^echo\s+(.+)`, p.echo)
	p.matcher.Handle(`(?i)^uptime\b`, p.uptime)
	return p
}

func (p *PingPlugin) Name() string { return "ping" }

func (p *PingPlugin) ProcessMessage(m msg.Message) error {
	p.matcher.Process(m)
	return nil
}

func (p *PingPlugin) pong(m msg.Message, match []string) {
	p.bot.Reply(m.Channel, "pong", m)
}

func (p *PingPlugin) echo(m msg.Message, match []string) {
	p.bot.Send(m.Channel, match[1])
}

func (p *PingPlugin) uptime(m msg.Message, match []string) {
	up := time.Since(p.started).Round(time.Second)
	p.bot.Send(m.Channel, fmt.Sprintf("up %s", up))
}

package help

import (
	"fmt"
	"sort"
	"strings"

	"github.com/heronbot/heron/bot"
	"github.com/heronbot/heron/bot/msg"
	"github.com/heronbot/heron/plugins"
)

func init() {
	plugins.Register("help", func(b bot.Bot) bot.Plugin { return New(b) })
}

// HelpPlugin lists what is loaded.
type HelpPlugin struct {
	bot     bot.Bot
	matcher plugins.Matcher
}

func New(b bot.Bot) *HelpPlugin {
	p := &HelpPlugin{bot: b}
	p.matcher.Handle(`(?i)^help\b`, p.help)
	return p
}

func (p *HelpPlugin) Name() string { return "help" }

func (p *HelpPlugin) ProcessMessage(m msg.Message) error {
	p.matcher.Process(m)
	return nil
}

func (p *HelpPlugin) help(m msg.Message, match []string) {
	names := []string{}
	for _, pl := range p.bot.Plugins() {
		names = append(names, pl.Name())
	}
	sort.Strings(names)
	p.bot.Send(m.Channel, fmt.Sprintf("Loaded plugins: %s", strings.Join(names, ", ")))
}

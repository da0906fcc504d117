package plugins

import (
	"regexp"

	"github.com/heronbot/heron/bot/msg"
)

// HandlerFunc reacts to a message whose body matched a registered pattern.
// match holds the full match followed by any capture groups.
type HandlerFunc func(m msg.Message, match []string)

type binding struct {
	re *regexp.Regexp
	fn HandlerFunc
}

// Matcher is a shared helper for the common plugin shape: a list of
// pattern→handler bindings tried against each message body. Plugins embed
// or hold one and lean on Process for their ProcessMessage.
type Matcher struct {
	bindings []binding
}

// Handle binds a compiled pattern to fn. Patterns are tried in the order
// they were bound. The pattern must compile; these are programmer
// constants, so a bad one fails loudly at startup.
func (h *Matcher) Handle(pattern string, fn HandlerFunc) {
	h.bindings = append(h.bindings, binding{
		re: regexp.MustCompile(pattern),
		fn: fn,
	})
}

// Process invokes every binding whose pattern matches the message body and
// reports whether any did.
func (h *Matcher) Process(m msg.Message) bool {
	matched := false
	for _, b := range h.bindings {
		if groups := b.re.FindStringSubmatch(m.Body); groups != nil {
			matched = true
			b.fn(m, groups)
		}
	}
	return matched
}

package bot

import (
	"regexp"
	"strings"

	"github.com/heronbot/heron/bot/msg"
)

// mentionPattern matches a leading mention of name: optional "@", the name,
// then at least one whitespace rune. Case-insensitive.
func mentionPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^@?` + regexp.QuoteMeta(name) + `\s+`)
}

// accept decides whether an inbound message is addressed to us.
//
// Ordered, short-circuit:
//  1. our own user id never talks to us
//  2. our own service identity never talks to us
//  3. direct messages are always for us
//  4. channel traffic is for us only when it leads with a mention
//
// A message with no sender at all is not self-authored; it falls through to
// 3 and 4. The mention pattern is rebuilt from the live identity every time
// rather than cached.
func (b *bot) accept(m msg.Message) bool {
	id := b.identity
	if m.User != nil && m.User.ID == id.SelfID {
		return false
	}
	if m.BotID != "" && m.BotID == id.BotID {
		return false
	}
	if m.IsIM {
		return true
	}
	return mentionPattern(id.SelfName).MatchString(strings.TrimSpace(m.Body))
}

// normalize produces the canonical body plugins see: whitespace trimmed and
// exactly one leading mention stripped. Only accepted messages are
// normalized. Idempotent on already-normalized text.
func (b *bot) normalize(m msg.Message) msg.Message {
	body := strings.TrimSpace(m.Body)
	m.Body = mentionPattern(b.identity.SelfName).ReplaceAllString(body, "")
	return m
}

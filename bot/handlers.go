package bot

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/heronbot/heron/bot/msg"
	"github.com/heronbot/heron/bot/user"
)

// Receive is the single entry point for transport events. The connector
// calls it from its serve loop, one event at a time; an event is processed
// to completion, fan-out included, before the next one arrives.
func (b *bot) Receive(ev Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Err(panicErr(r)).Str("id", ev.ID).Stringer("kind", ev.Kind).Msg("dropping event that broke the pipeline")
		}
	}()

	switch ev.Kind {
	case Authenticated:
		b.authenticated(ev)
	case Connected:
		b.connected()
	case Message:
		b.message(ev)
	case ReactionAdded:
		b.reaction(ev)
	case Disconnected:
		b.disconnected()
	default:
		log.Debug().Str("id", ev.ID).Stringer("kind", ev.Kind).Msg("ignoring transport event")
	}
}

func (b *bot) authenticated(ev Event) {
	if ev.Auth == nil {
		log.Error().Str("id", ev.ID).Msg("authenticated event without a payload; dropping it")
		return
	}

	id, err := NewIdentity(ev.Auth, b.config.Get("defaultchannel", "general"))
	if err != nil {
		log.Error().Err(err).Msg("bad startup configuration")
		b.shutdown()
		return
	}

	b.identity = id
	log.Info().
		Str("self", id.SelfName).
		Str("team", id.TeamName).
		Int("users", len(id.Users)).
		Str("channel", id.DefaultChannel.Name).
		Msg("authenticated")
}

func (b *bot) connected() {
	if b.identity == nil {
		log.Warn().Msg("connected before authentication; no greeting")
		return
	}
	greeting := b.config.Get("welcomemsg", "")
	if greeting == "" {
		return
	}
	if _, err := b.Send(b.identity.DefaultChannel.ID, greeting); err != nil {
		log.Error().Err(err).Str("channel", b.identity.DefaultChannel.Name).Msg("could not send greeting")
	}
}

// message runs the acceptance pipeline: filter, normalize, classify, and on
// the message branch fan out to every plugin in registration order.
func (b *bot) message(ev Event) {
	if b.identity == nil {
		log.Warn().Str("id", ev.ID).Msg("message before authentication; dropping it")
		return
	}

	m := ev.Msg
	if !b.accept(m) {
		log.Debug().Str("id", ev.ID).Str("channel", m.Channel).Msg("message not addressed to us")
		return
	}

	m = b.normalize(m)
	m.User = b.effectiveSender(m)
	if m.SubType == "" {
		m.SubType = msg.SubTypeMessage
	}

	switch m.SubType {
	case msg.SubTypeChannelJoin, msg.SubTypeGroupJoin:
		log.Info().Str("user", m.User.Name).Str("channel", m.Channel).Msg("joined channel")
	case msg.SubTypeChannelLeave, msg.SubTypeGroupLeave:
		log.Info().Str("user", m.User.Name).Str("channel", m.Channel).Msg("left channel")
	case msg.SubTypeChannelTopic, msg.SubTypeGroupTopic:
		log.Info().Str("user", m.User.Name).Str("channel", m.Channel).Str("topic", m.Topic).Msg("topic changed")
	default:
		log.Debug().Str("user", m.User.Name).Str("channel", m.Channel).Str("body", m.Body).Msg("dispatching message")
		b.fanout(m)
	}
}

// effectiveSender resolves who we attribute the message to: the user record
// when present, the service identity otherwise, and an empty placeholder as
// a last resort so plugins never dereference a nil sender.
func (b *bot) effectiveSender(m msg.Message) *user.User {
	if m.User != nil {
		return m.User
	}
	if m.BotID != "" {
		if u, ok := b.identity.Users[m.BotID]; ok {
			return &u
		}
		return &user.User{ID: m.BotID, Name: m.BotID, BotID: m.BotID}
	}
	return &user.User{}
}

// fanout hands the normalized message to every plugin, in order. One
// plugin's failure is that plugin's problem; the rest still get the message.
func (b *bot) fanout(m msg.Message) {
	for _, p := range b.plugins {
		b.dispatch(p, m)
	}
}

func (b *bot) dispatch(p Plugin, m msg.Message) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Err(panicErr(r)).Str("plugin", p.Name()).Msg("plugin panicked processing a message")
		}
	}()
	if err := p.ProcessMessage(m); err != nil {
		log.Error().Err(err).Str("plugin", p.Name()).Msg("plugin failed to process a message")
	}
}

func (b *bot) reaction(ev Event) {
	if ev.Reaction == nil {
		return
	}
	log.Debug().
		Str("emoji", ev.Reaction.Emoji).
		Str("channel", ev.Reaction.Channel).
		Str("user", ev.Reaction.UserID).
		Msg("reaction added")
}

// disconnected applies the reconnect policy: with autoReconnect we log and
// wait for the connector to restore the session, without it we shut the
// transport down and leave with a failing status.
func (b *bot) disconnected() {
	if b.config.GetBool("autoreconnect", false) {
		log.Warn().Msg("transport disconnected; waiting for it to reconnect")
		return
	}
	log.Error().Msg("transport disconnected and autoReconnect is off; shutting down")
	b.shutdown()
}

func (b *bot) shutdown() {
	if err := b.conn.Disconnect(); err != nil {
		log.Error().Err(err).Msg("error disconnecting transport")
	}
	b.exit(1)
}

func panicErr(r interface{}) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}

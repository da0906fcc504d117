package msg

import (
	"time"

	"github.com/heronbot/heron/bot/user"
)

// Slack message subtypes the router cares about. An empty subtype is
// treated as SubTypeMessage.
const (
	SubTypeMessage      = "message"
	SubTypeBotMessage   = "bot_message"
	SubTypeChannelJoin  = "channel_join"
	SubTypeGroupJoin    = "group_join"
	SubTypeChannelLeave = "channel_leave"
	SubTypeGroupLeave   = "group_leave"
	SubTypeChannelTopic = "channel_topic"
	SubTypeGroupTopic   = "group_topic"
)

// Message is one inbound chat event as the connectors hand it to the bot.
// The router owns it for the duration of one dispatch: it may rewrite Body
// during normalization before plugins see it.
type Message struct {
	ID string
	// User is the human sender, if the service reported one
	User *user.User
	// BotID is the service identity of an automated sender, if any
	BotID string
	// With Slack, Channel is the ID of a channel
	Channel string
	// ChannelName is the nice name of a channel, when known
	ChannelName string
	Body        string
	SubType     string
	// Topic carries the new topic for topic-change subtypes
	Topic          string
	IsIM           bool
	Raw            interface{}
	Time           time.Time
	AdditionalData map[string]string
}

// Reaction is an emoji reaction to an earlier message.
type Reaction struct {
	Emoji     string
	Channel   string
	UserID    string
	MessageID string
	Time      time.Time
}

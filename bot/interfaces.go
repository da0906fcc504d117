package bot

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/heronbot/heron/bot/msg"
	"github.com/heronbot/heron/bot/user"
	"github.com/heronbot/heron/config"
)

const (
	_ Kind = iota

	// Authenticated fires once, when the transport has a session and an
	// identity payload for us
	Authenticated
	// Connected fires when the transport is ready to carry traffic
	Connected
	// Message is any inbound chat event, including join/leave/topic
	// notices carried as message subtypes
	Message
	// ReactionAdded is an emoji reaction to an earlier message
	ReactionAdded
	// Disconnected fires when the transport loses its session
	Disconnected
)

// Kind discriminates the transport events the core reacts to. Anything a
// connector sees that does not map onto one of these is the connector's own
// business.
type Kind int

func (k Kind) String() string {
	switch k {
	case Authenticated:
		return "authenticated"
	case Connected:
		return "connected"
	case Message:
		return "message"
	case ReactionAdded:
		return "reaction_added"
	case Disconnected:
		return "disconnected"
	}
	return "unknown"
}

// Event is the envelope a Connector hands to the core. Exactly one of the
// payload fields is populated, selected by Kind.
type Event struct {
	ID   string
	Kind Kind

	// Msg is set for Message events
	Msg msg.Message
	// Auth is set for Authenticated events
	Auth *AuthPayload
	// Reaction is set for ReactionAdded events
	Reaction *msg.Reaction
}

// Callback receives every transport event, one at a time.
type Callback func(Event)

// Connector is the boundary with the real-time transport. Implementations
// own the wire protocol, reconnection, and identity fetch; the core only
// sees events and a way to talk back.
type Connector interface {
	RegisterEvent(Callback)

	Send(channel, message string) (string, error)
	Reply(channel, message string, replyTo msg.Message) (string, error)

	Serve() error
	Disconnect() error
}

// Bot is the context handed to plugins at construction.
type Bot interface {
	Config() *config.Config
	DB() *sqlx.DB

	// Identity returns nil until an Authenticated event has been processed
	Identity() *Identity

	AddPlugin(Plugin)
	Plugins() []Plugin

	Send(channel, message string) (string, error)
	Reply(channel, message string, replyTo msg.Message) (string, error)

	Receive(Event)

	Who(channel string) []user.User
}

// Plugin is the one contract the dispatcher requires. ProcessMessage is
// invoked once per accepted message-category event, in registration order.
type Plugin interface {
	Name() string
	ProcessMessage(m msg.Message) error
}

// Initializer is an optional plugin hook invoked synchronously at
// registration time.
type Initializer interface {
	Init() error
}

// WebRegistrant is an optional plugin hook for exposing an HTTP surface.
type WebRegistrant interface {
	RegisterWeb() (string, http.Handler)
}

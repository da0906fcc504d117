package bot

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/heronbot/heron/bot/user"
)

// Channel is one channel or private group from the authentication payload.
type Channel struct {
	ID      string
	Name    string
	IsGroup bool
}

// AuthPayload is everything the transport learned about us when the session
// was established.
type AuthPayload struct {
	SelfID   string
	SelfName string
	TeamID   string
	TeamName string
	Users    []user.User
	Channels []Channel
}

// Identity is the read-only snapshot the router consults on every event.
// It is built once per session and never mutated afterward.
type Identity struct {
	SelfID   string
	SelfName string
	// BotID is our own service identity, used to suppress echoes of our
	// own posts arriving as bot_message events
	BotID    string
	TeamID   string
	TeamName string

	Users map[string]user.User

	DefaultChannel Channel
}

// NewIdentity derives the session identity from an authentication payload.
// It fails when defaultChannel names no channel or group we can see; that is
// a configuration defect and has to surface now, not during the first
// greeting attempt.
func NewIdentity(p *AuthPayload, defaultChannel string) (*Identity, error) {
	id := &Identity{
		SelfID:   p.SelfID,
		SelfName: p.SelfName,
		TeamID:   p.TeamID,
		TeamName: p.TeamName,
		Users:    make(map[string]user.User, len(p.Users)),
	}

	for _, u := range p.Users {
		id.Users[u.ID] = u
		if u.ID == p.SelfID {
			id.BotID = u.BotID
		}
	}
	if id.BotID == "" {
		log.Warn().
			Str("self", p.SelfID).
			Msg("directory has no bot id for us; echo suppression limited to the user id")
	}

	found := false
	for _, ch := range p.Channels {
		if ch.Name == defaultChannel {
			id.DefaultChannel = ch
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("defaultChannel %q does not match any channel or group visible to %s; fix the config or invite the bot", defaultChannel, p.SelfName)
	}

	return id, nil
}

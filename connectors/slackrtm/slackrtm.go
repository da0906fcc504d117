package slackrtm

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"

	"github.com/heronbot/heron/bot"
	"github.com/heronbot/heron/bot/msg"
	"github.com/heronbot/heron/bot/user"
	"github.com/heronbot/heron/config"
)

// SlackRTM carries the bot over Slack's real-time messaging socket. It owns
// the wire protocol and reconnection; the core only sees bot.Events.
type SlackRTM struct {
	config *config.Config
	api    *slack.Client
	rtm    *slack.RTM

	event bot.Callback

	// userNames caches id → display name lookups
	userNames map[string]string

	recent *dedup

	authenticated bool
}

const defaultDedupSize = 16

func New(c *config.Config) *SlackRTM {
	token := c.Get("token", "")
	if token == "" {
		log.Fatal().Msg("no slack token configured; set token in the config file or HERON_TOKEN")
	}

	api := slack.New(token, slack.OptionDebug(c.Get("env", "") == "development"))

	return &SlackRTM{
		config:    c,
		api:       api,
		userNames: make(map[string]string),
		recent:    newDedup(c.GetInt("slack.ringsize", defaultDedupSize)),
	}
}

func (s *SlackRTM) RegisterEvent(f bot.Callback) {
	s.event = f
}

// Serve runs the RTM event loop until the connection is intentionally
// closed. The slack library manages the socket; we pace its retries with a
// backoff so a flapping network does not spin.
func (s *SlackRTM) Serve() error {
	s.rtm = s.api.NewRTM()
	go s.rtm.ManageConnection()

	retry := backoff.NewExponentialBackOff()
	retry.MaxElapsedTime = 0

	for ev := range s.rtm.IncomingEvents {
		switch data := ev.Data.(type) {
		case *slack.InvalidAuthEvent:
			return fmt.Errorf("slack rejected the configured token; check token in the config")

		case *slack.ConnectedEvent:
			retry.Reset()
			if !s.authenticated {
				if err := s.authenticate(data.Info); err != nil {
					return err
				}
				s.emit(bot.Event{Kind: bot.Connected})
			} else {
				log.Info().Int("count", data.ConnectionCount).Msg("slack session reconnected")
			}

		case *slack.MessageEvent:
			if s.recent.seen(data.Timestamp) {
				log.Debug().Str("ts", data.Timestamp).Msg("duplicate message from server")
				continue
			}
			s.emit(bot.Event{Kind: bot.Message, Msg: s.buildMessage(data)})

		case *slack.ReactionAddedEvent:
			s.emit(bot.Event{Kind: bot.ReactionAdded, Reaction: &msg.Reaction{
				Emoji:     data.Reaction,
				Channel:   data.Item.Channel,
				UserID:    data.User,
				MessageID: data.Item.Timestamp,
				Time:      slackTSToTime(string(data.EventTimestamp)),
			}})

		case *slack.DisconnectedEvent:
			if data.Intentional {
				return nil
			}
			s.emit(bot.Event{Kind: bot.Disconnected})
			wait := retry.NextBackOff()
			log.Warn().Dur("wait", wait).Msg("slack socket dropped")
			time.Sleep(wait)

		case *slack.RTMError:
			log.Error().Err(data).Msg("slack rtm error")

		case *slack.LatencyReport:
			log.Debug().Dur("latency", data.Value).Msg("slack latency")
		}
	}
	return nil
}

func (s *SlackRTM) emit(ev bot.Event) {
	if s.event == nil {
		return
	}
	ev.ID = uuid.NewString()
	s.event(ev)
}

// authenticate turns the session info plus directory fetches into the
// one-time authentication payload the core builds its identity from.
func (s *SlackRTM) authenticate(info *slack.Info) error {
	users, err := s.api.GetUsers()
	if err != nil {
		return fmt.Errorf("fetching user directory: %w", err)
	}

	directory := make([]user.User, 0, len(users))
	for _, u := range users {
		directory = append(directory, user.User{
			ID:    u.ID,
			Name:  u.Name,
			BotID: u.Profile.BotID,
			Admin: u.IsAdmin,
		})
		s.userNames[u.ID] = u.Name
	}

	channels, err := s.channels()
	if err != nil {
		return fmt.Errorf("fetching channel list: %w", err)
	}

	s.authenticated = true
	s.emit(bot.Event{Kind: bot.Authenticated, Auth: &bot.AuthPayload{
		SelfID:   info.User.ID,
		SelfName: info.User.Name,
		TeamID:   info.Team.ID,
		TeamName: info.Team.Name,
		Users:    directory,
		Channels: channels,
	}})
	return nil
}

func (s *SlackRTM) channels() ([]bot.Channel, error) {
	out := []bot.Channel{}
	params := &slack.GetConversationsParameters{
		Types: []string{"public_channel", "private_channel"},
		Limit: 1000,
	}
	for {
		chans, cursor, err := s.api.GetConversations(params)
		if err != nil {
			return nil, err
		}
		for _, ch := range chans {
			out = append(out, bot.Channel{
				ID:      ch.ID,
				Name:    ch.Name,
				IsGroup: ch.IsGroup || ch.IsPrivate,
			})
		}
		if cursor == "" {
			return out, nil
		}
		params.Cursor = cursor
	}
}

func (s *SlackRTM) Send(channel, message string) (string, error) {
	nick := s.config.Get("nick", "heron")
	_, ts, err := s.api.PostMessage(channel,
		slack.MsgOptionUsername(nick),
		slack.MsgOptionText(message, false))
	if err != nil {
		return "", fmt.Errorf("sending to %s: %w", channel, err)
	}
	return ts, nil
}

func (s *SlackRTM) Reply(channel, message string, replyTo msg.Message) (string, error) {
	nick := s.config.Get("nick", "heron")
	opts := []slack.MsgOption{
		slack.MsgOptionUsername(nick),
		slack.MsgOptionText(message, false),
	}
	if ts := replyTo.AdditionalData["RAW_SLACK_TIMESTAMP"]; ts != "" {
		opts = append(opts, slack.MsgOptionTS(ts))
	}
	_, ts, err := s.api.PostMessage(channel, opts...)
	if err != nil {
		return "", fmt.Errorf("replying in %s: %w", channel, err)
	}
	return ts, nil
}

func (s *SlackRTM) Disconnect() error {
	if s.rtm == nil {
		return nil
	}
	return s.rtm.Disconnect()
}

// buildMessage converts a raw slack message into the connector-neutral form
// the router consumes. Body normalization is the router's job, not ours;
// only HTML entities are undone here.
func (s *SlackRTM) buildMessage(m *slack.MessageEvent) msg.Message {
	var u *user.User
	if m.User != "" {
		u = &user.User{ID: m.User, Name: s.userName(m.User)}
	}

	return msg.Message{
		ID:      m.Timestamp,
		User:    u,
		BotID:   m.BotID,
		Channel: m.Channel,
		Body:    html.UnescapeString(m.Text),
		SubType: m.SubType,
		Topic:   m.Topic,
		IsIM:    strings.HasPrefix(m.Channel, "D"),
		Raw:     m,
		Time:    slackTSToTime(m.Timestamp),
		AdditionalData: map[string]string{
			"RAW_SLACK_TIMESTAMP": m.Timestamp,
		},
	}
}

func (s *SlackRTM) userName(id string) string {
	if name, ok := s.userNames[id]; ok {
		return name
	}
	u, err := s.api.GetUserInfo(id)
	if err != nil {
		log.Debug().Err(err).Str("user", id).Msg("could not resolve user name")
		return id
	}
	s.userNames[id] = u.Name
	return u.Name
}

func slackTSToTime(ts string) time.Time {
	parts := strings.Split(ts, ".")
	if len(parts) != 2 {
		return time.Time{}
	}
	sec, _ := strconv.ParseInt(parts[0], 10, 64)
	nsec, _ := strconv.ParseInt(parts[1], 10, 64)
	return time.Unix(sec, nsec)
}

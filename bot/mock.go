package bot

import (
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/mock"

	"github.com/heronbot/heron/bot/msg"
	"github.com/heronbot/heron/bot/user"
	"github.com/heronbot/heron/config"
)

// MockBot is the Bot plugins are handed in tests. It records everything
// sent so assertions can inspect it.
type MockBot struct {
	mock.Mock
	db *sqlx.DB

	Cfg *config.Config

	Ident *Identity

	PluginList []Plugin

	Messages []string
	Replies  []string
	Channels []string
}

func NewMockBot() *MockBot {
	db, err := sqlx.Open("sqlite3", ":memory:")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open mock database")
	}
	c, _ := config.ReadConfig("nonexistent-test-config.json")
	return &MockBot{
		db:  db,
		Cfg: c,
		Ident: &Identity{
			SelfID:         "U0",
			SelfName:       "heron",
			BotID:          "B0",
			Users:          map[string]user.User{},
			DefaultChannel: Channel{ID: "C0", Name: "general"},
		},
	}
}

func (mb *MockBot) Config() *config.Config { return mb.Cfg }
func (mb *MockBot) DB() *sqlx.DB           { return mb.db }
func (mb *MockBot) Identity() *Identity    { return mb.Ident }

func (mb *MockBot) AddPlugin(p Plugin) { mb.PluginList = append(mb.PluginList, p) }
func (mb *MockBot) Plugins() []Plugin  { return mb.PluginList }

func (mb *MockBot) Send(channel, message string) (string, error) {
	mb.Messages = append(mb.Messages, message)
	mb.Channels = append(mb.Channels, channel)
	return "", nil
}

func (mb *MockBot) Reply(channel, message string, replyTo msg.Message) (string, error) {
	mb.Replies = append(mb.Replies, message)
	mb.Channels = append(mb.Channels, channel)
	return "", nil
}

func (mb *MockBot) Receive(ev Event) {}

func (mb *MockBot) Who(channel string) []user.User { return []user.User{} }

package bot

import (
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/heronbot/heron/bot/msg"
	"github.com/heronbot/heron/bot/user"
	"github.com/heronbot/heron/config"

	_ "github.com/mattn/go-sqlite3"
)

// bot is the concrete Bot. It owns the plugin registry, the identity
// snapshot, and the database handle plugins share.
type bot struct {
	config *config.Config
	conn   Connector
	db     *sqlx.DB

	// plugin dispatch order is registration order for the life of the
	// process
	plugins []Plugin
	names   map[string]bool

	identity *Identity

	// exit is swapped out in tests
	exit func(int)

	version string
}

// New creates a Bot bound to a connector. The connector's events are routed
// through Receive; nothing flows until its Serve is started.
func New(c *config.Config, conn Connector) Bot {
	db, err := sqlx.Open("sqlite3", c.Get("db.file", ":memory:"))
	if err != nil {
		log.Fatal().Err(err).Msg("could not open the bot database")
	}

	b := &bot{
		config:  c,
		conn:    conn,
		db:      db,
		plugins: make([]Plugin, 0),
		names:   make(map[string]bool),
		exit:    os.Exit,
		version: c.Get("version", "dev"),
	}

	conn.RegisterEvent(b.Receive)

	return b
}

func (b *bot) Config() *config.Config { return b.config }
func (b *bot) DB() *sqlx.DB           { return b.db }
func (b *bot) Identity() *Identity    { return b.identity }

// AddPlugin appends a constructed plugin to the registry and runs its
// optional Init hook. A failing hook takes that one plugin out of rotation
// but never blocks the plugins registered after it.
func (b *bot) AddPlugin(p Plugin) {
	name := strings.ToLower(p.Name())
	if b.names[name] {
		log.Warn().Str("plugin", name).Msg("duplicate plugin name registered; dispatch will invoke both")
	}
	b.names[name] = true

	if init, ok := p.(Initializer); ok {
		if err := safeInit(init); err != nil {
			log.Error().Err(err).Str("plugin", p.Name()).Msg("plugin init failed; not registering it")
			return
		}
	}

	b.plugins = append(b.plugins, p)
	log.Debug().Str("plugin", p.Name()).Int("order", len(b.plugins)).Msg("plugin registered")
}

func safeInit(p Initializer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicErr(r)
		}
	}()
	return p.Init()
}

// Plugins returns the registry in dispatch order.
func (b *bot) Plugins() []Plugin {
	out := make([]Plugin, len(b.plugins))
	copy(out, b.plugins)
	return out
}

func (b *bot) Send(channel, message string) (string, error) {
	return b.conn.Send(channel, message)
}

func (b *bot) Reply(channel, message string, replyTo msg.Message) (string, error) {
	return b.conn.Reply(channel, message, replyTo)
}

// Who lists the directory entries for everybody but us. The channel argument
// is accepted for future narrowing; the RTM directory is team-wide.
func (b *bot) Who(channel string) []user.User {
	if b.identity == nil {
		return nil
	}
	out := []user.User{}
	for _, u := range b.identity.Users {
		if u.ID == b.identity.SelfID {
			continue
		}
		out = append(out, u)
	}
	return out
}

package seen

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/heronbot/heron/bot"
	"github.com/heronbot/heron/bot/msg"
	"github.com/heronbot/heron/plugins"
)

func init() {
	plugins.Register("seen", func(b bot.Bot) bot.Plugin { return New(b) })
}

// SeenPlugin records when each person last said something and answers
// "seen <nick>" questions from that record.
type SeenPlugin struct {
	bot     bot.Bot
	db      *sqlx.DB
	matcher plugins.Matcher
}

type sighting struct {
	Nick    string `db:"nick" json:"nick"`
	Channel string `db:"channel" json:"channel"`
	Body    string `db:"body" json:"body"`
	Seen    int64  `db:"seen" json:"seen"`
}

func New(b bot.Bot) *SeenPlugin {
	p := &SeenPlugin{
		bot: b,
		db:  b.DB(),
	}
	p.matcher.Handle(`(?i)^seen\s+@?(\S+)`, p.lookup)
	return p
}

func (p *SeenPlugin) Name() string { return "seen" }

func (p *SeenPlugin) Init() error {
	if _, err := p.db.Exec(`create table if not exists seen (
			nick string primary key,
			channel string,
			body string,
			seen integer
		);`); err != nil {
		return fmt.Errorf("creating seen table: %w", err)
	}
	return nil
}

func (p *SeenPlugin) ProcessMessage(m msg.Message) error {
	if err := p.record(m); err != nil {
		return err
	}
	p.matcher.Process(m)
	return nil
}

func (p *SeenPlugin) record(m msg.Message) error {
	if m.User == nil || m.User.Name == "" {
		return nil
	}
	_, err := p.db.Exec(`insert into seen (nick, channel, body, seen)
		values (?, ?, ?, ?)
		on conflict(nick) do update set channel=excluded.channel, body=excluded.body, seen=excluded.seen`,
		m.User.Name, m.Channel, m.Body, m.Time.Unix())
	if err != nil {
		return fmt.Errorf("recording sighting of %s: %w", m.User.Name, err)
	}
	return nil
}

func (p *SeenPlugin) lookup(m msg.Message, match []string) {
	nick := match[1]
	var s sighting
	err := p.db.Get(&s, `select nick, channel, body, seen from seen where nick=?`, nick)
	if err != nil {
		p.bot.Send(m.Channel, fmt.Sprintf("I haven't seen %s.", nick))
		return
	}
	when := time.Unix(s.Seen, 0).Format("2006-01-02 15:04")
	p.bot.Send(m.Channel, fmt.Sprintf("%s was last seen %s saying: %s", s.Nick, when, s.Body))
}

// RegisterWeb exposes the sightings table as JSON.
func (p *SeenPlugin) RegisterWeb() (string, http.Handler) {
	r := chi.NewRouter()
	r.Get("/", p.handleList)
	return "/seen", r
}

func (p *SeenPlugin) handleList(w http.ResponseWriter, r *http.Request) {
	sightings := []sighting{}
	if err := p.db.Select(&sightings, `select nick, channel, body, seen from seen order by seen desc`); err != nil {
		log.Error().Err(err).Msg("could not list sightings")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sightings)
}

package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog/log"

	"github.com/heronbot/heron/bot"
	"github.com/heronbot/heron/config"
)

// Web is the bot's read-only HTTP status surface. Routing never depends on
// it; the bot is fully functional with the listener disabled.
type Web struct {
	config *config.Config
	bot    bot.Bot
	router *chi.Mux

	endPoints []EndPoint
}

type EndPoint struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

func New(c *config.Config, b bot.Bot) *Web {
	w := &Web{
		config: c,
		bot:    b,
		router: chi.NewRouter(),
	}
	w.setupHTTP()
	return w
}

func (ws *Web) setupHTTP() {
	reqCount := ws.config.GetInt("web.httprate.requests", 500)
	reqTime := time.Duration(ws.config.GetInt("web.httprate.seconds", 5))
	if reqCount > 0 && reqTime > 0 {
		ws.router.Use(httprate.LimitByIP(reqCount, reqTime*time.Second))
	}

	ws.router.Use(middleware.RequestID)
	ws.router.Use(middleware.Recoverer)
	ws.router.Use(middleware.StripSlashes)

	ws.router.Get("/", ws.serveStatus)
	ws.router.Get("/plugins", ws.servePlugins)

	// plugins with a web surface get mounted under their own root
	for _, p := range ws.bot.Plugins() {
		if reg, ok := p.(bot.WebRegistrant); ok {
			root, handler := reg.RegisterWeb()
			ws.endPoints = append(ws.endPoints, EndPoint{Name: p.Name(), URL: root})
			ws.router.Mount(root, handler)
		}
	}
}

func (ws *Web) serveStatus(w http.ResponseWriter, r *http.Request) {
	status := struct {
		Nick          string     `json:"nick"`
		Team          string     `json:"team,omitempty"`
		Authenticated bool       `json:"authenticated"`
		Plugins       int        `json:"plugins"`
		EndPoints     []EndPoint `json:"endpoints"`
	}{
		Nick:      ws.config.Get("nick", "heron"),
		Plugins:   len(ws.bot.Plugins()),
		EndPoints: ws.endPoints,
	}
	if id := ws.bot.Identity(); id != nil {
		status.Team = id.TeamName
		status.Authenticated = true
		status.Nick = id.SelfName
	}
	writeJSON(w, status)
}

func (ws *Web) servePlugins(w http.ResponseWriter, r *http.Request) {
	names := []string{}
	for _, p := range ws.bot.Plugins() {
		names = append(names, p.Name())
	}
	writeJSON(w, names)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("could not encode status response")
	}
}

// Router exposes the mux for tests.
func (ws *Web) Router() http.Handler { return ws.router }

func (ws *Web) ListenAndServe(addr string) {
	log.Debug().Msgf("starting web service at %s", addr)
	log.Fatal().Err(http.ListenAndServe(addr, ws.router)).Msg("bot killed")
}

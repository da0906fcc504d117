package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/heronbot/heron/bot"
	"github.com/heronbot/heron/plugins/seen"
)

func makeWeb(t *testing.T) (*Web, *bot.MockBot) {
	t.Helper()
	mb := bot.NewMockBot()

	sp := seen.New(mb)
	assert.NoError(t, sp.Init())
	mb.AddPlugin(sp)

	return New(mb.Cfg, mb), mb
}

func get(t *testing.T, ws *Web, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	ws.Router().ServeHTTP(rec, req)
	return rec
}

func TestStatus(t *testing.T) {
	ws, _ := makeWeb(t)
	rec := get(t, ws, "/")
	assert.Equal(t, http.StatusOK, rec.Code)

	var status struct {
		Nick          string `json:"nick"`
		Authenticated bool   `json:"authenticated"`
		Plugins       int    `json:"plugins"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "heron", status.Nick)
	assert.True(t, status.Authenticated)
	assert.Equal(t, 1, status.Plugins)
}

func TestPluginList(t *testing.T) {
	ws, _ := makeWeb(t)
	rec := get(t, ws, "/plugins")
	assert.Equal(t, http.StatusOK, rec.Code)

	var names []string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &names))
	assert.Equal(t, []string{"seen"}, names)
}

func TestPluginWebSurfaceIsMounted(t *testing.T) {
	ws, _ := makeWeb(t)
	rec := get(t, ws, "/seen")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

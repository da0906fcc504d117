package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	assert.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestReadConfigFlattensNestedKeys(t *testing.T) {
	path := writeConfig(t, `{
		"token": "xoxb-test",
		"defaultChannel": "general",
		"autoReconnect": true,
		"env": "development",
		"storage": {
			"mongo": {
				"enable": false,
				"uri": "mongodb://localhost/heron"
			}
		},
		"admins": ["alice", "bob"],
		"db": {"file": ":memory:"}
	}`)

	c, err := ReadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, "xoxb-test", c.Get("token", ""))
	assert.Equal(t, "general", c.Get("defaultChannel", ""))
	assert.True(t, c.GetBool("autoReconnect", false))
	assert.False(t, c.GetBool("storage.mongo.enable", true))
	assert.Equal(t, "mongodb://localhost/heron", c.Get("storage.mongo.uri", ""))
	assert.Equal(t, []string{"alice", "bob"}, c.GetArray("admins", nil))
	assert.Equal(t, ":memory:", c.Get("db.file", ""))
}

func TestGetFallbacks(t *testing.T) {
	c, err := ReadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.NoError(t, err)
	assert.Equal(t, "dflt", c.Get("nope", "dflt"))
	assert.Equal(t, 42, c.GetInt("nope", 42))
	assert.True(t, c.GetBool("nope", true))
	assert.Equal(t, []string{"x"}, c.GetArray("nope", []string{"x"}))
}

func TestGetIsCaseInsensitive(t *testing.T) {
	path := writeConfig(t, `{"DefaultChannel": "general"}`)
	c, err := ReadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, "general", c.Get("defaultchannel", ""))
	assert.Equal(t, "general", c.Get("DEFAULTCHANNEL", ""))
}

func TestEnvironmentOverride(t *testing.T) {
	path := writeConfig(t, `{"token": "from-file"}`)
	c, err := ReadConfig(path)
	assert.NoError(t, err)

	t.Setenv("HERON_TOKEN", "from-env")
	assert.Equal(t, "from-env", c.Get("token", ""))

	t.Setenv("HERON_STORAGE_MONGO_URI", "mongodb://elsewhere")
	assert.Equal(t, "mongodb://elsewhere", c.Get("storage.mongo.uri", ""))
}

func TestSetOverridesFile(t *testing.T) {
	path := writeConfig(t, `{"nick": "heron"}`)
	c, err := ReadConfig(path)
	assert.NoError(t, err)
	c.Set("Nick", "egret")
	assert.Equal(t, "egret", c.Get("nick", ""))
}

func TestBadJSONIsAnError(t *testing.T) {
	path := writeConfig(t, `{"token": `)
	_, err := ReadConfig(path)
	assert.Error(t, err)
}

func TestGetIntRejectsGarbage(t *testing.T) {
	path := writeConfig(t, `{"port": "not-a-number", "real": 8080}`)
	c, err := ReadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, 5, c.GetInt("port", 5))
	assert.Equal(t, 8080, c.GetInt("real", 5))
}

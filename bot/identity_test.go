package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIdentityResolvesBotIDAndChannel(t *testing.T) {
	id, err := NewIdentity(testAuth(), "general")
	assert.NoError(t, err)
	assert.Equal(t, "B1", id.BotID)
	assert.Equal(t, "general", id.DefaultChannel.Name)
	assert.Equal(t, "G1", id.DefaultChannel.ID)
	assert.Len(t, id.Users, 2)
}

func TestNewIdentityMissingChannelIsAnError(t *testing.T) {
	id, err := NewIdentity(testAuth(), "nonexistent")
	assert.Nil(t, id)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "nonexistent")
}

func TestNewIdentityNoBotProfile(t *testing.T) {
	p := testAuth()
	p.Users[0].BotID = ""
	id, err := NewIdentity(p, "general")
	assert.NoError(t, err)
	assert.Equal(t, "", id.BotID)
}

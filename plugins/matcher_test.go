package plugins

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/heronbot/heron/bot/msg"
)

func TestMatcherBindsAndMatches(t *testing.T) {
	var got []string
	h := &Matcher{}
	h.Handle(`(?i)^echo\s+(.*)`, func(m msg.Message, match []string) {
		got = append(got, match[1])
	})

	assert.True(t, h.Process(msg.Message{Body: "echo hello"}))
	assert.False(t, h.Process(msg.Message{Body: "nothing here"}))
	assert.Equal(t, []string{"hello"}, got)
}

func TestMatcherTriesBindingsInOrder(t *testing.T) {
	var got []string
	h := &Matcher{}
	h.Handle(`hello`, func(m msg.Message, match []string) { got = append(got, "first") })
	h.Handle(`hello`, func(m msg.Message, match []string) { got = append(got, "second") })

	assert.True(t, h.Process(msg.Message{Body: "hello"}))
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestMatcherNoBindings(t *testing.T) {
	h := &Matcher{}
	assert.False(t, h.Process(msg.Message{Body: "anything"}))
}

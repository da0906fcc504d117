package slackrtm

import (
	"testing"
	"time"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"

	"github.com/heronbot/heron/bot"
	"github.com/heronbot/heron/config"
)

func makeConnector(t *testing.T) *SlackRTM {
	t.Helper()
	t.Setenv("HERON_TOKEN", "xoxb-test")
	c, err := config.ReadConfig("no-such-config.json")
	assert.NoError(t, err)
	s := New(c)
	s.userNames["U2"] = "alice"
	return s
}

func TestBuildMessage(t *testing.T) {
	s := makeConnector(t)
	ev := &slack.MessageEvent{Msg: slack.Msg{
		Channel:   "C123",
		User:      "U2",
		Text:      "you &amp; me",
		Timestamp: "1595036853.000500",
	}}

	m := s.buildMessage(ev)
	assert.Equal(t, "you & me", m.Body)
	assert.Equal(t, "alice", m.User.Name)
	assert.Equal(t, "C123", m.Channel)
	assert.False(t, m.IsIM)
	assert.Equal(t, "1595036853.000500", m.AdditionalData["RAW_SLACK_TIMESTAMP"])
	assert.Equal(t, int64(1595036853), m.Time.Unix())
}

func TestBuildMessageDirect(t *testing.T) {
	s := makeConnector(t)
	ev := &slack.MessageEvent{Msg: slack.Msg{
		Channel:   "D456",
		User:      "U2",
		Text:      "hi",
		Timestamp: "1595036853.000500",
	}}
	m := s.buildMessage(ev)
	assert.True(t, m.IsIM)
}

func TestBuildMessageBotSender(t *testing.T) {
	s := makeConnector(t)
	ev := &slack.MessageEvent{Msg: slack.Msg{
		Channel: "C123",
		BotID:   "B77",
		SubType: "bot_message",
		Text:    "beep",
	}}
	m := s.buildMessage(ev)
	assert.Nil(t, m.User)
	assert.Equal(t, "B77", m.BotID)
	assert.Equal(t, "bot_message", m.SubType)
}

func TestSlackTSToTime(t *testing.T) {
	assert.Equal(t, time.Time{}, slackTSToTime("garbage"))
	assert.Equal(t, int64(1595036853), slackTSToTime("1595036853.000500").Unix())
}

func TestEmitAssignsIDs(t *testing.T) {
	s := makeConnector(t)
	seen := []bot.Event{}
	s.RegisterEvent(func(ev bot.Event) { seen = append(seen, ev) })

	s.emit(bot.Event{Kind: bot.Connected})
	s.emit(bot.Event{Kind: bot.Disconnected})
	assert.Len(t, seen, 2)
	assert.NotEmpty(t, seen[0].ID)
	assert.NotEqual(t, seen[0].ID, seen[1].ID)
}

func TestEmitWithoutCallbackIsSafe(t *testing.T) {
	s := makeConnector(t)
	s.emit(bot.Event{Kind: bot.Connected})
}

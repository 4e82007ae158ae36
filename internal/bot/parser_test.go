package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRejectsMessagesWithoutPrefix(t *testing.T) {

	result := Parse("!", "hello there")
	assert.Equal(t, PARSEID_NO_BOT_PREFIX, result.parseid)
}

func TestParseNoCommand(t *testing.T) {

	result := Parse("!", "!   ")
	assert.Equal(t, PARSEID_NO_COMMAND, result.parseid)
	assert.NotEmpty(t, result.errorMessage)
}

func TestParseUnknownCommand(t *testing.T) {

	result := Parse("!", "!frobnicate")
	assert.Equal(t, PARSEID_COMMAND_NOT_RECOGNISED, result.parseid)
	assert.Contains(t, result.errorMessage, "frobnicate")
}

func TestParseSimpleCommands(t *testing.T) {

	cases := map[string]int{
		"!help":       COMMAND_HELP,
		"!ping":       COMMAND_PING,
		"!uptime":     COMMAND_UPTIME,
		"!snipe":      COMMAND_SNIPE,
		"!serverinfo": COMMAND_SERVERINFO,
	}
	for message, command := range cases {
		result := Parse("!", message)
		assert.Equal(t, PARSEID_OK, result.parseid, message)
		assert.Equal(t, command, result.command, message)
	}
}

func TestParseUserReference(t *testing.T) {

	// Mention, with and without the nickname marker
	result := Parse("!", "!userinfo <@123456>")
	require.Equal(t, PARSEID_OK, result.parseid)
	assert.Equal(t, COMMAND_USERINFO, result.command)
	assert.Equal(t, "123456", result.arguments)

	result = Parse("!", "!avatar <@!123456>")
	require.Equal(t, PARSEID_OK, result.parseid)
	assert.Equal(t, COMMAND_AVATAR, result.command)
	assert.Equal(t, "123456", result.arguments)

	// Raw id
	result = Parse("!", "!banner 123456")
	require.Equal(t, PARSEID_OK, result.parseid)
	assert.Equal(t, COMMAND_BANNER, result.command)
	assert.Equal(t, "123456", result.arguments)

	// No argument defaults to the author
	result = Parse("!", "!userinfo")
	require.Equal(t, PARSEID_OK, result.parseid)
	assert.Equal(t, "", result.arguments)
}

func TestParseRoleInfo(t *testing.T) {

	result := Parse("!", "!roleinfo Senior Moderator")
	require.Equal(t, PARSEID_OK, result.parseid)
	assert.Equal(t, "Senior Moderator", result.arguments)

	result = Parse("!", "!roleinfo")
	assert.Equal(t, PARSEID_NO_INPUT, result.parseid)
}

func TestParseAfk(t *testing.T) {

	result := Parse("!", "!afk getting lunch")
	require.Equal(t, PARSEID_OK, result.parseid)
	assert.Equal(t, "getting lunch", result.arguments)

	// Empty message falls back to a default
	result = Parse("!", "!afk")
	require.Equal(t, PARSEID_OK, result.parseid)
	assert.Equal(t, "AFK", result.arguments)
}

func TestParsePoll(t *testing.T) {

	result := Parse("!", "!poll Best editor? | vim | emacs | vscode")
	require.Equal(t, PARSEID_OK, result.parseid)
	poll, ok := result.arguments.(Poll)
	require.True(t, ok)
	assert.Equal(t, "Best editor?", poll.Question)
	assert.Equal(t, []string{"vim", "emacs", "vscode"}, poll.Options)

	// A single option is not a poll
	result = Parse("!", "!poll Best editor? | vim")
	assert.Equal(t, PARSEID_BAD_POLL, result.parseid)

	// Neither are more than ten
	result = Parse("!", "!poll q | a | b | c | d | e | f | g | h | i | j | k")
	assert.Equal(t, PARSEID_BAD_POLL, result.parseid)
}

func TestParseReminder(t *testing.T) {

	result := Parse("!", "!remind 1h30m stand up")
	require.Equal(t, PARSEID_OK, result.parseid)
	reminder, ok := result.arguments.(Reminder)
	require.True(t, ok)
	assert.Equal(t, 90*time.Minute, reminder.Duration)
	assert.Equal(t, "stand up", reminder.Text)

	result = Parse("!", "!remind 2d check the oven")
	require.Equal(t, PARSEID_OK, result.parseid)
	reminder = result.arguments.(Reminder)
	assert.Equal(t, 48*time.Hour, reminder.Duration)

	result = Parse("!", "!remind soon dinner")
	assert.Equal(t, PARSEID_NOT_A_DURATION, result.parseid)

	result = Parse("!", "!remind 1h")
	assert.Equal(t, PARSEID_NO_INPUT, result.parseid)
}

func TestParseWhois(t *testing.T) {

	result := Parse("!", "!whois 8.8.8.8")
	require.Equal(t, PARSEID_OK, result.parseid)
	assert.Equal(t, "8.8.8.8", result.arguments)

	result = Parse("!", "!whois example.com")
	assert.Equal(t, PARSEID_NOT_AN_IP, result.parseid)

	result = Parse("!", "!whois")
	assert.Equal(t, PARSEID_NO_INPUT, result.parseid)
}

func TestParseCalc(t *testing.T) {

	result := Parse("!", "!calc 2 + 3 * 4")
	require.Equal(t, PARSEID_OK, result.parseid)
	assert.Equal(t, COMMAND_CALC, result.command)
	assert.Equal(t, "2 + 3 * 4", result.arguments)

	result = Parse("!", "!calc")
	assert.Equal(t, PARSEID_NO_INPUT, result.parseid)
}

func TestParseQuote(t *testing.T) {

	result := Parse("!", "!quote https://discord.com/channels/111/222/333")
	require.Equal(t, PARSEID_OK, result.parseid)
	assert.Equal(t, COMMAND_QUOTE, result.command)
	assert.Equal(t, Quote{GuildId: "111", ChannelId: "222", MessageId: "333"}, result.arguments)

	result = Parse("!", "!quote https://example.com/not/a/message")
	assert.Equal(t, PARSEID_NOT_A_MESSAGE_LINK, result.parseid)

	result = Parse("!", "!quote")
	assert.Equal(t, PARSEID_NO_INPUT, result.parseid)
}

func TestParseEmojiInfo(t *testing.T) {

	result := Parse("!", "!emojiinfo <:blob:123456>")
	require.Equal(t, PARSEID_OK, result.parseid)
	assert.Equal(t, COMMAND_EMOJIINFO, result.command)
	assert.Equal(t, EmojiRef{Name: "blob", Id: "123456"}, result.arguments)

	result = Parse("!", "!emojiinfo <a:party:98765>")
	require.Equal(t, PARSEID_OK, result.parseid)
	assert.Equal(t, EmojiRef{Name: "party", Id: "98765", Animated: true}, result.arguments)

	// A unicode emoji is not a custom emoji
	result = Parse("!", "!emojiinfo 🌿")
	assert.Equal(t, PARSEID_NOT_AN_EMOJI, result.parseid)
}

func TestParseInviteInfo(t *testing.T) {

	// Invite links in all their forms, and the bare code
	for _, input := range []string{
		"https://discord.gg/abc123",
		"discord.gg/abc123",
		"https://discord.com/invite/abc123",
		"abc123",
	} {
		result := Parse("!", "!inviteinfo "+input)
		require.Equal(t, PARSEID_OK, result.parseid, input)
		assert.Equal(t, COMMAND_INVITEINFO, result.command, input)
		assert.Equal(t, "abc123", result.arguments, input)
	}

	result := Parse("!", "!inviteinfo")
	assert.Equal(t, PARSEID_NO_INPUT, result.parseid)
}

func TestParseShorten(t *testing.T) {

	result := Parse("!", "!shorten https://example.com/a/very/long/path")
	require.Equal(t, PARSEID_OK, result.parseid)
	assert.Equal(t, "https://example.com/a/very/long/path", result.arguments)

	result = Parse("!", "!shorten")
	assert.Equal(t, PARSEID_NO_INPUT, result.parseid)
}

package bot

import (
	"testing"
	"time"

	"guildmirror/internal/snapshot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityLine(t *testing.T) {

	assert.Equal(t, "", activityLine(nil))

	line := activityLine([]snapshot.Activity{{Type: "playing", Name: "Factorio"}})
	assert.Equal(t, "**Playing:** Factorio", line)

	line = activityLine([]snapshot.Activity{{
		Type:    "listening",
		Name:    "Spotify",
		Title:   "Echoes",
		Artists: []string{"Pink Floyd"},
	}})
	assert.Equal(t, "**Listening to:** Echoes by Pink Floyd", line)

	line = activityLine([]snapshot.Activity{{
		Type:  "custom",
		State: "touching grass",
		Emoji: &snapshot.Emoji{Name: "🌿"},
	}})
	assert.Equal(t, "🌿 touching grass", line)
}

func TestDiscordTimestamp(t *testing.T) {

	moment := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "<t:1704067200:F> (<t:1704067200:R>)", discordTimestamp(moment))
}

func TestPollMessage(t *testing.T) {

	embed := PollMessage(Poll{Question: "Best season?", Options: []string{"summer", "winter"}}, "alice")
	assert.Equal(t, "Best season?", embed.Title)
	assert.Contains(t, embed.Description, "1️⃣ summer")
	assert.Contains(t, embed.Description, "2️⃣ winter")
	require.NotNil(t, embed.Footer)
	assert.Contains(t, embed.Footer.Text, "alice")
}

func TestHelpMessageListsEveryCommand(t *testing.T) {

	responses := HelpMessage("!")
	require.Len(t, responses, 1)
	embed, ok := responses[0].(ResponseEmbed)
	require.True(t, ok)
	// One field per command
	assert.Len(t, embed.Fields, 18)
}

func TestEmojiInfoMessage(t *testing.T) {

	responses := EmojiInfoMessage(EmojiRef{Name: "blob", Id: "123456", Animated: true}, "https://cdn.discordapp.com/emojis/123456.gif", "Alpha")
	require.Len(t, responses, 1)
	embed, ok := responses[0].(ResponseEmbed)
	require.True(t, ok)
	require.NotNil(t, embed.Thumbnail)
	assert.Contains(t, embed.Thumbnail.URL, "123456")

	values := map[string]string{}
	for _, field := range embed.Fields {
		values[field.Name] = field.Value
	}
	assert.Equal(t, "blob", values["Name"])
	assert.Equal(t, "true", values["Animated"])
	assert.Equal(t, "Alpha", values["Server"])
}

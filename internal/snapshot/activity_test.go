package snapshot

import (
	"encoding/json"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeNil(t *testing.T) {
	assert.Nil(t, Normalize(nil))
}

func TestNormalizeGame(t *testing.T) {

	activity := &discordgo.Activity{
		Type:    discordgo.ActivityTypeGame,
		Name:    "Factorio",
		Details: "Launching rockets",
		Timestamps: discordgo.TimeStamps{
			StartTimestamp: 1700000000000,
		},
	}

	result := Normalize(activity)
	require.NotNil(t, result)
	assert.Equal(t, "playing", result.Type)
	assert.Equal(t, "Factorio", result.Name)
	assert.Equal(t, "Launching rockets", result.Details)
	require.NotNil(t, result.Timestamps)
	assert.Equal(t, "2023-11-14T22:13:20Z", result.Timestamps.Start)
	assert.Empty(t, result.Timestamps.End)
}

func TestNormalizeCustomStatusUnicodeEmoji(t *testing.T) {

	activity := &discordgo.Activity{
		Type:  discordgo.ActivityTypeCustom,
		Name:  "Custom Status",
		State: "working",
		Emoji: discordgo.Emoji{Name: "🔧"},
	}

	result := Normalize(activity)
	require.NotNil(t, result)
	assert.Equal(t, "custom", result.Type)
	assert.Equal(t, "working", result.State)
	require.NotNil(t, result.Emoji)
	assert.Equal(t, "🔧", result.Emoji.Name)
	assert.Empty(t, result.Emoji.Url)
	assert.Empty(t, result.Emoji.Id)
}

func TestNormalizeCustomStatusGuildEmoji(t *testing.T) {

	activity := &discordgo.Activity{
		Type:  discordgo.ActivityTypeCustom,
		Name:  "Custom Status",
		Emoji: discordgo.Emoji{Name: "blob", ID: "123456"},
	}

	result := Normalize(activity)
	require.NotNil(t, result)
	require.NotNil(t, result.Emoji)
	assert.Equal(t, "blob", result.Emoji.Name)
	assert.Equal(t, "123456", result.Emoji.Id)
	assert.Contains(t, result.Emoji.Url, "123456")
}

func TestNormalizeSpotify(t *testing.T) {

	activity := &discordgo.Activity{
		Type:    discordgo.ActivityTypeListening,
		Name:    "Spotify",
		Details: "Bohemian Rhapsody",
		State:   "Queen; Freddie Mercury",
		Party:   discordgo.Party{ID: "spotify:98765"},
		Assets: discordgo.Assets{
			LargeImageID: "spotify:abcdef",
			LargeText:    "A Night at the Opera",
		},
		Timestamps: discordgo.TimeStamps{
			StartTimestamp: 1700000000000,
			EndTimestamp:   1700000354000,
		},
	}

	result := Normalize(activity)
	require.NotNil(t, result)
	assert.Equal(t, "listening", result.Type)
	assert.Equal(t, "Bohemian Rhapsody", result.Title)
	assert.Equal(t, []string{"Queen", "Freddie Mercury"}, result.Artists)
	assert.Equal(t, "A Night at the Opera", result.Album)
	assert.Equal(t, "https://i.scdn.co/image/abcdef", result.AlbumCoverUrl)
	assert.Equal(t, float64(354), result.Duration)
}

func TestNormalizeStreaming(t *testing.T) {

	activity := &discordgo.Activity{
		Type: discordgo.ActivityTypeStreaming,
		Name: "Speedrunning",
		URL:  "https://www.twitch.tv/somebody",
	}

	result := Normalize(activity)
	require.NotNil(t, result)
	assert.Equal(t, "streaming", result.Type)
	assert.Equal(t, "https://www.twitch.tv/somebody", result.Url)
	assert.Equal(t, "Twitch", result.Platform)
}

func TestNormalizeAssetUrls(t *testing.T) {

	activity := &discordgo.Activity{
		Type:          discordgo.ActivityTypeGame,
		Name:          "Some game",
		ApplicationID: "42",
		Assets: discordgo.Assets{
			LargeImageID: "icon",
			SmallImageID: "mp:external/path/to/image.png",
		},
	}

	result := Normalize(activity)
	require.NotNil(t, result)
	require.NotNil(t, result.Assets)
	assert.Equal(t, "https://cdn.discordapp.com/app-assets/42/icon.png", result.Assets.LargeImageUrl)
	assert.Equal(t, "https://media.discordapp.net/external/path/to/image.png", result.Assets.SmallImageUrl)
}

// The serialized activity must never carry a key whose value is empty
func TestNormalizeEmptyFieldsAreOmitted(t *testing.T) {

	result := Normalize(&discordgo.Activity{Type: discordgo.ActivityTypeGame, Name: "Pong"})
	require.NotNil(t, result)

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, map[string]interface{}{"type": "playing", "name": "Pong"}, decoded)
}

func TestNormalizePartiallyPopulated(t *testing.T) {

	// An activity with nothing but a type still produces a record
	result := Normalize(&discordgo.Activity{Type: discordgo.ActivityTypeCompeting})
	require.NotNil(t, result)
	assert.Equal(t, "competing", result.Type)
	assert.Nil(t, result.Timestamps)
	assert.Nil(t, result.Assets)
	assert.Nil(t, result.Party)
	assert.Nil(t, result.Emoji)
}

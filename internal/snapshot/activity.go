package snapshot

import (
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Hosts resolved from streaming urls
const (
	TWITCH_HOST  = "twitch.tv"
	YOUTUBE_HOST = "youtube.com"
)

// Spotify serves album covers from its own CDN, not discord's
const SPOTIFY_IMAGE_URL = "https://i.scdn.co/image/"

// Discord serves media proxy assets from a dedicated host
const MEDIA_PROXY_URL = "https://media.discordapp.net/"

var activityTypes = map[discordgo.ActivityType]string{
	discordgo.ActivityTypeGame:      "playing",
	discordgo.ActivityTypeStreaming: "streaming",
	discordgo.ActivityTypeListening: "listening",
	discordgo.ActivityTypeWatching:  "watching",
	discordgo.ActivityTypeCustom:    "custom",
	discordgo.ActivityTypeCompeting: "competing",
}

// Normalize maps one live presence activity into the wire shape.
// It is a pure function: no I/O, no shared state. A nil or
// unrecognised activity normalizes to nil; a partially populated
// one still produces a record with the fields that could be resolved
func Normalize(activity *discordgo.Activity) *Activity {

	if activity == nil {
		return nil
	}

	kind, ok := activityTypes[activity.Type]
	if !ok {
		return nil
	}

	result := Activity{Type: kind, Name: activity.Name}

	// Fields common to every activity type
	result.Details = activity.Details
	result.State = activity.State
	result.Timestamps = normalizeTimestamps(activity.Timestamps)
	result.Assets = normalizeAssets(activity.ApplicationID, activity.Assets)
	result.Party = normalizeParty(activity.Party)

	// Type specific fields
	switch activity.Type {
	case discordgo.ActivityTypeCustom:
		result.Emoji = normalizeEmoji(activity.Emoji)
	case discordgo.ActivityTypeStreaming:
		result.Url = activity.URL
		result.Platform = streamingPlatform(activity.URL)
	case discordgo.ActivityTypeListening:
		if isSpotify(activity) {
			fillSpotify(&result, activity)
		}
	}

	return &result
}

func normalizeTimestamps(timestamps discordgo.TimeStamps) *Timestamps {

	if timestamps.StartTimestamp == 0 && timestamps.EndTimestamp == 0 {
		return nil
	}
	var result Timestamps
	if timestamps.StartTimestamp != 0 {
		result.Start = formatMillis(timestamps.StartTimestamp)
	}
	if timestamps.EndTimestamp != 0 {
		result.End = formatMillis(timestamps.EndTimestamp)
	}
	return &result
}

func normalizeAssets(applicationId string, assets discordgo.Assets) *Assets {

	result := Assets{
		LargeImageUrl:  assetUrl(applicationId, assets.LargeImageID),
		LargeImageText: assets.LargeText,
		SmallImageUrl:  assetUrl(applicationId, assets.SmallImageID),
		SmallImageText: assets.SmallText,
	}
	if result == (Assets{}) {
		return nil
	}
	return &result
}

func normalizeParty(party discordgo.Party) *Party {

	// A party without an id carries no information
	if party.ID == "" {
		return nil
	}
	return &Party{Id: party.ID, Size: party.Size}
}

func normalizeEmoji(emoji discordgo.Emoji) *Emoji {

	if emoji.Name == "" {
		return nil
	}
	// A guild emoji has an id and therefore a CDN url;
	// a unicode emoji is just its name
	if emoji.ID == "" {
		return &Emoji{Name: emoji.Name}
	}
	url := discordgo.EndpointEmoji(emoji.ID)
	if emoji.Animated {
		url = discordgo.EndpointEmojiAnimated(emoji.ID)
	}
	return &Emoji{Name: emoji.Name, Url: url, Id: emoji.ID}
}

// Resolve an activity asset id into a CDN url.
// Media proxy and spotify assets carry their own prefix; anything else
// is an application asset and needs the application id to build the url
func assetUrl(applicationId string, assetId string) string {

	switch {
	case assetId == "":
		return ""
	case strings.HasPrefix(assetId, "mp:"):
		return MEDIA_PROXY_URL + strings.TrimPrefix(assetId, "mp:")
	case strings.HasPrefix(assetId, "spotify:"):
		return SPOTIFY_IMAGE_URL + strings.TrimPrefix(assetId, "spotify:")
	case applicationId == "":
		return ""
	default:
		return discordgo.EndpointCDN + "app-assets/" + applicationId + "/" + assetId + ".png"
	}
}

func streamingPlatform(url string) string {

	switch {
	case strings.Contains(url, TWITCH_HOST):
		return "Twitch"
	case strings.Contains(url, YOUTUBE_HOST):
		return "YouTube"
	default:
		return ""
	}
}

// Spotify publishes its listening sessions with a party id
// in the form spotify:<user id>
func isSpotify(activity *discordgo.Activity) bool {
	return strings.HasPrefix(activity.Party.ID, "spotify:") || activity.Name == "Spotify"
}

// Expand the fields spotify packs into the generic activity record:
// the track title travels in details, the artist list in state
// (separated by semicolons) and the album name in the large asset text
func fillSpotify(result *Activity, activity *discordgo.Activity) {

	result.Title = activity.Details
	if activity.State != "" {
		result.Artists = strings.Split(activity.State, "; ")
	}
	result.Album = activity.Assets.LargeText
	result.AlbumCoverUrl = assetUrl(activity.ApplicationID, activity.Assets.LargeImageID)
	// The gateway does not expose the track id directly,
	// but some clients publish the track link as the activity url
	if rest, ok := strings.CutPrefix(activity.URL, "https://open.spotify.com/track/"); ok {
		result.TrackId = rest
	}
	if activity.Timestamps.StartTimestamp != 0 && activity.Timestamps.EndTimestamp > activity.Timestamps.StartTimestamp {
		result.Duration = float64(activity.Timestamps.EndTimestamp-activity.Timestamps.StartTimestamp) / 1000
	}
}

func formatMillis(millis int64) string {
	return time.UnixMilli(millis).UTC().Format(time.RFC3339)
}

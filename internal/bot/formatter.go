package bot

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"guildmirror/internal/lookup"
	"guildmirror/internal/snapshot"

	"github.com/bwmarrin/discordgo"
)

// Use "blurple" color for the bot
const color int = 0x5865f2

// Reactions used to vote on polls, in option order
var pollEmojis = []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣", "🔟"}

func InputNotValid(errorMessage string) []Response {

	return []Response{ResponseString{fmt.Sprintf("Input not valid: \n> %s", errorMessage)}}
}

func HelpMessage(prefix string) []Response {

	embed := discordgo.MessageEmbed{Title: "Commands available", Color: color}
	commands := []struct {
		usage string
		text  string
	}{
		{"userinfo [member]", "Show the full profile card of a member: identity, dates, roles, badges and current activity"},
		{"serverinfo", "Show information about this server"},
		{"avatar [member]", "Show the avatar of a member"},
		{"banner [member]", "Show the profile banner of a member"},
		{"roleinfo <role name>", "Show information about a role"},
		{"afk [message]", "Mark yourself AFK; I will tell whoever mentions you"},
		{"snipe", "Show the last deleted message in this channel"},
		{"poll <question> | <option> | <option>", "Create a poll with up to 10 options"},
		{"remind <duration> <text>", "Send you a reminder after the given duration, e.g. `1d2h`"},
		{"whois <ip>", "Look up information about an IPv4 address"},
		{"shorten <url>", "Shorten a url"},
		{"calc <expression>", "Calculate an arithmetic expression"},
		{"quote <message link>", "Quote a message from this server by its link"},
		{"emojiinfo <emoji>", "Show information about a custom emoji"},
		{"inviteinfo <invite>", "Show information about an invite link"},
		{"ping", "Show my latency"},
		{"uptime", "Show how long I have been running"},
		{"help", "Print the usage of the different commands"},
	}
	for _, command := range commands {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("`%s%s`", prefix, command.usage),
			Value:  command.text,
			Inline: false,
		})
	}
	return []Response{ResponseEmbed{embed}}
}

func Pong(latency time.Duration) []Response {
	return []Response{ResponseString{fmt.Sprintf("Pong! %d ms", latency.Milliseconds())}}
}

func UptimeMessage(start time.Time) []Response {

	embed := discordgo.MessageEmbed{
		Title:       "Uptime",
		Description: fmt.Sprintf("I have been online for %s", time.Since(start).Round(time.Second)),
		Color:       color,
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Last restart: %s", start.UTC().Format("2006-01-02 15:04:05"))},
	}
	return []Response{ResponseEmbed{embed}}
}

func UserInfoMessage(member *discordgo.Member, status string, activities []snapshot.Activity, roleNames []string, bannerUrl string) []Response {

	user := member.User
	displayName := member.Nick
	if displayName == "" {
		displayName = user.GlobalName
	}
	if displayName == "" {
		displayName = user.Username
	}

	embed := discordgo.MessageEmbed{
		Title:     fmt.Sprintf("User info: %s", displayName),
		Color:     color,
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: member.AvatarURL("")},
	}
	addField := func(name string, value string, inline bool) {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: name, Value: value, Inline: inline})
	}

	addField("Username", user.String(), true)
	if user.GlobalName != "" {
		addField("Global name", user.GlobalName, true)
	}
	if member.Nick != "" {
		addField("Nickname", member.Nick, true)
	}
	addField("ID", user.ID, false)
	addField("Status", status, true)

	if created, err := discordgo.SnowflakeTimestamp(user.ID); err == nil {
		addField("Account created", discordTimestamp(created), false)
	}
	if !member.JoinedAt.IsZero() {
		addField("Joined server", discordTimestamp(member.JoinedAt), false)
	}

	if line := activityLine(activities); line != "" {
		addField("Activity", line, false)
	}

	if len(roleNames) > 0 {
		addField(fmt.Sprintf("Roles (%d)", len(roleNames)), strings.Join(roleNames, ", "), false)
	}

	if badges := snapshot.Badges(user.PublicFlags); len(badges) > 0 {
		addField("Badges", strings.Join(badges, ", "), false)
	}

	if bannerUrl != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: bannerUrl}
	}

	return []Response{ResponseEmbed{embed}}
}

// Summarize the first activity of a member for the profile card
func activityLine(activities []snapshot.Activity) string {

	if len(activities) == 0 {
		return ""
	}
	activity := activities[0]
	switch activity.Type {
	case "listening":
		if activity.Title != "" {
			return fmt.Sprintf("**Listening to:** %s by %s", activity.Title, strings.Join(activity.Artists, ", "))
		}
		return fmt.Sprintf("**Listening:** %s", activity.Name)
	case "custom":
		line := activity.State
		if activity.Emoji != nil {
			line = strings.TrimSpace(activity.Emoji.Name + " " + line)
		}
		return line
	default:
		return fmt.Sprintf("**%s:** %s", strings.ToUpper(activity.Type[:1])+activity.Type[1:], activity.Name)
	}
}

func ServerInfoMessage(guild *discordgo.Guild) []Response {

	embed := discordgo.MessageEmbed{Title: fmt.Sprintf("Server info: %s", guild.Name), Color: color}
	addField := func(name string, value string, inline bool) {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: name, Value: value, Inline: inline})
	}

	if icon := guild.IconURL(""); icon != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: icon}
	}

	addField("Owner", fmt.Sprintf("<@%s>", guild.OwnerID), true)
	addField("ID", guild.ID, true)
	if created, err := discordgo.SnowflakeTimestamp(guild.ID); err == nil {
		addField("Created on", discordTimestamp(created), false)
	}

	memberCount := guild.MemberCount
	if memberCount == 0 {
		memberCount = len(guild.Members)
	}
	addField("Members", fmt.Sprintf("Total: %d", memberCount), true)

	var text, voice, categories int
	for _, channel := range guild.Channels {
		switch channel.Type {
		case discordgo.ChannelTypeGuildText:
			text++
		case discordgo.ChannelTypeGuildVoice:
			voice++
		case discordgo.ChannelTypeGuildCategory:
			categories++
		}
	}
	addField("Channels", fmt.Sprintf("Total: %d\nText: %d\nVoice: %d\nCategories: %d", len(guild.Channels), text, voice, categories), true)
	addField("Emojis & Stickers", fmt.Sprintf("Emojis: %d\nStickers: %d", len(guild.Emojis), len(guild.Stickers)), true)

	if guild.PremiumTier > 0 {
		addField("Boost status", fmt.Sprintf("Level %d with %d boosts", guild.PremiumTier, guild.PremiumSubscriptionCount), true)
	}

	// Print the role names, highest first, without flooding the embed
	roles := make([]*discordgo.Role, 0, len(guild.Roles))
	for _, role := range guild.Roles {
		if role.ID != guild.ID {
			roles = append(roles, role)
		}
	}
	sort.SliceStable(roles, func(i, j int) bool { return roles[i].Position > roles[j].Position })
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = role.Name
	}
	value := "None"
	if len(names) > 10 {
		value = strings.Join(names[:10], ", ") + fmt.Sprintf(" and %d more", len(names)-10)
	} else if len(names) > 0 {
		value = strings.Join(names, ", ")
	}
	addField(fmt.Sprintf("Roles (%d)", len(names)), value, false)

	return []Response{ResponseEmbed{embed}}
}

func AvatarMessage(member *discordgo.Member) []Response {

	embed := discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s's avatar", member.User.Username),
		Color: color,
		Image: &discordgo.MessageEmbedImage{URL: member.AvatarURL("1024")},
	}

	links := []string{}
	if member.User.Avatar != "" {
		links = append(links, fmt.Sprintf("[Global avatar](%s)", member.User.AvatarURL("1024")))
	}
	if member.Avatar != "" {
		links = append(links, fmt.Sprintf("[Server avatar](%s)", member.AvatarURL("1024")))
	}
	if len(links) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Avatars", Value: strings.Join(links, " | ")})
	}

	return []Response{ResponseEmbed{embed}}
}

func BannerMessage(user *discordgo.User, bannerUrl string) []Response {

	if bannerUrl == "" {
		if user.AccentColor != 0 {
			embed := discordgo.MessageEmbed{
				Title:       fmt.Sprintf("%s's banner", user.Username),
				Description: fmt.Sprintf("This user has no banner, but they have an accent color: `#%06x`", user.AccentColor),
				Color:       user.AccentColor,
			}
			return []Response{ResponseEmbed{embed}}
		}
		return []Response{ResponseString{fmt.Sprintf("%s has no banner or accent color", user.Username)}}
	}

	embed := discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s's banner", user.Username),
		Color: color,
		Image: &discordgo.MessageEmbedImage{URL: bannerUrl},
	}
	if user.AccentColor != 0 {
		embed.Color = user.AccentColor
	}
	return []Response{ResponseEmbed{embed}}
}

func RoleInfoMessage(role *discordgo.Role, memberCount int) []Response {

	embed := discordgo.MessageEmbed{Title: fmt.Sprintf("Role info: %s", role.Name), Color: role.Color}
	addField := func(name string, value string, inline bool) {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: name, Value: value, Inline: inline})
	}

	addField("ID", role.ID, true)
	addField("Color", fmt.Sprintf("#%06x", role.Color), true)
	addField("Position", fmt.Sprintf("%d", role.Position), true)
	addField("Members", fmt.Sprintf("%d member(s)", memberCount), true)
	addField("Mentionable", fmt.Sprintf("%t", role.Mentionable), true)
	addField("Hoisted", fmt.Sprintf("%t", role.Hoist), true)
	if created, err := discordgo.SnowflakeTimestamp(role.ID); err == nil {
		addField("Created on", discordTimestamp(created), false)
	}

	return []Response{ResponseEmbed{embed}}
}

func RoleDoesNotExist(roleName string) []Response {
	return []Response{ResponseString{fmt.Sprintf("Role `%s` does not exist in this server", roleName)}}
}

func MemberNotFound(reference string) []Response {
	return []Response{ResponseString{fmt.Sprintf("Could not find member `%s` in this server", reference)}}
}

func AfkSet(message string) []Response {
	return []Response{ResponseString{fmt.Sprintf("I have set your AFK status: %s", message)}}
}

func WelcomeBack(userId string) []Response {
	return []Response{ResponseString{fmt.Sprintf("Welcome back <@%s>! I have removed your AFK status", userId)}}
}

func AfkNotice(displayName string, message string) []Response {
	return []Response{ResponseString{fmt.Sprintf("%s is currently AFK: %s", displayName, message)}}
}

func SnipeMessage(message *discordgo.Message) []Response {

	embed := discordgo.MessageEmbed{
		Description: message.Content,
		Color:       color,
		Author: &discordgo.MessageEmbedAuthor{
			Name:    message.Author.Username,
			IconURL: message.Author.AvatarURL(""),
		},
	}
	if timestamp := message.Timestamp; !timestamp.IsZero() {
		embed.Timestamp = timestamp.Format(time.RFC3339)
	}
	if len(message.Attachments) > 0 {
		embed.Image = &discordgo.MessageEmbedImage{URL: message.Attachments[0].URL}
	}
	return []Response{ResponseEmbed{embed}}
}

func NothingToSnipe() []Response {
	return []Response{ResponseString{"There is no message to snipe"}}
}

func PollMessage(poll Poll, author string) discordgo.MessageEmbed {

	lines := make([]string, len(poll.Options))
	for i, option := range poll.Options {
		lines[i] = fmt.Sprintf("%s %s", pollEmojis[i], option)
	}
	return discordgo.MessageEmbed{
		Title:       poll.Question,
		Description: strings.Join(lines, "\n"),
		Color:       color,
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Poll by %s", author)},
	}
}

func ReminderSet(reminder Reminder) []Response {
	return []Response{ResponseString{fmt.Sprintf("Okay, I will remind you in `%s` about: `%s`", reminder.Duration, reminder.Text)}}
}

func ReminderMessage(reminder Reminder) string {
	return fmt.Sprintf("**Reminder:** %s", reminder.Text)
}

func ReminderTooLong(max time.Duration) []Response {
	return []Response{ResponseString{fmt.Sprintf("I can only remind you up to `%s` into the future", max)}}
}

func WhoisMessage(info lookup.IpInfo) []Response {

	embed := discordgo.MessageEmbed{Title: fmt.Sprintf("IP info: %s", info.Query), Color: color}
	addField := func(name string, value string) {
		if value != "" {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: name, Value: value, Inline: true})
		}
	}

	addField("Country", fmt.Sprintf("%s (%s)", info.Country, info.CountryCode))
	addField("Region", fmt.Sprintf("%s (%s)", info.RegionName, info.Region))
	addField("City", info.City)
	addField("ZIP code", info.Zip)
	addField("ISP", info.Isp)
	addField("Organization", info.Org)
	addField("AS", info.As)
	addField("Coordinates", fmt.Sprintf("%f, %f", info.Lat, info.Lon))

	return []Response{ResponseEmbed{embed}}
}

func LookupFailed(what string) []Response {
	return []Response{ResponseString{fmt.Sprintf("Got no response when looking up `%s`", what)}}
}

func ShortenedUrl(short string) []Response {
	return []Response{ResponseString{fmt.Sprintf("Shortened URL: %s", short)}}
}

func CalcResult(result string) []Response {
	return []Response{ResponseString{fmt.Sprintf("Result: `%s`", result)}}
}

func CalcFailed(err error) []Response {
	return []Response{ResponseString{fmt.Sprintf("Error: `%s`", err)}}
}

func QuoteMessage(message *discordgo.Message, channelName string, link string) []Response {

	embed := discordgo.MessageEmbed{
		Description: message.Content,
		Color:       color,
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("in #%s", channelName)},
	}
	if message.Author != nil {
		embed.Author = &discordgo.MessageEmbedAuthor{
			Name:    message.Author.Username,
			IconURL: message.Author.AvatarURL(""),
			URL:     link,
		}
	}
	if !message.Timestamp.IsZero() {
		embed.Timestamp = message.Timestamp.Format(time.RFC3339)
	}
	if len(message.Attachments) > 0 {
		embed.Image = &discordgo.MessageEmbedImage{URL: message.Attachments[0].URL}
	}
	return []Response{ResponseEmbed{embed}}
}

func QuoteNotFound() []Response {
	return []Response{ResponseString{"I could not find that message"}}
}

func QuoteForeignGuild() []Response {
	return []Response{ResponseString{"I can only quote messages from this server"}}
}

func EmojiInfoMessage(emoji EmojiRef, url string, guildName string) []Response {

	embed := discordgo.MessageEmbed{
		Title:     "Emoji info",
		Color:     color,
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: url},
	}
	addField := func(name string, value string, inline bool) {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: name, Value: value, Inline: inline})
	}

	addField("Name", emoji.Name, true)
	addField("ID", emoji.Id, true)
	addField("Animated", fmt.Sprintf("%t", emoji.Animated), true)
	if created, err := discordgo.SnowflakeTimestamp(emoji.Id); err == nil {
		addField("Created at", discordTimestamp(created), false)
	}
	if guildName != "" {
		addField("Server", guildName, true)
	}

	return []Response{ResponseEmbed{embed}}
}

func InviteInfoMessage(invite *discordgo.Invite) []Response {

	embed := discordgo.MessageEmbed{Title: fmt.Sprintf("Invite info: %s", invite.Code), Color: color}
	addField := func(name string, value string) {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: name, Value: value, Inline: true})
	}

	if invite.Guild != nil {
		addField("Server", fmt.Sprintf("%s (%s)", invite.Guild.Name, invite.Guild.ID))
		if icon := invite.Guild.IconURL(""); icon != "" {
			embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: icon}
		}
	}
	if invite.Channel != nil {
		addField("Channel", fmt.Sprintf("#%s", invite.Channel.Name))
	}
	if invite.Inviter != nil {
		addField("Inviter", invite.Inviter.String())
	}
	if invite.ApproximateMemberCount > 0 {
		addField("Members", fmt.Sprintf("%d (%d online)", invite.ApproximateMemberCount, invite.ApproximatePresenceCount))
	}
	if invite.ExpiresAt != nil {
		addField("Expires at", discordTimestamp(*invite.ExpiresAt))
	}

	return []Response{ResponseEmbed{embed}}
}

func InviteNotFound(code string) []Response {
	return []Response{ResponseString{fmt.Sprintf("Invite `%s` is invalid or has expired", code)}}
}

// Discord renders <t:unix:F> as a full date in the reader's timezone,
// and <t:unix:R> as a relative time
func discordTimestamp(t time.Time) string {
	unix := t.Unix()
	return fmt.Sprintf("<t:%d:F> (<t:%d:R>)", unix, unix)
}

package snapshot

import "github.com/bwmarrin/discordgo"

// Public account flags rendered as badges, in ascending bit order
// so the output is deterministic
var badgeNames = []struct {
	flag discordgo.UserFlags
	name string
}{
	{discordgo.UserFlagDiscordEmployee, "staff"},
	{discordgo.UserFlagDiscordPartner, "partner"},
	{discordgo.UserFlagHypeSquadEvents, "hypesquad"},
	{discordgo.UserFlagBugHunterLevel1, "bug_hunter"},
	{discordgo.UserFlagHouseBravery, "hypesquad_bravery"},
	{discordgo.UserFlagHouseBrilliance, "hypesquad_brilliance"},
	{discordgo.UserFlagHouseBalance, "hypesquad_balance"},
	{discordgo.UserFlagEarlySupporter, "early_supporter"},
	{discordgo.UserFlagTeamUser, "team_user"},
	{discordgo.UserFlagSystem, "system"},
	{discordgo.UserFlagBugHunterLevel2, "bug_hunter_level_2"},
	{discordgo.UserFlagVerifiedBot, "verified_bot"},
	{discordgo.UserFlagVerifiedBotDeveloper, "verified_bot_developer"},
	{discordgo.UserFlagDiscordCertifiedModerator, "discord_certified_moderator"},
	{discordgo.UserFlagActiveBotDeveloper, "active_developer"},
}

// Badges maps an account's public flag set to its badge labels.
// Unknown bits are ignored; the result is never nil
func Badges(flags discordgo.UserFlags) []string {

	badges := []string{}
	for _, badge := range badgeNames {
		if flags&badge.flag != 0 {
			badges = append(badges, badge.name)
		}
	}
	return badges
}

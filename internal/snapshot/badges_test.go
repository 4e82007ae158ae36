package snapshot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestBadgesEmpty(t *testing.T) {

	badges := Badges(0)
	assert.NotNil(t, badges)
	assert.Empty(t, badges)
}

func TestBadgesSingleFlag(t *testing.T) {

	badges := Badges(discordgo.UserFlagEarlySupporter)
	assert.Equal(t, []string{"early_supporter"}, badges)
}

func TestBadgesActiveDeveloper(t *testing.T) {

	badges := Badges(discordgo.UserFlagActiveBotDeveloper)
	assert.Equal(t, []string{"active_developer"}, badges)
}

func TestBadgesStableOrder(t *testing.T) {

	flags := discordgo.UserFlagHypeSquadEvents | discordgo.UserFlagDiscordPartner | discordgo.UserFlagDiscordEmployee
	badges := Badges(flags)
	assert.Equal(t, []string{"staff", "partner", "hypesquad"}, badges)
}

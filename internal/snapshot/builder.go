package snapshot

import (
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Builder assembles a full snapshot of every guild and member currently
// known to the gateway state. It only reads the live state; the banner
// cache is the only thing it writes to. The gateway keeps mutating the
// state concurrently, so every build is a best effort point in time view:
// a member joining or leaving mid build may or may not be included
type Builder struct {
	state   *discordgo.State
	banners *BannerCache
}

func NewBuilder(state *discordgo.State, banners *BannerCache) *Builder {
	return &Builder{state: state, banners: banners}
}

// guildView is a copy of one guild's projection inputs, taken under the
// state read lock. The gateway appends to and reslices the live guild
// slices under the write lock, and a build suspends on every banner
// fetch miss, so the projection must never touch the live slices
type guildView struct {
	id          string
	name        string
	iconUrl     string
	memberCount int
	members     []*discordgo.Member
	roles       []*discordgo.Role
	presences   map[string]presenceView
}

type presenceView struct {
	status     discordgo.Status
	activities []*discordgo.Activity
}

// Build walks the current state and produces the complete document.
// Always a full rebuild, linear in the number of (guild, member) pairs,
// plus one banner fetch per never before seen user
func (builder *Builder) Build() Snapshot {

	snapshot := Snapshot{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Guilds:      []Guild{},
	}

	for _, view := range builder.collectGuilds() {
		snapshot.Guilds = append(snapshot.Guilds, builder.projectGuild(view))
	}

	sort.SliceStable(snapshot.Guilds, func(i, j int) bool {
		return strings.ToLower(snapshot.Guilds[i].Name) < strings.ToLower(snapshot.Guilds[j].Name)
	})

	return snapshot
}

// collectGuilds copies everything the projection reads out of the state,
// under one read lock, so the gateway is never blocked on a banner fetch
func (builder *Builder) collectGuilds() []guildView {

	builder.state.RLock()
	defer builder.state.RUnlock()

	views := make([]guildView, 0, len(builder.state.Guilds))
	for _, guild := range builder.state.Guilds {
		if guild == nil {
			continue
		}
		view := guildView{
			id:          guild.ID,
			name:        guild.Name,
			iconUrl:     guild.IconURL(""),
			memberCount: guild.MemberCount,
			members:     make([]*discordgo.Member, len(guild.Members)),
			roles:       make([]*discordgo.Role, len(guild.Roles)),
			presences:   make(map[string]presenceView, len(guild.Presences)),
		}
		copy(view.members, guild.Members)
		copy(view.roles, guild.Roles)
		for _, presence := range guild.Presences {
			if presence == nil || presence.User == nil {
				continue
			}
			view.presences[presence.User.ID] = copyPresence(presence)
		}
		// Prefer the count reported by the gateway; it stays
		// authoritative while the member list is still being chunked
		if view.memberCount == 0 {
			view.memberCount = len(view.members)
		}
		views = append(views, view)
	}
	return views
}

// copyPresence must run under the state read lock: the gateway replaces
// the activity slice of a cached presence in place on every update
func copyPresence(presence *discordgo.Presence) presenceView {
	view := presenceView{status: presence.Status}
	view.activities = make([]*discordgo.Activity, len(presence.Activities))
	copy(view.activities, presence.Activities)
	return view
}

func (builder *Builder) projectGuild(view guildView) Guild {

	result := Guild{
		Id:          view.id,
		Name:        view.name,
		IconUrl:     view.iconUrl,
		MemberCount: view.memberCount,
		Members:     []Member{},
	}

	for _, member := range view.members {
		projected, ok := builder.projectMember(view, member)
		if !ok {
			continue
		}
		result.Members = append(result.Members, projected)
	}

	sort.SliceStable(result.Members, func(i, j int) bool {
		return memberSortKey(result.Members[i]) < memberSortKey(result.Members[j])
	})

	return result
}

// projectMember assembles one member's public profile. Each field is
// independently fault tolerant: a field that cannot be resolved is left
// empty without aborting the rest of the projection. Only a member with
// no user record at all is skipped
func (builder *Builder) projectMember(view guildView, member *discordgo.Member) (Member, bool) {

	if member == nil || member.User == nil {
		return Member{}, false
	}
	user := member.User

	result := Member{
		Id:            user.ID,
		Name:          user.Username,
		Discriminator: user.Discriminator,
		GlobalName:    user.GlobalName,
		Nick:          member.Nick,
		AvatarUrl:     member.AvatarURL(""),
		BannerUrl:     builder.banners.BannerUrl(user.ID),
		AccentColor:   user.AccentColor,
		Badges:        Badges(user.PublicFlags),
		Activities:    []Activity{},
	}

	// Nickname, else the global display name, else the username
	result.DisplayName = member.Nick
	if result.DisplayName == "" {
		result.DisplayName = user.GlobalName
	}
	if result.DisplayName == "" {
		result.DisplayName = user.Username
	}

	if !member.JoinedAt.IsZero() {
		result.JoinedAt = member.JoinedAt.UTC().Format(time.RFC3339)
	}

	presence, ok := view.presences[user.ID]
	if !ok {
		presence = presenceView{status: discordgo.StatusOffline}
	}
	result.Status, result.Activities = normalizePresence(presence)
	result.Roles = projectRoles(view.id, view.roles, member)

	return result, true
}

// Presence resolves the live status and activity list of a member.
// A member with no presence available is reported offline with no activities
func (builder *Builder) Presence(guildId string, userId string) (string, []Activity) {

	view := presenceView{status: discordgo.StatusOffline}
	builder.state.RLock()
	for _, guild := range builder.state.Guilds {
		if guild == nil || guild.ID != guildId {
			continue
		}
		for _, presence := range guild.Presences {
			if presence != nil && presence.User != nil && presence.User.ID == userId {
				view = copyPresence(presence)
				break
			}
		}
		break
	}
	builder.state.RUnlock()

	return normalizePresence(view)
}

func normalizePresence(view presenceView) (string, []Activity) {

	status := "offline"
	switch view.status {
	case discordgo.StatusOnline:
		status = "online"
	case discordgo.StatusIdle:
		status = "idle"
	case discordgo.StatusDoNotDisturb:
		status = "dnd"
	}

	// Keep the order the presence reports the activities in
	activities := []Activity{}
	for _, activity := range view.activities {
		if normalized := Normalize(activity); normalized != nil {
			activities = append(activities, *normalized)
		}
	}

	return status, activities
}

// MemberRoles resolves a member's role list against the guild role table,
// copying the table under the state read lock first
func (builder *Builder) MemberRoles(guildId string, member *discordgo.Member) []Role {

	builder.state.RLock()
	var roles []*discordgo.Role
	for _, guild := range builder.state.Guilds {
		if guild != nil && guild.ID == guildId {
			roles = make([]*discordgo.Role, len(guild.Roles))
			copy(roles, guild.Roles)
			break
		}
	}
	builder.state.RUnlock()

	return projectRoles(guildId, roles, member)
}

// projectRoles maps the member's role ids against the guild role table,
// excluding the everyone role, highest position first.
// Role ids with no matching role (deleted mid build) are dropped
func projectRoles(guildId string, guildRoles []*discordgo.Role, member *discordgo.Member) []Role {

	table := make(map[string]*discordgo.Role, len(guildRoles))
	for _, role := range guildRoles {
		table[role.ID] = role
	}

	roles := []Role{}
	for _, roleId := range member.Roles {
		role, ok := table[roleId]
		// The everyone role shares its id with the guild
		if !ok || role.ID == guildId {
			continue
		}
		roles = append(roles, Role{
			Id:       role.ID,
			Name:     role.Name,
			Color:    role.Color,
			Position: role.Position,
		})
	}

	sort.SliceStable(roles, func(i, j int) bool {
		return roles[i].Position > roles[j].Position
	})

	return roles
}

func memberSortKey(member Member) string {
	if member.DisplayName != "" {
		return strings.ToLower(member.DisplayName)
	}
	return strings.ToLower(member.Name)
}

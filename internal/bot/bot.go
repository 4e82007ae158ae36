package bot

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"guildmirror/internal/common"
	"guildmirror/internal/config"
	"guildmirror/internal/lookup"
	"guildmirror/internal/snapshot"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

type Afk map[string]string                // user id -> afk message
type Sniped map[string]*discordgo.Message // channel id -> last deleted message

type Bot struct {
	token            string
	prefix           string
	port             int
	messageCacheSize int
	maxReminder      time.Duration
	startTime        time.Time

	// The two auxiliary caches shared by the command handlers.
	// Handlers run concurrently, so both sit behind one mutex
	mu     sync.Mutex
	afk    Afk
	sniped Sniped

	lookup               lookup.Client
	banners              *snapshot.BannerCache
	builder              *snapshot.Builder
	server               *snapshot.Server
	housekeepingExecutor common.TimedExecutor
}

func NewBot(token string, cfg *config.Config) (*Bot, error) {

	if token == "" {
		return nil, fmt.Errorf("no discord token provided")
	}

	var bot Bot
	bot.token = token
	bot.prefix = cfg.Bot.Prefix
	bot.port = cfg.Server.Port
	bot.messageCacheSize = cfg.Bot.MessageCacheSize
	bot.maxReminder = cfg.Bot.MaxReminder
	bot.startTime = time.Now()
	bot.afk = Afk{}
	bot.sniped = Sniped{}
	// One lookup client for the whois and shorten commands,
	// restricted so third party APIs do not ban us
	bot.lookup = lookup.NewClient([]common.Restriction{
		{Requests: cfg.Lookup.Requests, Duration: cfg.Lookup.Window},
	})
	bot.housekeepingExecutor = common.NewTimedExecutor(cfg.Housekeeping.Interval, bot.housekeeping)

	return &bot, nil
}

func (bot *Bot) Run() error {

	// Create session
	discord, err := discordgo.New("Bot " + bot.token)
	if err != nil {
		return fmt.Errorf("could not create discord session: %w", err)
	}

	// The snapshot needs members and presences; the commands need
	// message content. The state keeps a bounded message cache so
	// deleted messages can be sniped
	discord.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMembers |
		discordgo.IntentGuildPresences |
		discordgo.IntentGuildMessages |
		discordgo.IntentMessageContent
	discord.State.MaxMessageCount = bot.messageCacheSize

	// Event handlers
	discord.AddHandler(bot.Ready)
	discord.AddHandler(bot.GuildCreated)
	discord.AddHandler(bot.Receive)
	discord.AddHandler(bot.MessageDeleted)

	// Open session
	if err := discord.Open(); err != nil {
		return fmt.Errorf("could not open discord session: %w", err)
	}
	defer discord.Close()

	// The snapshot pipeline reads the session state and fetches
	// banners through the session's REST client
	bot.banners = snapshot.NewBannerCache(discord)
	bot.builder = snapshot.NewBuilder(discord.State, bot.banners)
	bot.server = snapshot.NewServer(bot.builder, bot.port)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- bot.server.Run()
	}()

	// Keep the bot running until an os interruption,
	// giving the housekeeping a chance from time to time
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			bot.housekeepingExecutor.Execute()
		case err := <-serverErr:
			return err
		case <-interrupt:
			log.Info().Msg("Shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return bot.server.Shutdown(ctx)
		}
	}
}

func (bot *Bot) Ready(discord *discordgo.Session, ready *discordgo.Ready) {
	log.Info().Msg(fmt.Sprintf("Logged in as %s (id %s)", ready.User.String(), ready.User.ID))
}

// Chunk every guild as it becomes available so the member cache is
// complete before the first snapshot is requested
func (bot *Bot) GuildCreated(discord *discordgo.Session, event *discordgo.GuildCreate) {
	log.Info().Msg(fmt.Sprintf("Chunking guild %s", event.Guild.Name))
	if err := discord.RequestGuildMembers(event.Guild.ID, "", 0, "", true); err != nil {
		log.Error().Msg(fmt.Sprintf("Could not chunk guild %s: %s", event.Guild.ID, err))
	}
}

// Remember the last deleted message per channel, so it can be sniped.
// The state provides the pre delete copy when the message was cached
func (bot *Bot) MessageDeleted(discord *discordgo.Session, event *discordgo.MessageDelete) {

	message := event.BeforeDelete
	if message == nil || message.Author == nil || message.Author.Bot {
		return
	}
	bot.mu.Lock()
	bot.sniped[event.ChannelID] = message
	bot.mu.Unlock()
}

func (bot *Bot) Receive(discord *discordgo.Session, message *discordgo.MessageCreate) {

	// Reject my own messages and other bots
	if message.Author.ID == discord.State.User.ID || message.Author.Bot {
		return
	}

	// Commands are only served in guild channels. An attempted command
	// in a private channel gets one short notice; plain chatter is
	// ignored without a reply
	if message.GuildID == "" {
		log.Debug().Msg("Ignoring private message")
		bot.sendResponses(discord, message.ChannelID, privateMessageReply(bot.prefix, message.Content))
		return
	}

	// Parse the input provided and call the appropriate function
	parseResult := Parse(bot.prefix, message.Content)

	// AFK bookkeeping happens for every message, command or not
	bot.checkAfk(discord, message, parseResult.parseid == PARSEID_NO_BOT_PREFIX)

	switch parseResult.parseid {
	case PARSEID_NO_BOT_PREFIX:
		return
	case PARSEID_OK:
		log.Info().Msg(fmt.Sprintf("Command understood: %s", message.Content))
		var responses []Response
		switch parseResult.command {
		case COMMAND_HELP:
			responses = HelpMessage(bot.prefix)
		case COMMAND_PING:
			responses = Pong(discord.HeartbeatLatency())
		case COMMAND_UPTIME:
			responses = UptimeMessage(bot.startTime)
		case COMMAND_USERINFO:
			responses = bot.userinfo(discord, message, parseResult.arguments.(string))
		case COMMAND_SERVERINFO:
			responses = bot.serverinfo(discord, message.GuildID)
		case COMMAND_AVATAR:
			responses = bot.avatar(discord, message, parseResult.arguments.(string))
		case COMMAND_BANNER:
			responses = bot.banner(discord, message, parseResult.arguments.(string))
		case COMMAND_ROLEINFO:
			responses = bot.roleinfo(discord, message.GuildID, parseResult.arguments.(string))
		case COMMAND_AFK:
			responses = bot.setAfk(message.Author.ID, parseResult.arguments.(string))
		case COMMAND_SNIPE:
			responses = bot.snipe(message.ChannelID)
		case COMMAND_POLL:
			bot.poll(discord, message, parseResult.arguments.(Poll))
		case COMMAND_REMIND:
			responses = bot.remind(discord, message, parseResult.arguments.(Reminder))
		case COMMAND_WHOIS:
			responses = bot.whois(parseResult.arguments.(string))
		case COMMAND_SHORTEN:
			responses = bot.shorten(parseResult.arguments.(string))
		case COMMAND_CALC:
			responses = bot.calc(parseResult.arguments.(string))
		case COMMAND_QUOTE:
			responses = bot.quote(discord, message.GuildID, parseResult.arguments.(Quote))
		case COMMAND_EMOJIINFO:
			responses = bot.emojiinfo(discord, message.GuildID, parseResult.arguments.(EmojiRef))
		case COMMAND_INVITEINFO:
			responses = bot.inviteinfo(discord, parseResult.arguments.(string))
		default:
			panic(fmt.Sprintf("Command %d is not one of the possible ones", parseResult.command))
		}
		bot.sendResponses(discord, message.ChannelID, responses)
	default:
		// The command is invalid input, so it contains an error message
		log.Info().Msg(fmt.Sprintf("Wrong input: '%s'. Reason: %s", message.Content, parseResult.errorMessage))
		bot.sendResponses(discord, message.ChannelID, InputNotValid(parseResult.errorMessage))
	}
}

func privateMessageReply(prefix string, content string) []Response {
	if !strings.HasPrefix(content, prefix) {
		return nil
	}
	return []Response{ResponseString{"For the time being, I am ignoring private messages"}}
}

func (bot *Bot) sendResponses(discord *discordgo.Session, channelId string, responses []Response) {
	for _, response := range responses {
		response.Send(channelId, discord)
	}
}

// checkAfk clears the author's AFK status on any message, and warns
// when an AFK member is mentioned
func (bot *Bot) checkAfk(discord *discordgo.Session, message *discordgo.MessageCreate, plainMessage bool) {

	bot.mu.Lock()
	_, wasAfk := bot.afk[message.Author.ID]
	delete(bot.afk, message.Author.ID)
	var notice []Response
	for _, mention := range message.Mentions {
		if afkMessage, ok := bot.afk[mention.ID]; ok {
			name := mention.GlobalName
			if name == "" {
				name = mention.Username
			}
			notice = AfkNotice(name, afkMessage)
			// Only report the first AFK user to avoid flooding the channel
			break
		}
	}
	bot.mu.Unlock()

	// Welcome the author back, unless the message is a command
	if wasAfk && plainMessage {
		bot.sendResponses(discord, message.ChannelID, WelcomeBack(message.Author.ID))
	}
	bot.sendResponses(discord, message.ChannelID, notice)
}

func (bot *Bot) setAfk(userId string, message string) []Response {
	bot.mu.Lock()
	bot.afk[userId] = message
	bot.mu.Unlock()
	return AfkSet(message)
}

func (bot *Bot) snipe(channelId string) []Response {
	bot.mu.Lock()
	message, ok := bot.sniped[channelId]
	bot.mu.Unlock()
	if !ok {
		return NothingToSnipe()
	}
	return SnipeMessage(message)
}

// resolveMember finds the member behind a reference (mention or raw id),
// defaulting to the author of the message. It prefers the local state
// and falls back to one REST fetch
func (bot *Bot) resolveMember(discord *discordgo.Session, guildId string, reference string, authorId string) (*discordgo.Member, error) {

	userId := reference
	if userId == "" {
		userId = authorId
	}
	if member, err := discord.State.Member(guildId, userId); err == nil {
		return member, nil
	}
	member, err := discord.GuildMember(guildId, userId)
	if err != nil {
		return nil, fmt.Errorf("could not find member %s in guild %s", userId, guildId)
	}
	return member, nil
}

func (bot *Bot) userinfo(discord *discordgo.Session, message *discordgo.MessageCreate, reference string) []Response {

	member, err := bot.resolveMember(discord, message.GuildID, reference, message.Author.ID)
	if err != nil {
		log.Info().Msg(err.Error())
		return MemberNotFound(reference)
	}

	status, activities := bot.builder.Presence(message.GuildID, member.User.ID)

	// Role names, highest first
	roleNames := []string{}
	for _, role := range bot.builder.MemberRoles(message.GuildID, member) {
		roleNames = append(roleNames, role.Name)
	}

	return UserInfoMessage(member, status, activities, roleNames, bot.banners.BannerUrl(member.User.ID))
}

func (bot *Bot) serverinfo(discord *discordgo.Session, guildId string) []Response {

	guild, err := discord.State.Guild(guildId)
	if err != nil {
		log.Error().Msg(fmt.Sprintf("Could not find guild %s in the state", guildId))
		return []Response{ResponseString{"I could not find this server in my cache"}}
	}
	return ServerInfoMessage(guild)
}

func (bot *Bot) avatar(discord *discordgo.Session, message *discordgo.MessageCreate, reference string) []Response {

	member, err := bot.resolveMember(discord, message.GuildID, reference, message.Author.ID)
	if err != nil {
		return MemberNotFound(reference)
	}
	return AvatarMessage(member)
}

func (bot *Bot) banner(discord *discordgo.Session, message *discordgo.MessageCreate, reference string) []Response {

	member, err := bot.resolveMember(discord, message.GuildID, reference, message.Author.ID)
	if err != nil {
		return MemberNotFound(reference)
	}
	return BannerMessage(member.User, bot.banners.BannerUrl(member.User.ID))
}

func (bot *Bot) roleinfo(discord *discordgo.Session, guildId string, roleName string) []Response {

	guild, err := discord.State.Guild(guildId)
	if err != nil {
		return RoleDoesNotExist(roleName)
	}

	var role *discordgo.Role
	for _, candidate := range guild.Roles {
		if strings.EqualFold(candidate.Name, roleName) {
			role = candidate
			break
		}
	}
	if role == nil {
		return RoleDoesNotExist(roleName)
	}

	// Count the members carrying the role
	count := 0
	for _, member := range guild.Members {
		for _, roleId := range member.Roles {
			if roleId == role.ID {
				count++
				break
			}
		}
	}

	return RoleInfoMessage(role, count)
}

func (bot *Bot) poll(discord *discordgo.Session, message *discordgo.MessageCreate, poll Poll) {

	// The poll replaces the invoking message
	if err := discord.ChannelMessageDelete(message.ChannelID, message.ID); err != nil {
		log.Debug().Msg(fmt.Sprintf("Could not delete poll command message: %s", err))
	}

	embed := PollMessage(poll, message.Author.Username)
	sent, err := discord.ChannelMessageSendEmbed(message.ChannelID, &embed)
	if err != nil {
		log.Error().Msg(fmt.Sprintf("Could not send poll: %s", err))
		return
	}
	for i := range poll.Options {
		if err := discord.MessageReactionAdd(message.ChannelID, sent.ID, pollEmojis[i]); err != nil {
			log.Debug().Msg(fmt.Sprintf("Could not add poll reaction: %s", err))
		}
	}
}

func (bot *Bot) remind(discord *discordgo.Session, message *discordgo.MessageCreate, reminder Reminder) []Response {

	if reminder.Duration > bot.maxReminder {
		return ReminderTooLong(bot.maxReminder)
	}

	authorId := message.Author.ID
	channelId := message.ChannelID
	time.AfterFunc(reminder.Duration, func() {
		// Remind per direct message; if the user keeps them closed,
		// fall back to the channel the reminder was created in
		if channel, err := discord.UserChannelCreate(authorId); err == nil {
			if _, err := discord.ChannelMessageSend(channel.ID, ReminderMessage(reminder)); err == nil {
				return
			}
		}
		content := fmt.Sprintf("Hey <@%s>, here is your reminder: %s", authorId, ReminderMessage(reminder))
		if _, err := discord.ChannelMessageSend(channelId, content); err != nil {
			log.Error().Msg(fmt.Sprintf("Could not deliver reminder: %s", err))
		}
	})

	return ReminderSet(reminder)
}

func (bot *Bot) whois(ip string) []Response {

	info, err := bot.lookup.GetIpInfo(ip)
	if err != nil {
		log.Info().Msg(err.Error())
		return LookupFailed(ip)
	}
	return WhoisMessage(info)
}

func (bot *Bot) shorten(url string) []Response {

	short, err := bot.lookup.Shorten(url)
	if err != nil {
		log.Info().Msg(err.Error())
		return LookupFailed(url)
	}
	return ShortenedUrl(short)
}

func (bot *Bot) calc(expression string) []Response {

	result, err := Evaluate(expression)
	if err != nil {
		return CalcFailed(err)
	}
	return CalcResult(result)
}

// quote reposts a message of this guild by its link, preferring the
// state's message cache over a REST fetch
func (bot *Bot) quote(discord *discordgo.Session, guildId string, quote Quote) []Response {

	if quote.GuildId != guildId {
		return QuoteForeignGuild()
	}

	message, err := discord.State.Message(quote.ChannelId, quote.MessageId)
	if err != nil {
		message, err = discord.ChannelMessage(quote.ChannelId, quote.MessageId)
	}
	if err != nil || message == nil {
		return QuoteNotFound()
	}

	channelName := quote.ChannelId
	if channel, err := discord.State.Channel(quote.ChannelId); err == nil {
		channelName = channel.Name
	}

	link := fmt.Sprintf("https://discord.com/channels/%s/%s/%s", quote.GuildId, quote.ChannelId, quote.MessageId)
	return QuoteMessage(message, channelName, link)
}

func (bot *Bot) emojiinfo(discord *discordgo.Session, guildId string, emoji EmojiRef) []Response {

	url := discordgo.EndpointEmoji(emoji.Id)
	if emoji.Animated {
		url = discordgo.EndpointEmojiAnimated(emoji.Id)
	}

	// The emoji may come from another server; only name the guild
	// when the emoji is registered in this one
	guildName := ""
	if guild, err := discord.State.Guild(guildId); err == nil {
		for _, candidate := range guild.Emojis {
			if candidate.ID == emoji.Id {
				guildName = guild.Name
				break
			}
		}
	}

	return EmojiInfoMessage(emoji, url, guildName)
}

func (bot *Bot) inviteinfo(discord *discordgo.Session, code string) []Response {

	invite, err := discord.InviteWithCounts(code)
	if err != nil {
		log.Info().Msg(fmt.Sprintf("Could not fetch invite %s: %s", code, err))
		return InviteNotFound(code)
	}
	return InviteInfoMessage(invite)
}

// housekeeping logs the sizes of the in memory caches. None of them
// ever evicts, so the numbers only grow within one process lifetime
func (bot *Bot) housekeeping() {
	bot.mu.Lock()
	afk, sniped := len(bot.afk), len(bot.sniped)
	bot.mu.Unlock()
	log.Info().Msg(fmt.Sprintf("Current number of cached banners: %d", bot.banners.Len()))
	log.Info().Msg(fmt.Sprintf("Current number of AFK users: %d", afk))
	log.Info().Msg(fmt.Sprintf("Current number of sniped channels: %d", sniped))
}

package bot

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	COMMAND_HELP       = iota
	COMMAND_PING       = iota
	COMMAND_UPTIME     = iota
	COMMAND_USERINFO   = iota
	COMMAND_SERVERINFO = iota
	COMMAND_AVATAR     = iota
	COMMAND_BANNER     = iota
	COMMAND_ROLEINFO   = iota
	COMMAND_AFK        = iota
	COMMAND_SNIPE      = iota
	COMMAND_POLL       = iota
	COMMAND_REMIND     = iota
	COMMAND_WHOIS      = iota
	COMMAND_SHORTEN    = iota
	COMMAND_CALC       = iota
	COMMAND_QUOTE      = iota
	COMMAND_EMOJIINFO  = iota
	COMMAND_INVITEINFO = iota
)

const (
	PARSEID_OK                     = iota
	PARSEID_NO_BOT_PREFIX          = iota
	PARSEID_NO_COMMAND             = iota
	PARSEID_COMMAND_NOT_RECOGNISED = iota
	PARSEID_NO_INPUT               = iota
	PARSEID_NOT_AN_IP              = iota
	PARSEID_NOT_A_DURATION         = iota
	PARSEID_BAD_POLL               = iota
	PARSEID_NOT_A_MESSAGE_LINK     = iota
	PARSEID_NOT_AN_EMOJI           = iota
)

var errorMessages map[int]string = map[int]string{
	PARSEID_NO_COMMAND:             "No command provided",
	PARSEID_COMMAND_NOT_RECOGNISED: "Command `%s` not recognised",
	PARSEID_NO_INPUT:               "Command `%s` requires an argument",
	PARSEID_NOT_AN_IP:              "Input `%s` is not an IPv4 address",
	PARSEID_NOT_A_DURATION:         "Input `%s` is not a duration (use formats like `2d`, `4h`, `10m`, `30s`)",
	PARSEID_BAD_POLL:               "A poll needs a question and between 2 and 10 options, separated by `|`",
	PARSEID_NOT_A_MESSAGE_LINK:     "Input `%s` is not a message link",
	PARSEID_NOT_AN_EMOJI:           "Input `%s` is not a custom emoji",
}

// Arguments of the remind command
type Reminder struct {
	Duration time.Duration
	Text     string
}

// Arguments of the poll command
type Poll struct {
	Question string
	Options  []string
}

// Arguments of the quote command, extracted from a message link
type Quote struct {
	GuildId   string
	ChannelId string
	MessageId string
}

// Arguments of the emojiinfo command
type EmojiRef struct {
	Name     string
	Id       string
	Animated bool
}

type ParseResult struct {
	command      int
	parseid      int
	errorMessage string
	arguments    interface{}
}

var mentionRegex = regexp.MustCompile(`^<@!?(\d+)>$`)
var ipRegex = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`)
var durationRegex = regexp.MustCompile(`(\d+)([dhms])`)
var messageLinkRegex = regexp.MustCompile(`^https://discord\.com/channels/(\d+)/(\d+)/(\d+)$`)
var emojiRegex = regexp.MustCompile(`^<(a?):([0-9A-Za-z_~]+):(\d+)>$`)
var inviteRegex = regexp.MustCompile(`(?:https?://)?(?:www\.)?(?:discord\.gg|discord(?:app)?\.com/invite)/([0-9A-Za-z-]+)`)

func Parse(prefix string, message string) ParseResult {

	noInput := func(command int, commandString string) ParseResult {
		parseid := PARSEID_NO_INPUT
		return ParseResult{command: command, parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], commandString)}
	}

	// The message has to start with the bot prefix
	if !strings.HasPrefix(message, prefix) {
		log.Debug().Msg("Reject message not intended for the bot")
		return ParseResult{parseid: PARSEID_NO_BOT_PREFIX}
	}

	// Get the command if valid
	words := strings.Fields(strings.TrimSpace(message[len(prefix):]))
	if len(words) == 0 {
		parseid := PARSEID_NO_COMMAND
		return ParseResult{parseid: parseid, errorMessage: errorMessages[parseid]}
	}
	commandString := words[0]
	words = words[1:]
	rest := strings.Join(words, " ")

	// Match the command

	switch commandString {
	case "help":
		return ParseResult{command: COMMAND_HELP, parseid: PARSEID_OK}
	case "ping":
		return ParseResult{command: COMMAND_PING, parseid: PARSEID_OK}
	case "uptime":
		return ParseResult{command: COMMAND_UPTIME, parseid: PARSEID_OK}
	case "snipe":
		return ParseResult{command: COMMAND_SNIPE, parseid: PARSEID_OK}
	case "serverinfo":
		return ParseResult{command: COMMAND_SERVERINFO, parseid: PARSEID_OK}
	case "userinfo", "avatar", "banner":
		// <prefix> userinfo [member]
		// The member reference is optional and defaults to the author
		command := map[string]int{"userinfo": COMMAND_USERINFO, "avatar": COMMAND_AVATAR, "banner": COMMAND_BANNER}[commandString]
		return ParseResult{command: command, parseid: PARSEID_OK, arguments: parseUserReference(rest)}
	case "roleinfo":
		// <prefix> roleinfo <role name>
		if len(words) == 0 {
			return noInput(COMMAND_ROLEINFO, commandString)
		}
		return ParseResult{command: COMMAND_ROLEINFO, parseid: PARSEID_OK, arguments: rest}
	case "afk":
		// <prefix> afk [message]
		if rest == "" {
			rest = "AFK"
		}
		return ParseResult{command: COMMAND_AFK, parseid: PARSEID_OK, arguments: rest}
	case "poll":
		// <prefix> poll <question> | <option> | <option> [| <option> ...]
		return parsePoll(rest)
	case "remind":
		// <prefix> remind <duration> <text>
		if len(words) < 2 {
			return noInput(COMMAND_REMIND, commandString)
		}
		return parseReminder(words[0], strings.Join(words[1:], " "))
	case "whois":
		// <prefix> whois <ipv4>
		if len(words) == 0 {
			return noInput(COMMAND_WHOIS, commandString)
		}
		if !ipRegex.MatchString(words[0]) {
			parseid := PARSEID_NOT_AN_IP
			return ParseResult{command: COMMAND_WHOIS, parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], words[0])}
		}
		return ParseResult{command: COMMAND_WHOIS, parseid: PARSEID_OK, arguments: words[0]}
	case "shorten":
		// <prefix> shorten <url>
		if len(words) == 0 {
			return noInput(COMMAND_SHORTEN, commandString)
		}
		return ParseResult{command: COMMAND_SHORTEN, parseid: PARSEID_OK, arguments: words[0]}
	case "calc":
		// <prefix> calc <expression>
		if rest == "" {
			return noInput(COMMAND_CALC, commandString)
		}
		return ParseResult{command: COMMAND_CALC, parseid: PARSEID_OK, arguments: rest}
	case "quote":
		// <prefix> quote <message link>
		if len(words) == 0 {
			return noInput(COMMAND_QUOTE, commandString)
		}
		match := messageLinkRegex.FindStringSubmatch(words[0])
		if match == nil {
			parseid := PARSEID_NOT_A_MESSAGE_LINK
			return ParseResult{command: COMMAND_QUOTE, parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], words[0])}
		}
		return ParseResult{command: COMMAND_QUOTE, parseid: PARSEID_OK, arguments: Quote{GuildId: match[1], ChannelId: match[2], MessageId: match[3]}}
	case "emojiinfo":
		// <prefix> emojiinfo <custom emoji>
		if len(words) == 0 {
			return noInput(COMMAND_EMOJIINFO, commandString)
		}
		match := emojiRegex.FindStringSubmatch(words[0])
		if match == nil {
			parseid := PARSEID_NOT_AN_EMOJI
			return ParseResult{command: COMMAND_EMOJIINFO, parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], words[0])}
		}
		return ParseResult{command: COMMAND_EMOJIINFO, parseid: PARSEID_OK, arguments: EmojiRef{Name: match[2], Id: match[3], Animated: match[1] == "a"}}
	case "inviteinfo":
		// <prefix> inviteinfo <invite link or code>
		if len(words) == 0 {
			return noInput(COMMAND_INVITEINFO, commandString)
		}
		code := words[0]
		if match := inviteRegex.FindStringSubmatch(code); match != nil {
			code = match[1]
		}
		return ParseResult{command: COMMAND_INVITEINFO, parseid: PARSEID_OK, arguments: code}
	default:
		parseid := PARSEID_COMMAND_NOT_RECOGNISED
		return ParseResult{parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], commandString)}
	}
}

// parseUserReference extracts a user id from a mention or a raw id.
// An empty reference (the author) parses to the empty string
func parseUserReference(word string) string {

	if match := mentionRegex.FindStringSubmatch(word); match != nil {
		return match[1]
	}
	return word
}

func parsePoll(input string) ParseResult {

	parts := strings.Split(input, "|")
	fields := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			fields = append(fields, trimmed)
		}
	}
	// One question plus between 2 and 10 options
	if len(fields) < 3 || len(fields) > 11 {
		parseid := PARSEID_BAD_POLL
		return ParseResult{command: COMMAND_POLL, parseid: parseid, errorMessage: errorMessages[parseid]}
	}
	return ParseResult{command: COMMAND_POLL, parseid: PARSEID_OK, arguments: Poll{Question: fields[0], Options: fields[1:]}}
}

func parseReminder(durationString string, text string) ParseResult {

	matches := durationRegex.FindAllStringSubmatch(strings.ToLower(durationString), -1)
	if matches == nil {
		parseid := PARSEID_NOT_A_DURATION
		return ParseResult{command: COMMAND_REMIND, parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], durationString)}
	}

	var duration time.Duration
	units := map[string]time.Duration{"d": 24 * time.Hour, "h": time.Hour, "m": time.Minute, "s": time.Second}
	for _, match := range matches {
		var value int
		fmt.Sscanf(match[1], "%d", &value)
		duration += time.Duration(value) * units[match[2]]
	}
	if duration <= 0 {
		parseid := PARSEID_NOT_A_DURATION
		return ParseResult{command: COMMAND_REMIND, parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], durationString)}
	}
	return ParseResult{command: COMMAND_REMIND, parseid: PARSEID_OK, arguments: Reminder{Duration: duration, Text: text}}
}

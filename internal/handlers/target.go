package handlers

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

// TargetKind tells how a Target refers to its subject.
type TargetKind int

const (
	TargetNone   TargetKind = iota // nothing resolved; the caller replies with usage
	TargetID                       // numeric user or chat ID
	TargetHandle                   // opaque handle, only resolvable through a chat lookup
)

// TargetSource records which rule produced a Target.
type TargetSource int

const (
	SourceNone TargetSource = iota
	SourceReply
	SourceArgument
	SourceSender
	SourceChat
)

// Target is the subject of an info-lookup command.
type Target struct {
	Kind   TargetKind
	ID     int64
	Handle string
	Source TargetSource
}

// Fallback selects what a command targets when neither a reply nor an argument is present.
type Fallback int

const (
	FallbackUsage  Fallback = iota // no default; reply with usage
	FallbackSender                 // the user who sent the command
	FallbackChat                   // the chat the command was sent in
)

// TargetRule describes how one command resolves its target.
type TargetRule struct {
	UseReply bool
	Fallback Fallback
}

var numericArg = regexp.MustCompile(`^[0-9]+$`)

// ResolveTarget applies the precedence reply > positional argument > fallback.
func ResolveTarget(msg InboundMessage, args []string, rule TargetRule) Target {
	if rule.UseReply && msg.RepliedTo != nil {
		return Target{Kind: TargetID, ID: msg.RepliedTo.ID, Source: SourceReply}
	}
	if len(args) > 0 {
		if t := ParseTargetArg(args[0]); t.Kind != TargetNone {
			return t
		}
	}
	switch rule.Fallback {
	case FallbackSender:
		return Target{Kind: TargetID, ID: msg.From.ID, Source: SourceSender}
	case FallbackChat:
		return Target{Kind: TargetID, ID: msg.ChatID, Source: SourceChat}
	default:
		return Target{Kind: TargetNone}
	}
}

// ParseTargetArg classifies a positional argument: all digits is a numeric ID,
// anything else (including "@name") is a handle.
func ParseTargetArg(arg string) Target {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return Target{Kind: TargetNone}
	}
	if numericArg.MatchString(arg) {
		if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
			return Target{Kind: TargetID, ID: id, Source: SourceArgument}
		}
		// Too large for an ID; let the API reject it as a handle.
	}
	return Target{Kind: TargetHandle, Handle: arg, Source: SourceArgument}
}

// ChatID converts the target into a chat reference for chat-level API calls.
// Handles that are signed integers (e.g. "-1001234") are sent as numeric chat IDs,
// other handles as "@username".
func (t Target) ChatID() telego.ChatID {
	if t.Kind == TargetID {
		return tu.ID(t.ID)
	}
	if id, err := strconv.ParseInt(t.Handle, 10, 64); err == nil {
		return tu.ID(id)
	}
	if strings.HasPrefix(t.Handle, "@") {
		return tu.Username(t.Handle)
	}
	return tu.Username("@" + t.Handle)
}

// String renders the target for replies and logs.
func (t Target) String() string {
	switch t.Kind {
	case TargetID:
		return strconv.FormatInt(t.ID, 10)
	case TargetHandle:
		return t.Handle
	default:
		return "none"
	}
}

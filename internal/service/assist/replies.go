package assist

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sandevgo/chatminder/internal/core"
	"github.com/sandevgo/chatminder/pkg/log"
)

var enumPrefix = regexp.MustCompile(`^\d+\.\s*`)

// ReplySuggester annotates freshly created messages with up to three
// short reply alternatives. It owns the suggestedReplies field and
// never touches anything else on the message.
type ReplySuggester struct {
	gen      core.TextGenerator
	messages core.MessagesRepository
	maxLen   int
	timeout  time.Duration
}

func NewReplySuggester(gen core.TextGenerator, messages core.MessagesRepository, maxLen int, timeout time.Duration) *ReplySuggester {
	return &ReplySuggester{
		gen:      gen,
		messages: messages,
		maxLen:   maxLen,
		timeout:  timeout,
	}
}

// Suggest asks the oracle for reply alternatives and attaches the
// parsed, non-empty result to the message. Oracle failures degrade to
// no suggestions; store failures propagate.
func (s *ReplySuggester) Suggest(ctx context.Context, msg core.ChatMessage) error {
	gctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.gen.Generate(gctx, RepliesPrompt(msg.Text, s.maxLen))
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("message_id", msg.ID).Msg("reply suggestion failed")
		return nil
	}

	replies := ParseReplies(raw)
	if len(replies) == 0 {
		return nil
	}
	for i, reply := range replies {
		replies[i] = Clip(reply, s.maxLen)
	}

	written, err := s.messages.SetSuggestedReplies(ctx, msg.ID, replies)
	if err != nil {
		return fmt.Errorf("set suggested replies: %w", err)
	}
	if !written {
		log.FromCtx(ctx).Debug().Str("message_id", msg.ID).Msg("suggested replies already set")
	}
	return nil
}

// ParseReplies splits the oracle's raw multi-line output into reply
// candidates: blank lines are dropped and a leading "<digits>. "
// enumeration prefix is stripped where present.
func ParseReplies(raw string) []string {
	var replies []string
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		replies = append(replies, enumPrefix.ReplaceAllString(line, ""))
	}
	return replies
}

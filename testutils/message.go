// testutils/message.go
package testutils

import (
	"fmt"
	"sync/atomic"

	"github.com/oleps69/discord-bot/moderation"
)

var messageSeq atomic.Int64

// MakeMessage builds a guild message for pipeline tests with a unique
// message ID. Safe for concurrent use.
func MakeMessage(guildID, userID, content string) *moderation.Message {
	seq := messageSeq.Add(1)
	return &moderation.Message{
		GuildID:    guildID,
		ChannelID:  "chan-" + guildID,
		MessageID:  fmt.Sprintf("msg-%d", seq),
		AuthorID:   userID,
		AuthorName: "user-" + userID,
		Content:    content,
	}
}

// ABOUTME: MessageStore interface and data types for scribe persistence
// ABOUTME: Defines Message, ChannelSummary and query projection records

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicateMessage is returned when inserting a message whose id is already stored
var ErrDuplicateMessage = errors.New("message already exists")

// Message is one observed chat message. IDs are supplied by the origin
// platform; rows are immutable once written and removed only by age-based
// pruning.
type Message struct {
	ID          string
	AuthorID    string
	AuthorName  string
	ChannelID   string
	ChannelName string
	GuildID     string // empty for direct/ungrouped channels
	GuildName   string
	Content     string
	CreatedAt   time.Time
	IsBot       bool
	IsCommand   bool
	CommandType string // meaningful only when IsCommand
}

// MessageView is the projection returned by channel timeframe queries.
type MessageView struct {
	AuthorName string
	Content    string
	CreatedAt  time.Time
	IsBot      bool
	IsCommand  bool
}

// ChannelMessage is the wider projection returned by the grouped
// time-range query.
type ChannelMessage struct {
	ID         string
	AuthorID   string
	AuthorName string
	Content    string
	CreatedAt  time.Time
	IsBot      bool
	IsCommand  bool
}

// ChannelMessages groups one channel's messages for a time range.
type ChannelMessages struct {
	ChannelID   string
	ChannelName string
	GuildID     string
	GuildName   string
	Messages    []*ChannelMessage
}

// ChannelSummary is one generated digest of a channel's activity for a
// calendar day. There is no uniqueness constraint on (channel, date);
// repeated summarization appends rows and dedup is the caller's policy.
type ChannelSummary struct {
	ID              int64 // database-assigned
	ChannelID       string
	ChannelName     string
	GuildID         string
	GuildName       string
	Date            time.Time // the day covered; stored as YYYY-MM-DD
	SummaryText     string
	MessageCount    int
	ActiveUsers     []string
	ActiveUserCount int // computed from ActiveUsers on write
	Metadata        map[string]any
	CreatedAt       time.Time // set at insertion time, not caller-supplied
}

// ActiveChannel is a channel with at least one message inside the
// trailing activity window.
type ActiveChannel struct {
	ChannelID    string
	ChannelName  string
	GuildID      string
	GuildName    string
	MessageCount int
}

// ScrapedLink is archived page content for a URL posted in chat.
// Metadata is carried as the raw JSON string the scraper produced.
type ScrapedLink struct {
	URL       string
	Content   string
	Metadata  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MessageStore defines the persistence operations the bot depends on.
//
// Write and read operations never propagate storage errors: failures are
// logged and collapsed into a sentinel return (false, 0, empty slice or
// map) so a broken query degrades a bot feature instead of crashing the
// process. Callers that need to distinguish "empty" from "failed" must
// consult the logs.
type MessageStore interface {
	// Messages
	StoreMessage(ctx context.Context, msg *Message) bool
	MessageCount(ctx context.Context) int
	UserMessageCount(ctx context.Context, authorID string) int
	ActiveChannels(ctx context.Context, hours int) []*ActiveChannel
	ChannelMessagesForTimeframe(ctx context.Context, channelID string, start, end time.Time) []*MessageView
	ChannelMessagesForDay(ctx context.Context, channelID string, day time.Time) []*MessageView
	ChannelMessagesForWeek(ctx context.Context, channelID string, weekStart time.Time) []*MessageView
	MessagesForTimeRange(ctx context.Context, start, end time.Time) map[string]*ChannelMessages
	DeleteMessagesOlderThan(ctx context.Context, cutoff time.Time) int

	// Summaries
	StoreChannelSummary(ctx context.Context, summary *ChannelSummary) bool
	ChannelSummaries(ctx context.Context, channelID string, limit int) []*ChannelSummary

	// Scraped links
	ScrapedLink(ctx context.Context, url string) *ScrapedLink
	StoreScrapedLink(ctx context.Context, url, content, metadata string) bool
	UpdateScrapedLink(ctx context.Context, url, content, metadata string) bool

	// Close releases any resources held by the store
	Close() error
}

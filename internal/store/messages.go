// ABOUTME: Message ingestion, count/aggregate queries and time-windowed retrieval
// ABOUTME: Implements the sentinel-return error policy over internal error-typed helpers

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// StoreMessage inserts one message row. It returns false when the id is
// already stored (expected, logged at warn) and false on any other
// storage failure (logged at error). The return value alone does not
// distinguish the two cases.
func (s *SQLiteStore) StoreMessage(ctx context.Context, msg *Message) bool {
	if err := s.insertMessage(ctx, msg); err != nil {
		if errors.Is(err, ErrDuplicateMessage) {
			s.logger.Warn("message already exists", "id", msg.ID)
		} else {
			s.logger.Error("storing message", "id", msg.ID, "error", err)
		}
		return false
	}

	s.logger.Debug("stored message", "id", msg.ID, "channel_id", msg.ChannelID)
	return true
}

func (s *SQLiteStore) insertMessage(ctx context.Context, msg *Message) error {
	query := `
		INSERT INTO messages (
			id, author_id, author_name, channel_id, channel_name,
			guild_id, guild_name, content, created_at, is_bot, is_command, command_type
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		msg.ID,
		msg.AuthorID,
		msg.AuthorName,
		msg.ChannelID,
		msg.ChannelName,
		nullString(msg.GuildID),
		nullString(msg.GuildName),
		msg.Content,
		formatStored(msg.CreatedAt),
		boolToInt(msg.IsBot),
		boolToInt(msg.IsCommand),
		nullString(msg.CommandType),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return ErrDuplicateMessage
		}
		return fmt.Errorf("inserting message: %w", err)
	}
	return nil
}

// MessageCount returns the total number of stored messages, or 0 on
// failure (indistinguishable from legitimately empty).
func (s *SQLiteStore) MessageCount(ctx context.Context) int {
	count, err := s.countRow(ctx, `SELECT COUNT(*) FROM messages`)
	if err != nil {
		s.logger.Error("counting messages", "error", err)
		return 0
	}
	return count
}

// UserMessageCount returns the number of messages from one author, or 0
// on failure.
func (s *SQLiteStore) UserMessageCount(ctx context.Context, authorID string) int {
	count, err := s.countRow(ctx, `SELECT COUNT(*) FROM messages WHERE author_id = ?`, authorID)
	if err != nil {
		s.logger.Error("counting user messages", "author_id", authorID, "error", err)
		return 0
	}
	return count
}

func (s *SQLiteStore) countRow(ctx context.Context, query string, args ...any) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ActiveChannels returns every channel with at least one message in the
// trailing window, ordered by message count descending. Ties fall back to
// engine row order, which is not stable. hours <= 0 defaults to 24.
// Returns an empty slice on failure.
func (s *SQLiteStore) ActiveChannels(ctx context.Context, hours int) []*ActiveChannel {
	if hours <= 0 {
		hours = 24
	}
	cutoff := formatStored(time.Now().Add(-time.Duration(hours) * time.Hour))

	rows, err := s.db.QueryContext(ctx, `
		SELECT channel_id, channel_name, guild_id, guild_name, COUNT(*) as message_count
		FROM messages
		WHERE created_at >= ?
		GROUP BY channel_id
		ORDER BY message_count DESC
	`, cutoff)
	if err != nil {
		s.logger.Error("querying active channels", "hours", hours, "error", err)
		return []*ActiveChannel{}
	}
	defer rows.Close()

	var channels []*ActiveChannel
	for rows.Next() {
		var ch ActiveChannel
		var guildID, guildName sql.NullString

		if err := rows.Scan(&ch.ChannelID, &ch.ChannelName, &guildID, &guildName, &ch.MessageCount); err != nil {
			s.logger.Error("scanning active channel row", "error", err)
			return []*ActiveChannel{}
		}
		ch.GuildID = guildID.String
		ch.GuildName = guildName.String
		channels = append(channels, &ch)
	}

	if err := rows.Err(); err != nil {
		s.logger.Error("iterating active channel rows", "error", err)
		return []*ActiveChannel{}
	}

	s.logger.Info("found active channels", "count", len(channels), "hours", hours)
	return channels
}

// ChannelMessagesForTimeframe returns a channel's messages whose stored
// timestamp falls within [start, end] inclusive, ascending by timestamp.
// start and end are local-time bounds and are shifted to the stored UTC
// representation before comparison. Returns an empty slice on failure.
func (s *SQLiteStore) ChannelMessagesForTimeframe(ctx context.Context, channelID string, start, end time.Time) []*MessageView {
	startStored := localToStored(start)
	endStored := localToStored(end)

	rows, err := s.db.QueryContext(ctx, `
		SELECT author_name, content, created_at, is_bot, is_command
		FROM messages
		WHERE channel_id = ? AND created_at BETWEEN ? AND ?
		ORDER BY created_at ASC
	`, channelID, startStored, endStored)
	if err != nil {
		s.logger.Error("querying channel messages",
			"channel_id", channelID, "start", startStored, "end", endStored, "error", err)
		return []*MessageView{}
	}
	defer rows.Close()

	var messages []*MessageView
	for rows.Next() {
		var m MessageView
		var createdAt string
		var isBot, isCommand int

		if err := rows.Scan(&m.AuthorName, &m.Content, &createdAt, &isBot, &isCommand); err != nil {
			s.logger.Error("scanning channel message row", "channel_id", channelID, "error", err)
			return []*MessageView{}
		}
		m.CreatedAt = parseStored(createdAt)
		m.IsBot = isBot != 0
		m.IsCommand = isCommand != 0
		messages = append(messages, &m)
	}

	if err := rows.Err(); err != nil {
		s.logger.Error("iterating channel message rows", "channel_id", channelID, "error", err)
		return []*MessageView{}
	}

	s.logger.Info("retrieved channel messages",
		"channel_id", channelID, "count", len(messages),
		"start", start.Format(dateLayout), "end", end.Format(dateLayout))
	return messages
}

// ChannelMessagesForDay returns a channel's messages for one local
// calendar day.
func (s *SQLiteStore) ChannelMessagesForDay(ctx context.Context, channelID string, day time.Time) []*MessageView {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 999999000, day.Location())
	return s.ChannelMessagesForTimeframe(ctx, channelID, start, end)
}

// ChannelMessagesForWeek returns a channel's messages for the seven local
// days starting at weekStart.
func (s *SQLiteStore) ChannelMessagesForWeek(ctx context.Context, channelID string, weekStart time.Time) []*MessageView {
	end := weekStart.Add(6*24*time.Hour + 23*time.Hour + 59*time.Minute + 59*time.Second + 999999*time.Microsecond)
	return s.ChannelMessagesForTimeframe(ctx, channelID, weekStart, end)
}

// MessagesForTimeRange returns all messages across channels within
// [start, end], grouped by channel id. Unlike the timeframe query the
// bounds are compared raw, without the local-offset shift; callers must
// supply bounds already in the stored representation. Messages within
// each channel are ascending by timestamp. Returns an empty map on
// failure.
func (s *SQLiteStore) MessagesForTimeRange(ctx context.Context, start, end time.Time) map[string]*ChannelMessages {
	startStored := formatStored(start)
	endStored := formatStored(end)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, author_id, author_name, channel_id, channel_name,
		       guild_id, guild_name, content, created_at, is_bot, is_command
		FROM messages
		WHERE created_at BETWEEN ? AND ?
		ORDER BY channel_id, created_at ASC
	`, startStored, endStored)
	if err != nil {
		s.logger.Error("querying messages for time range",
			"start", startStored, "end", endStored, "error", err)
		return map[string]*ChannelMessages{}
	}
	defer rows.Close()

	byChannel := make(map[string]*ChannelMessages)
	total := 0
	for rows.Next() {
		var m ChannelMessage
		var channelID, channelName string
		var guildID, guildName sql.NullString
		var createdAt string
		var isBot, isCommand int

		if err := rows.Scan(&m.ID, &m.AuthorID, &m.AuthorName, &channelID, &channelName,
			&guildID, &guildName, &m.Content, &createdAt, &isBot, &isCommand); err != nil {
			s.logger.Error("scanning time range row", "error", err)
			return map[string]*ChannelMessages{}
		}
		m.CreatedAt = parseStored(createdAt)
		m.IsBot = isBot != 0
		m.IsCommand = isCommand != 0

		group, ok := byChannel[channelID]
		if !ok {
			group = &ChannelMessages{
				ChannelID:   channelID,
				ChannelName: channelName,
				GuildID:     guildID.String,
				GuildName:   guildName.String,
			}
			byChannel[channelID] = group
		}
		group.Messages = append(group.Messages, &m)
		total++
	}

	if err := rows.Err(); err != nil {
		s.logger.Error("iterating time range rows", "error", err)
		return map[string]*ChannelMessages{}
	}

	s.logger.Info("retrieved messages for time range",
		"messages", total, "channels", len(byChannel),
		"start", startStored, "end", endStored)
	return byChannel
}

// DeleteMessagesOlderThan removes every message with created_at before
// cutoff and returns the number of rows removed, or 0 on failure. The
// count and the delete run in one transaction so the returned number is
// exact. The delete is a single bulk statement; on a very large table it
// holds the write lock for the whole pass, which the single-writer
// deployment model accepts.
func (s *SQLiteStore) DeleteMessagesOlderThan(ctx context.Context, cutoff time.Time) int {
	cutoffStored := formatStored(cutoff)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("beginning prune transaction", "cutoff", cutoffStored, "error", err)
		return 0
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE created_at < ?`, cutoffStored,
	).Scan(&count); err != nil {
		s.logger.Error("counting prunable messages", "cutoff", cutoffStored, "error", err)
		return 0
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM messages WHERE created_at < ?`, cutoffStored,
	); err != nil {
		s.logger.Error("deleting old messages", "cutoff", cutoffStored, "error", err)
		return 0
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("committing prune transaction", "cutoff", cutoffStored, "error", err)
		return 0
	}

	s.logger.Info("deleted old messages", "count", count, "cutoff", cutoffStored)
	return count
}

// ABOUTME: Channel summary storage and retrieval
// ABOUTME: Serializes the active-user list and optional metadata as JSON text columns

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// StoreChannelSummary inserts one summary row. The active-user list and
// optional metadata are JSON-encoded, the date is normalized to
// YYYY-MM-DD and created_at is stamped at call time. The active-user
// count is computed from the supplied list, not verified against message
// content. Duplicate (channel, date) summaries are both retained.
// Returns false and logs on any failure.
func (s *SQLiteStore) StoreChannelSummary(ctx context.Context, summary *ChannelSummary) bool {
	if err := s.insertChannelSummary(ctx, summary); err != nil {
		s.logger.Error("storing channel summary",
			"channel_id", summary.ChannelID, "date", summary.Date.Format(dateLayout), "error", err)
		return false
	}

	s.logger.Info("stored channel summary",
		"channel_id", summary.ChannelID,
		"channel_name", summary.ChannelName,
		"date", summary.Date.Format(dateLayout))
	return true
}

func (s *SQLiteStore) insertChannelSummary(ctx context.Context, summary *ChannelSummary) error {
	users := summary.ActiveUsers
	if users == nil {
		users = []string{}
	}
	usersJSON, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("marshaling active users: %w", err)
	}

	var metadataJSON any
	if len(summary.Metadata) > 0 {
		b, err := json.Marshal(summary.Metadata)
		if err != nil {
			return fmt.Errorf("marshaling metadata: %w", err)
		}
		metadataJSON = string(b)
	}

	query := `
		INSERT INTO channel_summaries (
			channel_id, channel_name, guild_id, guild_name, date,
			summary_text, message_count, active_users, active_users_list,
			created_at, metadata
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		summary.ChannelID,
		summary.ChannelName,
		nullString(summary.GuildID),
		nullString(summary.GuildName),
		summary.Date.Format(dateLayout),
		summary.SummaryText,
		summary.MessageCount,
		len(users),
		string(usersJSON),
		formatStored(time.Now()),
		metadataJSON,
	)
	if err != nil {
		return fmt.Errorf("inserting channel summary: %w", err)
	}
	return nil
}

// ChannelSummaries returns a channel's stored summaries, most recent date
// first. limit <= 0 defaults to 50. Returns an empty slice on failure.
func (s *SQLiteStore) ChannelSummaries(ctx context.Context, channelID string, limit int) []*ChannelSummary {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, channel_id, channel_name, guild_id, guild_name, date,
		       summary_text, message_count, active_users, active_users_list,
		       created_at, metadata
		FROM channel_summaries
		WHERE channel_id = ?
		ORDER BY date DESC, id DESC
		LIMIT ?
	`, channelID, limit)
	if err != nil {
		s.logger.Error("querying channel summaries", "channel_id", channelID, "error", err)
		return []*ChannelSummary{}
	}
	defer rows.Close()

	var summaries []*ChannelSummary
	for rows.Next() {
		var sm ChannelSummary
		var guildID, guildName, metadata sql.NullString
		var dateStr, createdAt, usersJSON string

		if err := rows.Scan(&sm.ID, &sm.ChannelID, &sm.ChannelName, &guildID, &guildName, &dateStr,
			&sm.SummaryText, &sm.MessageCount, &sm.ActiveUserCount, &usersJSON,
			&createdAt, &metadata); err != nil {
			s.logger.Error("scanning summary row", "channel_id", channelID, "error", err)
			return []*ChannelSummary{}
		}

		sm.GuildID = guildID.String
		sm.GuildName = guildName.String
		sm.Date, _ = time.Parse(dateLayout, dateStr)
		sm.CreatedAt = parseStored(createdAt)
		_ = json.Unmarshal([]byte(usersJSON), &sm.ActiveUsers) // Best effort: invalid JSON leaves the list empty
		if metadata.Valid {
			_ = json.Unmarshal([]byte(metadata.String), &sm.Metadata)
		}

		summaries = append(summaries, &sm)
	}

	if err := rows.Err(); err != nil {
		s.logger.Error("iterating summary rows", "channel_id", channelID, "error", err)
		return []*ChannelSummary{}
	}

	return summaries
}

// Package store provides persistent storage for chat messages and
// channel summaries using SQLite.
//
// # Data Models
//
//   - Message: one row per observed chat message, keyed by the origin
//     platform's message id, immutable once written
//   - ChannelSummary: one row per generated daily digest; repeated
//     summarization of the same day appends rows
//   - ScrapedLink: archived page content for URLs posted in chat
//
// # Error Policy
//
// The constructor propagates errors (a process cannot run without its
// store). Every other operation collapses failures into a sentinel
// return — false, 0, an empty slice or an empty map — and logs the
// diagnostic instead. Duplicate message ids log at warn; everything else
// logs at error. This trades precise error signaling for bot resilience:
// a failed query degrades one feature rather than crashing the process.
//
// # Timestamps
//
// All timestamps are stored as fixed-width microsecond ISO-8601 text
// (2006-01-02T15:04:05.000000) so lexicographic comparison matches
// chronological order. Message timestamps are written exactly as
// supplied and assumed to be UTC. Timeframe query bounds arrive in the
// bot's fixed local offset (UTC-5) and are shifted before comparison;
// the full-range query compares bounds raw. See localUTCOffset.
//
// # SQLite Configuration
//
// The store uses modernc.org/sqlite with WAL mode for concurrent reads.
// A single *sql.DB is held for the process lifetime; each operation is
// an independent implicit transaction.
package store

// ABOUTME: Scraped link archive keyed by URL
// ABOUTME: Stores page content and scraper metadata for links posted in chat

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ScrapedLink returns the archived entry for a URL, or nil when no entry
// exists or the lookup fails.
func (s *SQLiteStore) ScrapedLink(ctx context.Context, url string) *ScrapedLink {
	link, err := s.getScrapedLink(ctx, url)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("getting scraped link", "url", url, "error", err)
		}
		return nil
	}
	return link
}

func (s *SQLiteStore) getScrapedLink(ctx context.Context, url string) (*ScrapedLink, error) {
	var link ScrapedLink
	var metadata sql.NullString
	var createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT url, content, metadata, created_at, updated_at
		FROM scraped_links
		WHERE url = ?
	`, url).Scan(&link.URL, &link.Content, &metadata, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying scraped link: %w", err)
	}

	link.Metadata = metadata.String
	link.CreatedAt = parseStored(createdAt)
	link.UpdatedAt = parseStored(updatedAt)
	return &link, nil
}

// StoreScrapedLink archives content for a URL seen for the first time.
// metadata is the scraper's JSON output, stored verbatim. Returns false
// and logs on any failure, including an already-archived URL.
func (s *SQLiteStore) StoreScrapedLink(ctx context.Context, url, content, metadata string) bool {
	now := formatStored(time.Now())

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scraped_links (url, content, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, url, content, nullString(metadata), now, now)
	if err != nil {
		if isConstraintViolation(err) {
			s.logger.Warn("scraped link already exists", "url", url)
		} else {
			s.logger.Error("storing scraped link", "url", url, "error", err)
		}
		return false
	}

	s.logger.Debug("stored scraped link", "url", url)
	return true
}

// UpdateScrapedLink replaces the archived content for a URL. The caller
// supplies the already-merged content; this operation does not append.
// updated_at is refreshed, created_at is untouched. Returns false when
// the URL has no entry or on any storage failure.
func (s *SQLiteStore) UpdateScrapedLink(ctx context.Context, url, content, metadata string) bool {
	result, err := s.db.ExecContext(ctx, `
		UPDATE scraped_links
		SET content = ?, metadata = ?, updated_at = ?
		WHERE url = ?
	`, content, nullString(metadata), formatStored(time.Now()), url)
	if err != nil {
		s.logger.Error("updating scraped link", "url", url, "error", err)
		return false
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		s.logger.Error("getting rows affected", "url", url, "error", err)
		return false
	}
	if rowsAffected == 0 {
		s.logger.Warn("no scraped link to update", "url", url)
		return false
	}

	s.logger.Debug("updated scraped link", "url", url)
	return true
}

package store

import (
	"context"
	"fmt"

	"github.com/segmentio/ksuid"

	"github.com/datallboy/toolfetch/internal/domain"
)

// AppendEvent records ev and returns it with its assigned ID
func (s *PersistentStore) AppendEvent(ctx context.Context, ev domain.Event) (domain.LoggedEvent, error) {
	var row eventDBO
	row.FromDomain(ksuid.New().String(), ev)

	query := s.rebind(`INSERT INTO download_events (id, url, kind, message, created_at)
              VALUES (?, ?, ?, ?, ?)`)

	if _, err := s.db.ExecContext(ctx, query, row.ID, row.URL, row.Kind, row.Message, row.CreatedAt); err != nil {
		return domain.LoggedEvent{}, fmt.Errorf("failed to record %s event: %w", ev.Kind, err)
	}
	return row.ToDomain(), nil
}

// ListEvents returns the session events oldest first. An empty url lists all.
func (s *PersistentStore) ListEvents(ctx context.Context, url string) ([]domain.LoggedEvent, error) {
	query := `SELECT id, url, kind, message, created_at FROM download_events`
	var args []any
	if url != "" {
		query += ` WHERE url = ?`
		args = append(args, url)
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []domain.LoggedEvent{}
	for rows.Next() {
		var row eventDBO
		if err := rows.Scan(&row.ID, &row.URL, &row.Kind, &row.Message, &row.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, row.ToDomain())
	}
	return events, rows.Err()
}

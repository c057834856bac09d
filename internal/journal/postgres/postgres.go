package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"hoodlink/internal/journal"
)

// PostgresJournal persists monitor events to Postgres.
type PostgresJournal struct {
	db *sql.DB
}

// New connects, pings and creates the events table if needed.
func New(connStr string) (*PostgresJournal, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	j := &PostgresJournal{db: db}

	if err := j.initTables(); err != nil {
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}

	return j, nil
}

// RecordEvent implements journal.Journal.
func (j *PostgresJournal) RecordEvent(ctx context.Context, ev journal.Event) error {
	query := `
        INSERT INTO monitor_events (
            order_id, symbol, kind, price, peak, note, recorded_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7
        )
    `

	at := ev.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	_, err := j.db.ExecContext(ctx, query,
		ev.OrderID,
		ev.Symbol,
		string(ev.Kind),
		ev.Price,
		ev.Peak,
		ev.Note,
		at,
	)

	if err != nil {
		return fmt.Errorf("failed to record monitor event: %w", err)
	}

	return nil
}

// EventsForOrder returns an order's audit trail, oldest first.
func (j *PostgresJournal) EventsForOrder(ctx context.Context, orderID string) ([]journal.Event, error) {
	query := `
        SELECT order_id, symbol, kind, price, peak, note, recorded_at
        FROM monitor_events
        WHERE order_id = $1
        ORDER BY recorded_at ASC
    `

	rows, err := j.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query monitor events: %w", err)
	}
	defer rows.Close()

	var result []journal.Event
	for rows.Next() {
		var ev journal.Event
		var kind string
		err := rows.Scan(
			&ev.OrderID,
			&ev.Symbol,
			&kind,
			&ev.Price,
			&ev.Peak,
			&ev.Note,
			&ev.At,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan monitor event: %w", err)
		}
		ev.Kind = journal.EventKind(kind)
		result = append(result, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monitor event rows: %w", err)
	}

	return result, nil
}

// Close releases the connection pool.
func (j *PostgresJournal) Close() error {
	return j.db.Close()
}

func (j *PostgresJournal) initTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS monitor_events (
			id SERIAL PRIMARY KEY,
			order_id VARCHAR(64) NOT NULL,
			symbol VARCHAR(50) NOT NULL,
			kind VARCHAR(32) NOT NULL,
			price NUMERIC(18, 8),
			peak NUMERIC(18, 8),
			note TEXT,
			recorded_at TIMESTAMP NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS monitor_events_order_idx
			ON monitor_events (order_id, recorded_at)`,
	}

	for _, query := range queries {
		_, err := j.db.Exec(query)
		if err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"signaldesk/internal/domain"
)

// SignalRepositoryImpl implements the SignalRepository interface
type SignalRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewSignalRepository creates a new SignalRepository
func NewSignalRepository(db *pgxpool.Pool) domain.SignalRepository {
	return &SignalRepositoryImpl{db: db}
}

// Save stores a newly issued signal
func (r *SignalRepositoryImpl) Save(ctx context.Context, signal *domain.IssuedSignal) error {
	query := `
		INSERT INTO issued_signals (
			id, asset, expiration, direction, target_date, inverted, issued_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	_, err := r.db.Exec(ctx, query,
		signal.ID,
		string(signal.Asset),
		string(signal.Expiration),
		string(signal.Direction),
		signal.TargetDate,
		signal.Inverted,
		signal.IssuedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to save signal: %w", err)
	}

	return nil
}

// GetRecent retrieves the most recently issued signals
func (r *SignalRepositoryImpl) GetRecent(ctx context.Context, limit int) ([]*domain.IssuedSignal, error) {
	query := `
		SELECT id, asset, expiration, direction, target_date, inverted, issued_at
		FROM issued_signals
		ORDER BY issued_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent signals: %w", err)
	}
	defer rows.Close()

	var signals []*domain.IssuedSignal
	for rows.Next() {
		var asset, expiration, direction string
		signal := &domain.IssuedSignal{}
		err := rows.Scan(
			&signal.ID,
			&asset,
			&expiration,
			&direction,
			&signal.TargetDate,
			&signal.Inverted,
			&signal.IssuedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan signal: %w", err)
		}
		signal.Asset = domain.Asset(asset)
		signal.Expiration = domain.Expiration(expiration)
		signal.Direction = domain.Direction(direction)
		signals = append(signals, signal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating signals: %w", err)
	}

	return signals, nil
}

// CountSince counts signals issued at or after since, grouped by direction
func (r *SignalRepositoryImpl) CountSince(ctx context.Context, since time.Time) (map[domain.Direction]int, error) {
	rows, err := r.db.Query(ctx, `
		SELECT direction, COUNT(*)
		FROM issued_signals
		WHERE issued_at >= $1
		GROUP BY direction
	`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count signals: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.Direction]int)
	for rows.Next() {
		var direction string
		var n int
		if err := rows.Scan(&direction, &n); err != nil {
			return nil, fmt.Errorf("failed to scan signal count: %w", err)
		}
		counts[domain.Direction(direction)] = n
	}

	return counts, rows.Err()
}

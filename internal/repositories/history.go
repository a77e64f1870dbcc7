package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/spotsearch/internal/models"
	"github.com/desertthunder/spotsearch/internal/shared"
)

// DefaultHistoryLimit is used by [HistoryRepository.List] when limit is not positive.
const DefaultHistoryLimit = 20

var _ models.Repository[*models.SearchRecord] = (*HistoryRepository)(nil)

// HistoryRepository implements models.Repository[*models.SearchRecord] for executed searches.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new HistoryRepository with the given database connection
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Create inserts a search record with generated ID and sequence
func (r *HistoryRepository) Create(record *models.SearchRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	sequence, err := NextSequence(r.db, "search_history")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO search_history (id, sequence, kind, query, result_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query, id, sequence, string(record.Kind()), record.Query(), record.ResultCount(), record.CreatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert search record: %w", err)
	}

	record.SetID(id)
	record.SetSequence(sequence)
	return nil
}

// Get retrieves a search record by ID
func (r *HistoryRepository) Get(id string) (*models.SearchRecord, error) {
	query := `
		SELECT id, sequence, kind, query, result_count, created_at
		FROM search_history
		WHERE id = ?
	`
	record, err := scanRecord(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("search record not found: %s", id)
	}
	return record, err
}

// List returns the most recent searches first, at most limit of them
func (r *HistoryRepository) List(limit int) ([]*models.SearchRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	query := `
		SELECT id, sequence, kind, query, result_count, created_at
		FROM search_history
		ORDER BY sequence DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query search history: %w", err)
	}
	defer rows.Close()

	var records []*models.SearchRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// Clear deletes every search record. Sequence numbers keep increasing.
func (r *HistoryRepository) Clear() (int64, error) {
	result, err := r.db.Exec("DELETE FROM search_history")
	if err != nil {
		return 0, fmt.Errorf("failed to clear search history: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanRecord scans a single row into a [models.SearchRecord]
func scanRecord(row scanner) (*models.SearchRecord, error) {
	var (
		id          string
		sequence    int
		kind        string
		query       string
		resultCount int
		createdAt   time.Time
	)

	if err := row.Scan(&id, &sequence, &kind, &query, &resultCount, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan search record: %w", err)
	}

	record := models.NewSearchRecord(models.Kind(kind), query, resultCount)
	record.SetID(id)
	record.SetSequence(sequence)
	record.SetCreatedAt(createdAt)
	return record, nil
}

package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goodnightlabs/goodnight/internal/dbx"
	"github.com/goodnightlabs/goodnight/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, doc *models.Document) error {
	query := `INSERT INTO documents
	            (id, user_id, day, entry_date, poem_content, letters, journal_content, last_modified, is_completed)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          ON CONFLICT (user_id, day) DO UPDATE SET
	            poem_content = excluded.poem_content,
	            letters = excluded.letters,
	            journal_content = excluded.journal_content,
	            last_modified = excluded.last_modified,
	            is_completed = excluded.is_completed`

	_, err := r.db.ExecContext(ctx, query,
		doc.ID, doc.UserID, doc.Day, doc.Date, doc.PoemContent, doc.Letters,
		doc.JournalContent, doc.LastModified, doc.IsCompleted)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, day string) (*models.Document, error) {
	query := `SELECT id, user_id, day, entry_date, poem_content, letters, journal_content, last_modified, is_completed
	          FROM documents
	          WHERE user_id = $1 AND day = $2`

	doc, err := scanDocument(r.db.QueryRowContext(ctx, query, userID, day))
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *PostgresRepository) ListCompletedSince(ctx context.Context, userID string, since *time.Time) ([]*models.Document, error) {
	query := `SELECT id, user_id, day, entry_date, poem_content, letters, journal_content, last_modified, is_completed
	          FROM documents
	          WHERE user_id = $1 AND is_completed`
	args := []any{userID}
	if since != nil {
		query += ` AND last_modified > $2`
		args = append(args, *since)
	}
	query += ` ORDER BY last_modified DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		doc := &models.Document{}
		if err := rows.Scan(&doc.ID, &doc.UserID, &doc.Day, &doc.Date, &doc.PoemContent,
			&doc.Letters, &doc.JournalContent, &doc.LastModified, &doc.IsCompleted); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return docs, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, day string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE user_id = $1 AND day = $2`, userID, day)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func scanDocument(row *sql.Row) (*models.Document, error) {
	doc := &models.Document{}
	err := row.Scan(&doc.ID, &doc.UserID, &doc.Day, &doc.Date, &doc.PoemContent,
		&doc.Letters, &doc.JournalContent, &doc.LastModified, &doc.IsCompleted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return doc, nil
}

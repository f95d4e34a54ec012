package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/SimpnicServerTeam/scs-credstore/internal/models"
	"github.com/SimpnicServerTeam/scs-credstore/internal/repository"
)

// SQLiteCredentialRepository implements CredentialRepository on a single
// credentials table.
type SQLiteCredentialRepository struct {
	db *sql.DB
}

// NewSQLiteCredentialRepository creates the credentials table if missing and
// returns the repository.
func NewSQLiteCredentialRepository(db *sql.DB) (repository.CredentialRepository, error) {
	const schema = `
		CREATE TABLE IF NOT EXISTS credentials (
			username TEXT PRIMARY KEY,
			digest   TEXT NOT NULL
		)`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create credentials table: %w", err)
	}
	return &SQLiteCredentialRepository{db: db}, nil
}

func (r *SQLiteCredentialRepository) SaveCredential(ctx context.Context, username, digestHex string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO credentials (username, digest) VALUES (?, ?)
		 ON CONFLICT(username) DO UPDATE SET digest = excluded.digest`,
		username, digestHex)
	if err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	return nil
}

func (r *SQLiteCredentialRepository) DeleteCredential(ctx context.Context, username string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM credentials WHERE username = ?`, username); err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}

func (r *SQLiteCredentialRepository) ListCredentials(ctx context.Context) ([]models.Credential, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT username, digest FROM credentials`)
	if err != nil {
		return nil, fmt.Errorf("failed to query credentials: %w", err)
	}
	defer rows.Close()

	var creds []models.Credential
	for rows.Next() {
		var c models.Credential
		if err := rows.Scan(&c.Username, &c.Digest); err != nil {
			return nil, fmt.Errorf("failed to scan credential row: %w", err)
		}
		creds = append(creds, c)
	}
	return creds, rows.Err()
}

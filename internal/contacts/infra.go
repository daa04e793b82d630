package contacts

import (
	"context"
	"database/sql"
)

// Store persists contacts outside the process.
type Store interface {
	SaveContact(ctx context.Context, c Contact) error
	ListContacts(ctx context.Context) ([]Contact, error)
}

type PGStore struct {
	db *sql.DB
}

// NewRepo returns a Postgres-backed Store.
func NewRepo(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (r *PGStore) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS contacts (
			address    TEXT PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

func (r *PGStore) SaveContact(ctx context.Context, c Contact) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO contacts (address)
		VALUES ($1)
		ON CONFLICT (address) DO NOTHING
	`, string(c))
	return err
}

func (r *PGStore) ListContacts(ctx context.Context) ([]Contact, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT address
		FROM contacts
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Contact
	for rows.Next() {
		var address string
		if err := rows.Scan(&address); err != nil {
			return nil, err
		}
		out = append(out, Contact(address))
	}

	return out, rows.Err()
}

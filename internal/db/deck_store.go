package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/banshee-data/reactordeck/internal/deck"
)

// ErrNoVersions is returned when a document has no saved versions.
var ErrNoVersions = errors.New("no saved versions")

// VersionInfo describes one saved version without its body.
type VersionInfo struct {
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	Bytes     int       `json:"bytes"`
}

// DocumentInfo summarises a stored document.
type DocumentInfo struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	LatestVersion int       `json:"latest_version"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DeckStore keeps every committed version of every deck document. It
// satisfies deck.Persister.
type DeckStore struct {
	db  *DB
	now func() time.Time
}

// NewDeckStore returns a store backed by db.
func NewDeckStore(db *DB) *DeckStore {
	return &DeckStore{db: db, now: time.Now}
}

var _ deck.Persister = (*DeckStore)(nil)

// SaveVersion records doc as a new version. Saving a version number that
// already exists for the document fails.
func (s *DeckStore) SaveVersion(ctx context.Context, doc deck.Document) error {
	if doc.ID == "" {
		return fmt.Errorf("save deck: document has no id")
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode deck %s: %w", doc.ID, err)
	}
	at := doc.UpdatedAt
	if at.IsZero() {
		at = s.now()
	}
	stamp := at.UnixNano()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save deck: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (id, name, latest_version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			latest_version = MAX(documents.latest_version, excluded.latest_version),
			updated_at = excluded.updated_at
	`, doc.ID, doc.Name, doc.Version, stamp, stamp)
	if err != nil {
		return fmt.Errorf("failed to upsert document %s: %w", doc.ID, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO deck_versions (document_id, version, body, created_at)
		VALUES (?, ?, ?, ?)
	`, doc.ID, doc.Version, string(body), stamp)
	if err != nil {
		return fmt.Errorf("failed to insert deck %s version %d: %w", doc.ID, doc.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit deck %s version %d: %w", doc.ID, doc.Version, err)
	}
	return nil
}

// Latest returns the highest saved version of a document.
func (s *DeckStore) Latest(ctx context.Context, docID string) (deck.Document, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `
		SELECT body FROM deck_versions
		WHERE document_id = ?
		ORDER BY version DESC
		LIMIT 1
	`, docID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return deck.Document{}, fmt.Errorf("deck %s: %w", docID, ErrNoVersions)
	}
	if err != nil {
		return deck.Document{}, fmt.Errorf("failed to load deck %s: %w", docID, err)
	}
	return decodeDocument(body)
}

// LatestDocument returns the latest version of the most recently updated
// document.
func (s *DeckStore) LatestDocument(ctx context.Context) (deck.Document, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM documents ORDER BY updated_at DESC LIMIT 1
	`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return deck.Document{}, ErrNoVersions
	}
	if err != nil {
		return deck.Document{}, fmt.Errorf("failed to find latest deck: %w", err)
	}
	return s.Latest(ctx, id)
}

// Get returns one version of a document.
func (s *DeckStore) Get(ctx context.Context, docID string, version int) (deck.Document, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `
		SELECT body FROM deck_versions WHERE document_id = ? AND version = ?
	`, docID, version).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return deck.Document{}, fmt.Errorf("%w: deck %s version %d", deck.ErrNotFound, docID, version)
	}
	if err != nil {
		return deck.Document{}, fmt.Errorf("failed to load deck %s version %d: %w", docID, version, err)
	}
	return decodeDocument(body)
}

// ListVersions returns the saved versions of a document, newest first.
func (s *DeckStore) ListVersions(ctx context.Context, docID string) ([]VersionInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT version, created_at, length(body)
		FROM deck_versions
		WHERE document_id = ?
		ORDER BY version DESC
	`, docID)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions of %s: %w", docID, err)
	}
	defer rows.Close()

	versions := []VersionInfo{}
	for rows.Next() {
		var v VersionInfo
		var created int64
		if err := rows.Scan(&v.Version, &created, &v.Bytes); err != nil {
			return nil, fmt.Errorf("failed to scan version: %w", err)
		}
		v.CreatedAt = time.Unix(0, created).UTC()
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// ListDocuments returns every stored document, most recently updated first.
func (s *DeckStore) ListDocuments(ctx context.Context) ([]DocumentInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, latest_version, created_at, updated_at
		FROM documents
		ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	docs := []DocumentInfo{}
	for rows.Next() {
		var d DocumentInfo
		var created, updated int64
		if err := rows.Scan(&d.ID, &d.Name, &d.LatestVersion, &created, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		d.CreatedAt = time.Unix(0, created).UTC()
		d.UpdatedAt = time.Unix(0, updated).UTC()
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// DeleteDocument removes a document and all of its versions.
func (s *DeckStore) DeleteDocument(ctx context.Context, docID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, docID)
	if err != nil {
		return fmt.Errorf("failed to delete deck %s: %w", docID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: deck %s", deck.ErrNotFound, docID)
	}
	return nil
}

func decodeDocument(body string) (deck.Document, error) {
	doc, err := deck.LoadJSON(strings.NewReader(body))
	if err != nil {
		return deck.Document{}, err
	}
	return doc, nil
}

package document

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ErrNotFound is returned when a document reference resolves to neither a
// stored document ID nor a readable file path.
var ErrNotFound = errors.New("document not found")

// Document is one uploaded document. ExtractedText is nil until the first
// extraction runs; after that it never changes (a new upload is a new row).
type Document struct {
	ID            string     `json:"id"`
	Filename      string     `json:"filename"`
	Path          string     `json:"path"`
	ByteSize      int64      `json:"byteSize"`
	ExtractedText *string    `json:"-"`
	ExtractedAt   *time.Time `json:"extractedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// Service persists uploads under uploadDir and records them in SQLite.
type Service struct {
	db        *sql.DB
	uploadDir string
	extract   func(path string) (string, error)

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewService creates a document Service. uploadDir is created if missing.
func NewService(db *sql.DB, uploadDir string) (*Service, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("document: create upload dir %q: %w", uploadDir, err)
	}
	return &Service{
		db:        db,
		uploadDir: uploadDir,
		extract:   ExtractText,
		entropy:   ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// SaveUpload writes the uploaded bytes to disk under a fresh ULID name,
// records the document and returns it. Uploads are never auto-deleted.
func (s *Service) SaveUpload(ctx context.Context, filename string, r io.Reader) (*Document, error) {
	id := s.newID()
	path := filepath.Join(s.uploadDir, id+".pdf")

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("document: create %q: %w", path, err)
	}
	size, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if copyErr != nil {
		return nil, fmt.Errorf("document: write %q: %w", path, copyErr)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("document: close %q: %w", path, closeErr)
	}

	now := time.Now().UTC()
	doc := &Document{ID: id, Filename: filename, Path: path, ByteSize: size, CreatedAt: now}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (id, filename, path, byte_size, created_at) VALUES (?, ?, ?, ?, ?)`,
		doc.ID, doc.Filename, doc.Path, doc.ByteSize, now.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("document: insert %s: %w", id, err)
	}
	return doc, nil
}

// Text returns the extracted text for a document reference, which is
// either a stored document ID or a filesystem path.
//
// Stored documents cache their text on first extraction; the cache is
// observationally equivalent to re-extracting because extraction is
// idempotent. Plain paths are extracted on every call and never persisted.
func (s *Service) Text(ctx context.Context, ref string) (string, error) {
	doc, err := s.Get(ctx, ref)
	switch {
	case errors.Is(err, ErrNotFound):
		if _, statErr := os.Stat(ref); statErr != nil {
			return "", ErrNotFound
		}
		return s.extract(ref)
	case err != nil:
		return "", err
	}

	if doc.ExtractedText != nil {
		return *doc.ExtractedText, nil
	}

	text, err := s.extract(doc.Path)
	if err != nil {
		return "", err
	}
	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`UPDATE documents SET extracted_text = ?, extracted_at = ? WHERE id = ? AND extracted_text IS NULL`,
		text, now.Format(time.RFC3339), doc.ID)
	if err != nil {
		return "", fmt.Errorf("document: cache text %s: %w", doc.ID, err)
	}
	return text, nil
}

// Get returns the stored document with the given ID.
func (s *Service) Get(ctx context.Context, id string) (*Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, filename, path, byte_size, extracted_text, extracted_at, created_at
		 FROM documents WHERE id = ?`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("document: get %s: %w", id, err)
	}
	return doc, nil
}

// List returns all stored documents, newest first.
func (s *Service) List(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, path, byte_size, extracted_text, extracted_at, created_at
		 FROM documents ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("document: list: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var docs []Document
	for rows.Next() {
		doc, scanErr := scanDocument(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("document: list scan: %w", scanErr)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("document: list rows: %w", err)
	}
	return docs, nil
}

func (s *Service) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Now(), s.entropy).String()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*Document, error) {
	var (
		doc         Document
		text        sql.NullString
		extractedAt sql.NullString
		createdAt   string
	)
	if err := row.Scan(&doc.ID, &doc.Filename, &doc.Path, &doc.ByteSize, &text, &extractedAt, &createdAt); err != nil {
		return nil, err
	}
	if text.Valid {
		doc.ExtractedText = &text.String
	}
	if extractedAt.Valid {
		if t, err := time.Parse(time.RFC3339, extractedAt.String); err == nil {
			doc.ExtractedAt = &t
		}
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		doc.CreatedAt = t
	}
	return &doc, nil
}

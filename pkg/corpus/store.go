package corpus

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// ErrDocumentNotFound is returned when a named document is not in the store.
var ErrDocumentNotFound = errors.New("corpus: document not found")

// Document holds the metadata of one ingested document.
type Document struct {
	Id        int
	Name      string
	Lines     int
	CreatedAt time.Time
}

// SetupSchema initializes the corpus tables in the provided database. It is
// idempotent and safe to call on an already-initialized database.
func SetupSchema(db *sql.DB) error {

	const (
		schemaDocuments = `
CREATE TABLE IF NOT EXISTS corpus_documents (
    doc_id INTEGER PRIMARY KEY,
    doc_name TEXT NOT NULL UNIQUE,
    created_at INTEGER NOT NULL
);
`
		schemaLines = `
CREATE TABLE IF NOT EXISTS corpus_lines (
    doc_id INTEGER NOT NULL,
    line_no INTEGER NOT NULL,
    line_text TEXT NOT NULL,
    PRIMARY KEY (doc_id, line_no)
);
`
	)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.Exec(schemaDocuments); err != nil {
		return fmt.Errorf("could not create documents schema: %w", err)
	}

	if _, err = tx.Exec(schemaLines); err != nil {
		return fmt.Errorf("could not create lines schema: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	return nil
}

// Store reads and writes corpus documents. It holds prepared statements for
// the common queries and is safe for concurrent use, as *sql.DB is.
type Store struct {
	db              *sql.DB
	stmtGetDocID    *sql.Stmt
	stmtGetDocs     *sql.Stmt
	stmtGetLines    *sql.Stmt
	stmtMaxLineNo   *sql.Stmt
	stmtInsertDoc   *sql.Stmt
	stmtInsertLine  *sql.Stmt
	stmtCountLines  *sql.Stmt
	stmtDeleteLines *sql.Stmt
	stmtDeleteDoc   *sql.Stmt
	logger          *slog.Logger
}

// NewStore creates a Store and pre-compiles its SQL statements, returning an
// error if any preparation fails. SetupSchema must have been called first.
func NewStore(db *sql.DB) (*Store, error) {
	s := &Store{
		db:     db,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	stmts := []struct {
		dst   **sql.Stmt
		query string
	}{
		{&s.stmtGetDocID, `SELECT doc_id FROM corpus_documents WHERE doc_name = ?;`},
		{&s.stmtGetDocs, `SELECT d.doc_id, d.doc_name, d.created_at, COUNT(l.line_no) FROM corpus_documents d LEFT JOIN corpus_lines l ON l.doc_id = d.doc_id GROUP BY d.doc_id ORDER BY d.doc_name;`},
		{&s.stmtGetLines, `SELECT line_text FROM corpus_lines WHERE doc_id = ? ORDER BY line_no;`},
		{&s.stmtMaxLineNo, `SELECT coalesce(MAX(line_no), -1) FROM corpus_lines WHERE doc_id = ?;`},
		{&s.stmtInsertDoc, `INSERT INTO corpus_documents (doc_name, created_at) VALUES (?, ?) ON CONFLICT(doc_name) DO UPDATE SET doc_name=excluded.doc_name RETURNING doc_id;`},
		{&s.stmtInsertLine, `INSERT INTO corpus_lines (doc_id, line_no, line_text) VALUES (?, ?, ?);`},
		{&s.stmtCountLines, `SELECT COUNT(*) FROM corpus_lines WHERE doc_id = ?;`},
		{&s.stmtDeleteLines, `DELETE FROM corpus_lines WHERE doc_id = ?;`},
		{&s.stmtDeleteDoc, `DELETE FROM corpus_documents WHERE doc_id = ?;`},
	}
	for _, st := range stmts {
		stmt, err := db.Prepare(st.query)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("could not prepare statement: %w", err)
		}
		*st.dst = stmt
	}
	return s, nil
}

// Close releases all prepared SQL statements held by the Store. The database
// itself is left open.
func (s *Store) Close() {
	for _, stmt := range []*sql.Stmt{
		s.stmtGetDocID, s.stmtGetDocs, s.stmtGetLines, s.stmtMaxLineNo, s.stmtInsertDoc,
		s.stmtInsertLine, s.stmtCountLines, s.stmtDeleteLines, s.stmtDeleteDoc,
	} {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
}

// SetLogger sets the logger for the Store. By default, all logs are discarded.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// AddDocument reads r line by line and stores every line under name. If the
// document already exists the new lines are appended after the existing ones.
// The whole operation runs in one transaction and returns the number of lines
// added.
func (s *Store) AddDocument(ctx context.Context, name string, r io.Reader) (int, error) {
	// maxLineLength keeps a single runaway line from exhausting memory
	const maxLineLength = 1 << 20

	if name == "" {
		return 0, errors.New("document name is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	var docID int
	if err = tx.StmtContext(ctx, s.stmtInsertDoc).QueryRowContext(ctx, name, time.Now().Unix()).Scan(&docID); err != nil {
		return 0, fmt.Errorf("failed to get or insert document '%s': %w", name, err)
	}

	var lineNo int
	if err = tx.StmtContext(ctx, s.stmtMaxLineNo).QueryRowContext(ctx, docID).Scan(&lineNo); err != nil {
		return 0, fmt.Errorf("failed to find end of document '%s': %w", name, err)
	}

	stmtInsertLine := tx.StmtContext(ctx, s.stmtInsertLine)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	added := 0
	for scanner.Scan() {
		lineNo++
		if _, err = stmtInsertLine.ExecContext(ctx, docID, lineNo, scanner.Text()); err != nil {
			return 0, fmt.Errorf("failed to insert line %d of '%s': %w", lineNo, name, err)
		}
		added++
	}
	if err = scanner.Err(); err != nil {
		return 0, fmt.Errorf("reading document '%s': %w", name, err)
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}

	s.logger.InfoContext(ctx, "Document ingested",
		slog.String("doc_name", name),
		slog.Int("doc_id", docID),
		slog.Int("lines_added", added),
	)
	return added, nil
}

// Documents lists every stored document ordered by name.
func (s *Store) Documents(ctx context.Context) ([]Document, error) {
	rows, err := s.stmtGetDocs.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var docs []Document
	for rows.Next() {
		var doc Document
		var created int64
		if err = rows.Scan(&doc.Id, &doc.Name, &created, &doc.Lines); err != nil {
			return nil, err
		}
		doc.CreatedAt = time.Unix(created, 0)
		docs = append(docs, doc)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Lines returns the lines of the named document in their original order.
func (s *Store) Lines(ctx context.Context, name string) ([]string, error) {
	docID, err := s.docID(ctx, name)
	if err != nil {
		return nil, err
	}

	rows, err := s.stmtGetLines.QueryContext(ctx, docID)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var lines []string
	for rows.Next() {
		var line string
		if err = rows.Scan(&line); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// RemoveDocument deletes a document and all of its lines. The operation is
// performed within a transaction.
func (s *Store) RemoveDocument(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	docID, err := lookupDocID(ctx, tx.StmtContext(ctx, s.stmtGetDocID), name)
	if err != nil {
		return err
	}

	var lineCount int
	if err = tx.StmtContext(ctx, s.stmtCountLines).QueryRowContext(ctx, docID).Scan(&lineCount); err != nil {
		return fmt.Errorf("failed to count lines for document %d: %w", docID, err)
	}
	if _, err = tx.StmtContext(ctx, s.stmtDeleteLines).ExecContext(ctx, docID); err != nil {
		return fmt.Errorf("failed to remove lines for document %d: %w", docID, err)
	}
	if _, err = tx.StmtContext(ctx, s.stmtDeleteDoc).ExecContext(ctx, docID); err != nil {
		return fmt.Errorf("failed to remove document %d: %w", docID, err)
	}

	s.logger.InfoContext(ctx, "Document removed",
		slog.String("doc_name", name),
		slog.Int("doc_id", docID),
		slog.Int("lines_removed", lineCount),
	)

	return tx.Commit()
}

func (s *Store) docID(ctx context.Context, name string) (int, error) {
	return lookupDocID(ctx, s.stmtGetDocID, name)
}

// lookupDocID resolves name with stmt, which may be bound to a transaction.
func lookupDocID(ctx context.Context, stmt *sql.Stmt, name string) (int, error) {
	var docID int
	err := stmt.QueryRowContext(ctx, name).Scan(&docID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%q: %w", name, ErrDocumentNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("could not look up document '%s': %w", name, err)
	}
	return docID, nil
}

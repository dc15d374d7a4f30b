package usage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteFeedback implements FeedbackBackend using SQLite for persistence.
// It is suitable for single-instance deployments where feedback must survive
// restarts.
//
// The backend uses a write-ahead log (WAL) for better concurrent performance
// and periodic passive checkpoints to balance write performance with
// durability.
type SQLiteFeedback struct {
	db                 *sql.DB
	checkpointInterval time.Duration
	done               chan struct{}
	mu                 sync.RWMutex
	closeOnce          sync.Once

	saveStmt *sql.Stmt
	listStmt *sql.Stmt
}

// SQLiteFeedbackConfig configures the SQLite feedback backend.
type SQLiteFeedbackConfig struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// CheckpointInterval is how often to checkpoint the WAL.
	// Default: 5 minutes
	CheckpointInterval time.Duration

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// NewSQLiteFeedback creates a new SQLite feedback backend with default
// settings.
func NewSQLiteFeedback(dbPath string) (*SQLiteFeedback, error) {
	return NewSQLiteFeedbackWithConfig(SQLiteFeedbackConfig{
		DBPath:             dbPath,
		CheckpointInterval: 5 * time.Minute,
		BusyTimeout:        5 * time.Second,
	})
}

// NewSQLiteFeedbackWithConfig creates a new SQLite feedback backend with
// custom configuration.
func NewSQLiteFeedbackWithConfig(cfg SQLiteFeedbackConfig) (*SQLiteFeedback, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.CheckpointInterval == 0 {
		cfg.CheckpointInterval = 5 * time.Minute
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	// Open database with WAL mode and busy timeout
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.DBPath, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	backend := &SQLiteFeedback{
		db:                 db,
		checkpointInterval: cfg.CheckpointInterval,
		done:               make(chan struct{}),
	}

	if err := backend.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if err := backend.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	go backend.checkpointLoop()

	return backend, nil
}

// initSchema creates the database schema if it doesn't exist.
func (s *SQLiteFeedback) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS request_feedback (
		id TEXT PRIMARY KEY,
		request_id TEXT NOT NULL,
		quality_score INTEGER NOT NULL,
		feedback_text TEXT,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_feedback_request_id ON request_feedback(request_id);
	CREATE INDEX IF NOT EXISTS idx_feedback_created_at ON request_feedback(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// prepareStatements prepares SQL statements for reuse.
func (s *SQLiteFeedback) prepareStatements() error {
	var err error

	s.saveStmt, err = s.db.Prepare(`
		INSERT INTO request_feedback (id, request_id, quality_score, feedback_text, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			quality_score = excluded.quality_score,
			feedback_text = excluded.feedback_text
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare save statement: %w", err)
	}

	s.listStmt, err = s.db.Prepare(`
		SELECT id, request_id, quality_score, feedback_text, created_at
		FROM request_feedback
		ORDER BY created_at, id
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare list statement: %w", err)
	}

	return nil
}

// Save persists one feedback record.
func (s *SQLiteFeedback) Save(ctx context.Context, fb *Feedback) error {
	if fb == nil {
		return fmt.Errorf("feedback cannot be nil")
	}
	if fb.ID == "" {
		return fmt.Errorf("feedback id cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.saveStmt.ExecContext(ctx,
		fb.ID,
		fb.RequestID,
		fb.QualityScore,
		fb.Text,
		fb.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save feedback: %w", err)
	}

	return nil
}

// List returns all feedback records ordered by creation time.
func (s *SQLiteFeedback) List(ctx context.Context) ([]*Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.listStmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	var results []*Feedback
	for rows.Next() {
		var (
			fb        Feedback
			text      sql.NullString
			createdAt int64
		)

		if err := rows.Scan(&fb.ID, &fb.RequestID, &fb.QualityScore, &text, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		fb.Text = text.String
		fb.CreatedAt = time.Unix(createdAt, 0).UTC()
		results = append(results, &fb)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return results, nil
}

// Close releases any resources held by the backend.
// Close is idempotent and safe to call multiple times.
func (s *SQLiteFeedback) Close() error {
	var closeErr error

	s.closeOnce.Do(func() {
		close(s.done)

		if s.saveStmt != nil {
			s.saveStmt.Close()
		}
		if s.listStmt != nil {
			s.listStmt.Close()
		}

		if s.db != nil {
			// Run final checkpoint
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
			closeErr = s.db.Close()
		}
	})

	return closeErr
}

// checkpointLoop runs periodic WAL checkpoints.
func (s *SQLiteFeedback) checkpointLoop() {
	ticker := time.NewTicker(s.checkpointInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(PASSIVE)")
		case <-s.done:
			return
		}
	}
}

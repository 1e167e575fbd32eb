package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store is the local sqlite dataset. Reads and writes use separate handles;
// the write handle is capped at one connection to keep sqlite happy.
type Store struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	s := &Store{readDB: readDB, writeDB: writeDB}
	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			run_index        INTEGER NOT NULL,
			topic            TEXT NOT NULL,
			model            TEXT NOT NULL,
			prompt_format    TEXT NOT NULL,
			temperature      REAL NOT NULL,
			max_new_tokens   INTEGER NOT NULL,
			top_p            REAL NOT NULL DEFAULT 0,
			seed             INTEGER NOT NULL,
			left_ratio       REAL NOT NULL,
			left_type        TEXT NOT NULL,
			right_type       TEXT NOT NULL,
			sample_size      INTEGER NOT NULL,
			sampled_opinions TEXT NOT NULL,
			raw_output       TEXT NOT NULL DEFAULT '',
			created_at       DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_topic ON runs(topic);
		CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);

		CREATE TABLE IF NOT EXISTS articles (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id          INTEGER NOT NULL REFERENCES runs(id),
			position        INTEGER NOT NULL,
			headline        TEXT NOT NULL,
			body            TEXT NOT NULL,
			human_bias      TEXT NOT NULL DEFAULT '',
			human2_bias     TEXT NOT NULL DEFAULT '',
			model_bias      TEXT NOT NULL DEFAULT '',
			human_analysis  TEXT NOT NULL DEFAULT '',
			human2_analysis TEXT NOT NULL DEFAULT '',
			model_analysis  TEXT NOT NULL DEFAULT '',
			created_at      DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_articles_run ON articles(run_id);

		CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	var errs []error
	if s.readDB != nil {
		errs = append(errs, s.readDB.Close())
	}
	if s.writeDB != nil {
		errs = append(errs, s.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// InsertRun stores one generation pass and its articles, returning the run ID.
func (s *Store) InsertRun(run Run, articles []Article) (int64, error) {
	tx, err := s.writeDB.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	opinions, err := json.Marshal(run.SampledOpinions)
	if err != nil {
		return 0, fmt.Errorf("encoding sampled opinions: %w", err)
	}

	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	res, err := tx.Exec(`
		INSERT INTO runs (run_index, topic, model, prompt_format, temperature, max_new_tokens,
			top_p, seed, left_ratio, left_type, right_type, sample_size, sampled_opinions,
			raw_output, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.RunIndex, run.Topic, run.Model, run.PromptFormat, run.Temperature, run.MaxNewTokens,
		run.TopP, run.Seed, run.LeftRatio, run.LeftType, run.RightType, run.SampleSize,
		string(opinions), run.RawOutput, run.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO articles (run_id, position, headline, body, created_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, a := range articles {
		created := a.CreatedAt
		if created.IsZero() {
			created = run.CreatedAt
		}
		if _, err := stmt.Exec(runID, a.Position, a.Headline, a.Body, created); err != nil {
			return 0, fmt.Errorf("inserting article %d: %w", a.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

const runColumns = `id, run_index, topic, model, prompt_format, temperature, max_new_tokens,
	top_p, seed, left_ratio, left_type, right_type, sample_size, sampled_opinions,
	raw_output, created_at`

func scanRun(scan func(...any) error) (Run, error) {
	var r Run
	var opinions string
	err := scan(&r.ID, &r.RunIndex, &r.Topic, &r.Model, &r.PromptFormat, &r.Temperature,
		&r.MaxNewTokens, &r.TopP, &r.Seed, &r.LeftRatio, &r.LeftType, &r.RightType,
		&r.SampleSize, &opinions, &r.RawOutput, &r.CreatedAt)
	if err != nil {
		return Run{}, err
	}
	if err := json.Unmarshal([]byte(opinions), &r.SampledOpinions); err != nil {
		return Run{}, fmt.Errorf("decoding sampled opinions for run %d: %w", r.ID, err)
	}
	return r, nil
}

// GetRuns lists runs newest first.
func (s *Store) GetRuns(opts QueryOpts) ([]Run, error) {
	var (
		where []string
		args  []interface{}
	)
	if opts.Topic != "" {
		where = append(where, "topic = ?")
		args = append(args, opts.Topic)
	}
	if opts.Model != "" {
		where = append(where, "model = ?")
		args = append(args, opts.Model)
	}
	if !opts.Since.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, opts.Since)
	}

	query := "SELECT " + runColumns + " FROM runs"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	// No default cap: evaluation passes walk every matching run. Callers
	// that page (the review UI) set Limit themselves.
	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	rows, err := s.readDB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun fetches a single run by ID.
func (s *Store) GetRun(id int64) (Run, error) {
	row := s.readDB.QueryRow("SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	r, err := scanRun(row.Scan)
	if err == sql.ErrNoRows {
		return Run{}, fmt.Errorf("run %d not found", id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("fetching run %d: %w", id, err)
	}
	return r, nil
}

const articleColumns = `id, run_id, position, headline, body, human_bias, human2_bias,
	model_bias, human_analysis, human2_analysis, model_analysis, created_at`

// GetArticles lists the articles of a run in generation order.
func (s *Store) GetArticles(runID int64) ([]Article, error) {
	rows, err := s.readDB.Query(
		"SELECT "+articleColumns+" FROM articles WHERE run_id = ? ORDER BY position", runID)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		var a Article
		if err := rows.Scan(&a.ID, &a.RunID, &a.Position, &a.Headline, &a.Body,
			&a.HumanBias, &a.Human2Bias, &a.ModelBias,
			&a.HumanAnalysis, &a.Human2Analysis, &a.ModelAnalysis, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func raterColumns(r Rater) (biasCol, analysisCol string, err error) {
	switch r {
	case RaterHuman:
		return "human_bias", "human_analysis", nil
	case RaterHuman2:
		return "human2_bias", "human2_analysis", nil
	case RaterModel:
		return "model_bias", "model_analysis", nil
	}
	return "", "", fmt.Errorf("unknown rater %q", string(r))
}

// SetAnalysis stores a rater's analysis JSON for an article.
func (s *Store) SetAnalysis(articleID int64, r Rater, analysisJSON string) error {
	_, col, err := raterColumns(r)
	if err != nil {
		return err
	}
	res, err := s.writeDB.Exec(
		"UPDATE articles SET "+col+" = ? WHERE id = ?", analysisJSON, articleID)
	if err != nil {
		return fmt.Errorf("storing %s analysis: %w", r, err)
	}
	return requireRow(res, articleID)
}

// SetBias stores a rater's bias label for an article.
func (s *Store) SetBias(articleID int64, r Rater, bias string) error {
	col, _, err := raterColumns(r)
	if err != nil {
		return err
	}
	res, err := s.writeDB.Exec(
		"UPDATE articles SET "+col+" = ? WHERE id = ?", bias, articleID)
	if err != nil {
		return fmt.Errorf("storing %s bias: %w", r, err)
	}
	return requireRow(res, articleID)
}

func requireRow(res sql.Result, articleID int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("article %d not found", articleID)
	}
	return nil
}

// Prune deletes runs (and their articles) older than the retention period.
func (s *Store) Prune(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)

	tx, err := s.writeDB.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"DELETE FROM articles WHERE run_id IN (SELECT id FROM runs WHERE created_at < ?)", cutoff); err != nil {
		return 0, fmt.Errorf("pruning articles: %w", err)
	}
	res, err := tx.Exec("DELETE FROM runs WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning runs: %w", err)
	}
	deleted, _ := res.RowsAffected()
	return deleted, tx.Commit()
}

// Stats reports run/article counts and the database file size.
func (s *Store) Stats(dbPath string) (runs, articles, size int64, err error) {
	if err = s.readDB.QueryRow("SELECT COUNT(*) FROM runs").Scan(&runs); err != nil {
		return 0, 0, 0, fmt.Errorf("counting runs: %w", err)
	}
	if err = s.readDB.QueryRow("SELECT COUNT(*) FROM articles").Scan(&articles); err != nil {
		return 0, 0, 0, fmt.Errorf("counting articles: %w", err)
	}
	info, err := os.Stat(dbPath)
	if err != nil {
		return 0, 0, 0, err
	}
	return runs, articles, info.Size(), nil
}

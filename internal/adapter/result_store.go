package adapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	m "evaldriver.dev/pkg/evaldriver/internal/model"
)

// ErrRunNotFound is returned when a stored run does not exist.
var ErrRunNotFound = errors.New("run not found")

const sqliteDriver = "sqlite"

func init() {
	sqlx.BindDriver(sqliteDriver, sqlx.QUESTION)
}

// ResultStore persists finished runs so they can be rendered again later.
type ResultStore interface {
	SaveRun(ctx context.Context, run m.RunRecord) error
	// LoadRun loads a run by id; an empty id selects the most recent run.
	LoadRun(ctx context.Context, runID string) (m.RunRecord, error)
	ListRuns(ctx context.Context) ([]m.RunSummary, error)
	Close() error
}

const resultSchema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	started_at  INTEGER NOT NULL,
	finished_at INTEGER NOT NULL,
	versions    TEXT NOT NULL,
	templates   TEXT NOT NULL,
	checkers    TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS cells (
	run_id       TEXT NOT NULL,
	seq          INTEGER NOT NULL,
	property     TEXT NOT NULL,
	version      TEXT NOT NULL,
	edit         TEXT NOT NULL,
	built        INTEGER NOT NULL,
	build_ok     INTEGER NOT NULL,
	build_reason TEXT NOT NULL,
	build_ms     INTEGER NOT NULL,
	checked      INTEGER NOT NULL,
	PRIMARY KEY (run_id, seq)
);
CREATE TABLE IF NOT EXISTS checks (
	run_id      TEXT NOT NULL,
	seq         INTEGER NOT NULL,
	position    INTEGER NOT NULL,
	checker     TEXT NOT NULL,
	status      INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS err_msgs (
	run_id        TEXT NOT NULL,
	seq           INTEGER NOT NULL,
	position      INTEGER NOT NULL,
	template      TEXT NOT NULL,
	status        INTEGER NOT NULL,
	duration_ms   INTEGER NOT NULL,
	payload_kind  INTEGER NOT NULL,
	regular_edges INTEGER NOT NULL,
	error_edges   INTEGER NOT NULL,
	markers       INTEGER NOT NULL,
	problem       TEXT NOT NULL
);
`

type runRow struct {
	ID         string `db:"id"`
	StartedAt  int64  `db:"started_at"`
	FinishedAt int64  `db:"finished_at"`
	Versions   string `db:"versions"`
	Templates  string `db:"templates"`
	Checkers   string `db:"checkers"`
}

type cellRow struct {
	RunID       string `db:"run_id"`
	Seq         int    `db:"seq"`
	Property    string `db:"property"`
	Version     string `db:"version"`
	Edit        string `db:"edit"`
	Built       bool   `db:"built"`
	BuildOK     bool   `db:"build_ok"`
	BuildReason string `db:"build_reason"`
	BuildMS     int64  `db:"build_ms"`
	Checked     bool   `db:"checked"`
}

type checkRow struct {
	RunID      string `db:"run_id"`
	Seq        int    `db:"seq"`
	Position   int    `db:"position"`
	Checker    string `db:"checker"`
	Status     int    `db:"status"`
	DurationMS int64  `db:"duration_ms"`
}

type errMsgRow struct {
	RunID        string `db:"run_id"`
	Seq          int    `db:"seq"`
	Position     int    `db:"position"`
	Template     string `db:"template"`
	Status       int    `db:"status"`
	DurationMS   int64  `db:"duration_ms"`
	PayloadKind  int    `db:"payload_kind"`
	RegularEdges int    `db:"regular_edges"`
	ErrorEdges   int    `db:"error_edges"`
	Markers      int    `db:"markers"`
	Problem      string `db:"problem"`
}

type summaryRow struct {
	ID         string `db:"id"`
	StartedAt  int64  `db:"started_at"`
	FinishedAt int64  `db:"finished_at"`
	Cells      int    `db:"cells"`
}

// SQLiteResultStore keeps runs in a single SQLite database file.
type SQLiteResultStore struct {
	db *sqlx.DB
}

// OpenSQLiteResultStore opens (and if needed creates) the database at path.
func OpenSQLiteResultStore(ctx context.Context, path m.Path) (*SQLiteResultStore, error) {
	db, err := sqlx.Open(sqliteDriver, string(path))
	if err != nil {
		slog.Error("Failed to open result store", "path", path, "error", err)
		return nil, fmt.Errorf("failed to open result store: %w", err)
	}

	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, resultSchema); err != nil {
		_ = db.Close()

		slog.Error("Failed to create result schema", "path", path, "error", err)

		return nil, fmt.Errorf("failed to create result schema: %w", err)
	}

	return &SQLiteResultStore{db: db}, nil
}

// Close closes the database.
func (s *SQLiteResultStore) Close() error {
	return s.db.Close()
}

// SaveRun writes the whole run in one transaction.
func (s *SQLiteResultStore) SaveRun(ctx context.Context, run m.RunRecord) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := s.insertRun(ctx, tx, run); err != nil {
		_ = tx.Rollback()

		slog.Error("Failed to save run", "run", run.ID, "error", err)

		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run %s: %w", run.ID, err)
	}

	return nil
}

func (s *SQLiteResultStore) insertRun(ctx context.Context, tx *sqlx.Tx, run m.RunRecord) error {
	_, err := tx.NamedExecContext(ctx, `
		INSERT INTO runs (id, started_at, finished_at, versions, templates, checkers)
		VALUES (:id, :started_at, :finished_at, :versions, :templates, :checkers)
	`, runRow{
		ID:         run.ID,
		StartedAt:  run.StartedAt.UnixNano(),
		FinishedAt: run.FinishedAt.UnixNano(),
		Versions:   strings.Join(m.VersionNames(run.Table.Versions()), ","),
		Templates:  joinTemplates(run.Templates),
		Checkers:   joinCheckers(run.Checkers),
	})
	if err != nil {
		return err
	}

	for seq, cell := range run.Table.Cells() {
		if err := insertCell(ctx, tx, run.ID, seq, cell); err != nil {
			return err
		}
	}

	return nil
}

func insertCell(ctx context.Context, tx *sqlx.Tx, runID string, seq int, cell *m.Cell) error {
	build, built := cell.Build()
	checks, checked := cell.Checks()

	_, err := tx.NamedExecContext(ctx, `
		INSERT INTO cells (run_id, seq, property, version, edit, built, build_ok, build_reason, build_ms, checked)
		VALUES (:run_id, :seq, :property, :version, :edit, :built, :build_ok, :build_reason, :build_ms, :checked)
	`, cellRow{
		RunID:       runID,
		Seq:         seq,
		Property:    cell.Config.Property.String(),
		Version:     cell.Config.Version.Name,
		Edit:        editToken(cell.Config.Edit),
		Built:       built,
		BuildOK:     build.Succeeded,
		BuildReason: build.Reason,
		BuildMS:     build.Elapsed.Milliseconds(),
		Checked:     checked,
	})
	if err != nil {
		return err
	}

	for i, check := range checks {
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO checks (run_id, seq, position, checker, status, duration_ms)
			VALUES (:run_id, :seq, :position, :checker, :status, :duration_ms)
		`, checkRow{
			RunID:      runID,
			Seq:        seq,
			Position:   i,
			Checker:    check.Checker.String(),
			Status:     int(check.Status),
			DurationMS: check.Duration.Milliseconds(),
		})
		if err != nil {
			return err
		}
	}

	for i, res := range cell.ErrMsgs() {
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO err_msgs (run_id, seq, position, template, status, duration_ms, payload_kind, regular_edges, error_edges, markers, problem)
			VALUES (:run_id, :seq, :position, :template, :status, :duration_ms, :payload_kind, :regular_edges, :error_edges, :markers, :problem)
		`, errMsgRow{
			RunID:        runID,
			Seq:          seq,
			Position:     i,
			Template:     string(res.Template),
			Status:       int(res.Status),
			DurationMS:   res.Duration.Milliseconds(),
			PayloadKind:  int(res.Payload.Kind),
			RegularEdges: res.Payload.RegularEdges,
			ErrorEdges:   res.Payload.ErrorEdges,
			Markers:      res.Payload.Markers,
			Problem:      res.Problem,
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// LoadRun rebuilds a stored run.
func (s *SQLiteResultStore) LoadRun(ctx context.Context, runID string) (m.RunRecord, error) {
	var run runRow

	var err error
	if runID == "" {
		err = s.db.GetContext(ctx, &run, `SELECT * FROM runs ORDER BY started_at DESC LIMIT 1`)
	} else {
		err = s.db.GetContext(ctx, &run, `SELECT * FROM runs WHERE id = ?`, runID)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return m.RunRecord{}, fmt.Errorf("%w: %q", ErrRunNotFound, runID)
	}

	if err != nil {
		slog.Error("Failed to load run", "run", runID, "error", err)
		return m.RunRecord{}, fmt.Errorf("failed to load run: %w", err)
	}

	record, err := s.loadTable(ctx, run)
	if err != nil {
		slog.Error("Failed to load run results", "run", run.ID, "error", err)
		return m.RunRecord{}, fmt.Errorf("failed to load run %s: %w", run.ID, err)
	}

	return record, nil
}

func (s *SQLiteResultStore) loadTable(ctx context.Context, run runRow) (m.RunRecord, error) {
	templates, err := m.ParseTemplates(splitList(run.Templates))
	if err != nil {
		return m.RunRecord{}, err
	}

	checkers, err := parseCheckerList(run.Checkers)
	if err != nil {
		return m.RunRecord{}, err
	}

	table := m.NewResultTable(versionsByName(splitList(run.Versions)))

	var cells []cellRow
	if err := s.db.SelectContext(ctx, &cells, `SELECT * FROM cells WHERE run_id = ? ORDER BY seq`, run.ID); err != nil {
		return m.RunRecord{}, err
	}

	bySeq := make(map[int]*m.Cell, len(cells))

	for _, row := range cells {
		cell, err := restoreCell(table, row)
		if err != nil {
			return m.RunRecord{}, err
		}

		bySeq[row.Seq] = cell
	}

	if err := s.restoreChecks(ctx, run.ID, cells, bySeq); err != nil {
		return m.RunRecord{}, err
	}

	if err := s.restoreErrMsgs(ctx, run.ID, bySeq); err != nil {
		return m.RunRecord{}, err
	}

	return m.RunRecord{
		ID:         run.ID,
		StartedAt:  time.Unix(0, run.StartedAt),
		FinishedAt: time.Unix(0, run.FinishedAt),
		Templates:  templates,
		Checkers:   checkers,
		Table:      table,
	}, nil
}

func restoreCell(table *m.ResultTable, row cellRow) (*m.Cell, error) {
	property, err := m.ParseProperty(row.Property)
	if err != nil {
		return nil, err
	}

	var edit *m.Edit

	if row.Edit != "" {
		parsed, err := m.ParseEdit(row.Edit)
		if err != nil {
			return nil, err
		}

		edit = &parsed
	}

	version := versionsByName([]string{row.Version})[0]
	cell := table.Add(m.RunConfiguration{Property: property, Version: version, Edit: edit})

	if row.Built {
		outcome := m.BuildOutcome{
			Succeeded: row.BuildOK,
			Elapsed:   time.Duration(row.BuildMS) * time.Millisecond,
			Reason:    row.BuildReason,
		}
		if err := cell.SetBuild(outcome); err != nil {
			return nil, err
		}
	}

	return cell, nil
}

func (s *SQLiteResultStore) restoreChecks(ctx context.Context, runID string, cells []cellRow, bySeq map[int]*m.Cell) error {
	var rows []checkRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM checks WHERE run_id = ? ORDER BY seq, position`, runID); err != nil {
		return err
	}

	grouped := make(map[int][]m.CheckResult)

	for _, row := range rows {
		kind, err := m.ParseCheckerKind(row.Checker)
		if err != nil {
			return err
		}

		grouped[row.Seq] = append(grouped[row.Seq], m.CheckResult{
			Checker:  kind,
			Status:   m.CheckStatus(row.Status),
			Duration: time.Duration(row.DurationMS) * time.Millisecond,
		})
	}

	for _, row := range cells {
		if !row.Checked {
			continue
		}

		if err := bySeq[row.Seq].SetChecks(grouped[row.Seq]); err != nil {
			return err
		}
	}

	return nil
}

func (s *SQLiteResultStore) restoreErrMsgs(ctx context.Context, runID string, bySeq map[int]*m.Cell) error {
	var rows []errMsgRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM err_msgs WHERE run_id = ? ORDER BY seq, position`, runID); err != nil {
		return err
	}

	for _, row := range rows {
		cell, ok := bySeq[row.Seq]
		if !ok {
			return fmt.Errorf("error message result for unknown cell %d", row.Seq)
		}

		cell.AppendErrMsg(m.ErrMsgResult{
			Template: m.Template(row.Template),
			Status:   m.ErrMsgStatus(row.Status),
			Duration: time.Duration(row.DurationMS) * time.Millisecond,
			Payload: m.PayloadSize{
				Kind:         m.PayloadKind(row.PayloadKind),
				RegularEdges: row.RegularEdges,
				ErrorEdges:   row.ErrorEdges,
				Markers:      row.Markers,
			},
			Problem: row.Problem,
		})
	}

	return nil
}

// ListRuns returns stored runs, newest first.
func (s *SQLiteResultStore) ListRuns(ctx context.Context) ([]m.RunSummary, error) {
	var rows []summaryRow

	err := s.db.SelectContext(ctx, &rows, `
		SELECT r.id, r.started_at, r.finished_at, COUNT(c.seq) AS cells
		FROM runs r LEFT JOIN cells c ON c.run_id = r.id
		GROUP BY r.id, r.started_at, r.finished_at
		ORDER BY r.started_at DESC
	`)
	if err != nil {
		slog.Error("Failed to list runs", "error", err)
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	summaries := make([]m.RunSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, m.RunSummary{
			ID:         row.ID,
			StartedAt:  time.Unix(0, row.StartedAt),
			FinishedAt: time.Unix(0, row.FinishedAt),
			Cells:      row.Cells,
		})
	}

	return summaries, nil
}

func editToken(edit *m.Edit) string {
	if edit == nil {
		return ""
	}

	return edit.String()
}

// versionsByName resolves names against the known catalogue, keeping
// unknown names with no includes.
func versionsByName(names []string) []m.Version {
	versions := make([]m.Version, 0, len(names))

	for _, name := range names {
		version := m.Version{Name: name}

		for _, known := range m.KnownVersions {
			if known.Name == name {
				version = known
				break
			}
		}

		versions = append(versions, version)
	}

	return versions
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}

	return strings.Split(s, ",")
}

func joinTemplates(templates []m.Template) string {
	if len(templates) == 0 {
		return m.TemplatesNone
	}

	names := make([]string, 0, len(templates))
	for _, t := range templates {
		names = append(names, string(t))
	}

	return strings.Join(names, ",")
}

func joinCheckers(checkers []m.CheckerKind) string {
	names := make([]string, 0, len(checkers))
	for _, k := range checkers {
		names = append(names, k.String())
	}

	return strings.Join(names, ",")
}

func parseCheckerList(s string) ([]m.CheckerKind, error) {
	var kinds []m.CheckerKind

	for _, name := range splitList(s) {
		kind, err := m.ParseCheckerKind(name)
		if err != nil {
			return nil, err
		}

		kinds = append(kinds, kind)
	}

	return kinds, nil
}

// Package ledger keeps a SQLite history of every evaluated run so repeated
// evaluations of the same input can be compared.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vk/schematic/internal/ledger/migrations"
	"github.com/vk/schematic/internal/run"
	"github.com/vk/schematic/internal/schematic"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no entry matches a lookup.
var ErrNotFound = errors.New("ledger entry not found")

// Entry is one recorded run.
type Entry struct {
	ID           int64
	RunName      string
	InputPath    string
	InputDigest  string
	Computations []schematic.Computation
	Numbers      int
	PartSum      uint64
	GearRatioSum uint64
	ComputedAt   time.Time
}

// EntryFromOutcome converts a run outcome into a ledger entry.
func EntryFromOutcome(o *run.Outcome) Entry {
	return Entry{
		RunName:      o.Name,
		InputPath:    o.InputPath,
		InputDigest:  o.Digest,
		Computations: o.Result.Computed,
		Numbers:      o.Result.Numbers,
		PartSum:      o.Result.PartSum,
		GearRatioSum: o.Result.GearRatioSum,
		ComputedAt:   o.ComputedAt,
	}
}

// Store persists entries in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the ledger at path and applies the embedded
// migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("ledger path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts e and returns its ID. Sums are stored as decimal text so the
// full uint64 range survives SQLite's signed integers.
func (s *Store) Record(ctx context.Context, e Entry) (int64, error) {
	if e.RunName == "" || e.InputDigest == "" {
		return 0, fmt.Errorf("run name and input digest are required")
	}
	computedAt := e.ComputedAt.UTC()
	if computedAt.IsZero() {
		computedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (
		   run_name, input_path, input_digest, computations,
		   numbers, part_sum, gear_ratio_sum, computed_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RunName,
		e.InputPath,
		e.InputDigest,
		joinComputations(e.Computations),
		e.Numbers,
		strconv.FormatUint(e.PartSum, 10),
		strconv.FormatUint(e.GearRatioSum, 10),
		computedAt.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert run id: %w", err)
	}
	return id, nil
}

const selectColumns = `id, run_name, input_path, input_digest, computations, numbers, part_sum, gear_ratio_sum, computed_at`

// Latest returns the most recent entry recorded for the given input digest.
func (s *Store) Latest(ctx context.Context, digest string) (Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM runs WHERE input_digest = ? ORDER BY computed_at DESC, id DESC LIMIT 1`,
		digest,
	)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return e, err
}

// List returns up to limit entries, newest first. A limit of zero or less
// returns every entry.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM runs ORDER BY computed_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return entries, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		e                Entry
		comps            string
		partSum, gearSum string
		computedAtMillis int64
	)
	if err := row.Scan(&e.ID, &e.RunName, &e.InputPath, &e.InputDigest, &comps, &e.Numbers, &partSum, &gearSum, &computedAtMillis); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("scan run: %w", err)
	}

	var err error
	if e.PartSum, err = strconv.ParseUint(partSum, 10, 64); err != nil {
		return Entry{}, fmt.Errorf("scan run %d part sum: %w", e.ID, err)
	}
	if e.GearRatioSum, err = strconv.ParseUint(gearSum, 10, 64); err != nil {
		return Entry{}, fmt.Errorf("scan run %d gear ratio sum: %w", e.ID, err)
	}
	e.Computations = splitComputations(comps)
	e.ComputedAt = time.UnixMilli(computedAtMillis).UTC()
	return e, nil
}

func joinComputations(comps []schematic.Computation) string {
	names := make([]string, len(comps))
	for i, c := range comps {
		names[i] = string(c)
	}
	return strings.Join(names, ",")
}

func splitComputations(s string) []schematic.Computation {
	if s == "" {
		return nil
	}
	var comps []schematic.Computation
	for _, name := range strings.Split(s, ",") {
		comps = append(comps, schematic.Computation(name))
	}
	return comps
}

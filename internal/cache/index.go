package cache

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/matheuskafuri/spacegallery/internal/calendar"

	_ "modernc.org/sqlite"
)

// Index is an in-memory SQLite view of a Dataset used for keyword search.
// Nothing is written to disk.
type Index struct {
	db *sql.DB
}

func OpenIndex() (*Index, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ix := &Index{db: db}
	if err := ix.init(); err != nil {
		ix.Close()
		return nil, err
	}
	return ix, nil
}

func (ix *Index) init() error {
	_, err := ix.db.Exec(`
		CREATE TABLE IF NOT EXISTS entries (
			pos           INTEGER PRIMARY KEY,
			raw_date      TEXT NOT NULL,
			day           TEXT,
			media_type    TEXT NOT NULL DEFAULT '',
			url           TEXT NOT NULL DEFAULT '',
			hdurl         TEXT NOT NULL DEFAULT '',
			thumbnail_url TEXT NOT NULL DEFAULT '',
			title         TEXT NOT NULL DEFAULT '',
			explanation   TEXT NOT NULL DEFAULT '',
			copyright     TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_entries_day ON entries(day);
		CREATE INDEX IF NOT EXISTS idx_entries_media ON entries(media_type);
	`)
	if err != nil {
		return fmt.Errorf("initializing index schema: %w", err)
	}
	return nil
}

func (ix *Index) Close() error {
	if ix.db == nil {
		return nil
	}
	return ix.db.Close()
}

// Build replaces the index contents with ds.
func (ix *Index) Build(ds *Dataset) error {
	tx, err := ix.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM entries"); err != nil {
		return fmt.Errorf("clearing index: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO entries (pos, raw_date, day, media_type, url, hdurl, thumbnail_url, title, explanation, copyright)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	pos := 0
	var execErr error
	ds.Each(func(e Entry, day calendar.Date) {
		if execErr != nil {
			return
		}
		var dayCol interface{}
		if !day.IsZero() {
			dayCol = calendar.Format(day)
		}
		_, execErr = stmt.Exec(pos, e.Date, dayCol, e.MediaType, e.URL, e.HDURL, e.ThumbnailURL, e.Title, e.Explanation, e.Copyright)
		if execErr != nil {
			execErr = fmt.Errorf("indexing entry %q: %w", e.Date, execErr)
		}
		pos++
	})
	if execErr != nil {
		return execErr
	}

	return tx.Commit()
}

// likeEscaper makes LIKE wildcards in a search term match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// Query returns matching entries oldest first. When a date bound is set,
// entries with unparsable dates are excluded.
func (ix *Index) Query(opts QueryOpts) ([]Entry, error) {
	var (
		where []string
		args  []interface{}
	)

	if !opts.Start.IsZero() {
		where = append(where, "day >= ?")
		args = append(args, calendar.Format(opts.Start))
	}
	if !opts.End.IsZero() {
		where = append(where, "day <= ?")
		args = append(args, calendar.Format(opts.End))
	}

	if opts.MediaType != "" {
		where = append(where, "media_type = ?")
		args = append(args, opts.MediaType)
	}

	if opts.Search != "" {
		where = append(where, `(title LIKE ? ESCAPE '\' OR explanation LIKE ? ESCAPE '\' OR copyright LIKE ? ESCAPE '\')`)
		term := "%" + likeEscaper.Replace(opts.Search) + "%"
		args = append(args, term, term, term)
	}

	query := "SELECT raw_date, media_type, url, hdurl, thumbnail_url, title, explanation, copyright FROM entries"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	// Undated rows sort after dated ones; pos keeps feed order stable.
	query += " ORDER BY day IS NULL, day ASC, pos ASC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	rows, err := ix.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Date, &e.MediaType, &e.URL, &e.HDURL, &e.ThumbnailURL, &e.Title, &e.Explanation, &e.Copyright); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// MediaCounts returns the number of indexed entries per media type.
func (ix *Index) MediaCounts() (map[string]int, error) {
	rows, err := ix.db.Query("SELECT media_type, COUNT(*) FROM entries GROUP BY media_type")
	if err != nil {
		return nil, fmt.Errorf("counting media types: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			mt string
			n  int
		)
		if err := rows.Scan(&mt, &n); err != nil {
			return nil, err
		}
		if mt == "" {
			mt = "unknown"
		}
		counts[mt] = n
	}
	return counts, rows.Err()
}

// Package sqlite serves a gazetteer from an embedded SQLite file using
// modernc.org/sqlite, with the string similarity functions registered as SQL
// scalar functions.
package sqlite

import (
	"context"
	"database/sql"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/al-ius/aus-address-matcher/internal/gazetteer"
)

// Store is a read-only gazetteer connection on a SQLite file.
type Store struct {
	db   *sql.DB
	opts gazetteer.SearchOptions
	log  *zap.Logger
}

// Open opens the database at path read-only.
func Open(ctx context.Context, path string, opts gazetteer.SearchOptions, log *zap.Logger) (*Store, error) {
	if err := registerFunctions(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, eris.Wrapf(err, "sqlite: open %s", path)
	}
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	// One connection per worker; the pool would otherwise open more.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, eris.Wrapf(err, "sqlite: ping %s", path)
	}
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Limit <= 0 {
		opts.Limit = gazetteer.DefaultStreetLimit
	}
	return &Store{db: db, opts: opts, log: log.With(zap.String("store", "sqlite"))}, nil
}

// Opener returns a gazetteer.Opener that opens path on every call.
func Opener(path string, opts gazetteer.SearchOptions, log *zap.Logger) gazetteer.Opener {
	return func(ctx context.Context) (gazetteer.Store, error) {
		return Open(ctx, path, opts, log)
	}
}

// FuzzyStreetSearch implements gazetteer.Store.
func (s *Store) FuzzyStreetSearch(ctx context.Context, text string) ([]gazetteer.StreetCandidate, error) {
	rows, err := s.db.QueryContext(ctx, streetSearchQuery,
		text, s.opts.ContainmentWeight, s.opts.Limit, s.opts.MaxEditRatio)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: street search")
	}
	defer rows.Close()

	var out []gazetteer.StreetCandidate
	for rows.Next() {
		var c gazetteer.StreetCandidate
		if err := rows.Scan(&c.StreetID, &c.LocalityID, &c.StreetName, &c.StreetType, &c.StreetSuffix,
			&c.State, &c.Locality, &c.Postcode, &c.Distance); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan street candidate")
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: street search rows")
	}
	s.log.Debug("street search", zap.String("text", text), zap.Int("candidates", len(out)))
	return out, nil
}

// AddressesForStreets implements gazetteer.Store.
func (s *Store) AddressesForStreets(ctx context.Context, streetIDs []string) ([]gazetteer.AddressRecord, error) {
	if len(streetIDs) == 0 {
		return nil, nil
	}
	args := make([]any, len(streetIDs))
	for i, id := range streetIDs {
		args[i] = id
	}
	query := `SELECT address_detail_pid, street_locality_pid, street_name, address, postcode
		FROM australian_full_addresses
		WHERE street_locality_pid IN (` + placeholders(len(streetIDs)) + `)
		ORDER BY street_locality_pid, address_detail_pid`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: address search")
	}
	defer rows.Close()

	var out []gazetteer.AddressRecord
	for rows.Next() {
		var a gazetteer.AddressRecord
		if err := rows.Scan(&a.ID, &a.StreetID, &a.StreetName, &a.Address, &a.Postcode); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan address")
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: address search rows")
	}
	return out, nil
}

// Counts returns the row count of each gazetteer table.
func (s *Store) Counts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(tables))
	for _, t := range tables {
		var n int64
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+t).Scan(&n); err != nil {
			return nil, eris.Wrapf(err, "sqlite: count %s", t)
		}
		counts[t] = n
	}
	return counts, nil
}

// Close implements gazetteer.Store.
func (s *Store) Close() error {
	return s.db.Close()
}

var tables = []string{
	"locality",
	"locality_neighbour",
	"street_type_aut",
	"street_suffix_aut",
	"street_locality",
	"australian_full_addresses",
	"street_lookup",
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

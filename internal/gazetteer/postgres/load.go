package postgres

import (
	"context"
	"database/sql"
	"sort"

	"github.com/lib/pq"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/al-ius/aus-address-matcher/internal/gazetteer"
)

// ErrExists is returned by Create when the gazetteer tables already exist.
var ErrExists = eris.New("postgres: gazetteer tables already exist")

const schema = `
CREATE TABLE locality (
	locality_pid       TEXT PRIMARY KEY,
	locality_name      TEXT NOT NULL,
	state_abbreviation TEXT NOT NULL
);
CREATE TABLE locality_neighbour (
	locality_pid           TEXT NOT NULL REFERENCES locality(locality_pid),
	neighbour_locality_pid TEXT NOT NULL REFERENCES locality(locality_pid),
	PRIMARY KEY (locality_pid, neighbour_locality_pid)
);
CREATE TABLE street_type_aut (code TEXT PRIMARY KEY, name TEXT NOT NULL);
CREATE TABLE street_suffix_aut (code TEXT PRIMARY KEY, name TEXT NOT NULL);
CREATE TABLE street_locality (
	street_locality_pid TEXT PRIMARY KEY,
	locality_pid        TEXT NOT NULL REFERENCES locality(locality_pid),
	street_name         TEXT NOT NULL,
	street_type_code    TEXT NOT NULL DEFAULT '',
	street_suffix_code  TEXT NOT NULL DEFAULT ''
);
CREATE TABLE australian_full_addresses (
	address_detail_pid  TEXT PRIMARY KEY,
	street_locality_pid TEXT NOT NULL REFERENCES street_locality(street_locality_pid),
	street_name         TEXT NOT NULL,
	address             TEXT NOT NULL,
	postcode            TEXT NOT NULL DEFAULT ''
);
CREATE TABLE street_lookup (
	street_locality_pid TEXT NOT NULL,
	locality_pid        TEXT NOT NULL,
	street_name         TEXT NOT NULL,
	street_type_code    TEXT NOT NULL,
	street_suffix_code  TEXT NOT NULL,
	state_abbreviation  TEXT NOT NULL,
	locality_name       TEXT NOT NULL,
	postcode            TEXT NOT NULL,
	address_suffix      TEXT NOT NULL
);
CREATE INDEX idx_street_locality_name ON street_locality(street_name);
CREATE INDEX idx_addresses_street ON australian_full_addresses(street_locality_pid);
CREATE INDEX idx_street_lookup_trgm ON street_lookup USING gin (address_suffix gin_trgm_ops);
`

// Create installs the extensions and tables and bulk loads f into the
// database at dsn. It refuses to run against a database that already holds a
// gazetteer.
func Create(ctx context.Context, dsn string, f *gazetteer.Fixture, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := connect(ctx, dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	var existing sql.NullString
	if err := db.QueryRowContext(ctx, `SELECT to_regclass('street_lookup')::text`).Scan(&existing); err != nil {
		return eris.Wrap(err, "postgres: check existing tables")
	}
	if existing.Valid {
		return eris.Wrap(ErrExists, "postgres: create")
	}

	for _, ext := range []string{"fuzzystrmatch", "pg_trgm"} {
		if _, err := db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS "+pq.QuoteIdentifier(ext)); err != nil {
			return eris.Wrapf(err, "postgres: create extension %s", ext)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "postgres: begin")
	}
	if err := load(ctx, tx, f); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "postgres: commit")
	}

	log.Info("gazetteer tables created",
		zap.Int("localities", len(f.Localities)),
		zap.Int("streets", len(f.Streets)),
		zap.Int("addresses", len(f.Addresses)),
	)
	return nil
}

func load(ctx context.Context, tx *sql.Tx, f *gazetteer.Fixture) error {
	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return eris.Wrap(err, "postgres: create schema")
	}

	var types, suffixes, localities, neighbours, streets, addresses, lookup [][]any
	for _, code := range sortedKeys(f.StreetTypes) {
		types = append(types, []any{code, f.StreetTypes[code]})
	}
	for _, code := range sortedKeys(f.StreetSuffixes) {
		suffixes = append(suffixes, []any{code, f.StreetSuffixes[code]})
	}
	seen := make(map[[2]string]struct{})
	for _, l := range f.Localities {
		localities = append(localities, []any{l.ID, l.Name, l.State})
		for _, n := range l.Neighbours {
			key := [2]string{l.ID, n}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			neighbours = append(neighbours, []any{l.ID, n})
		}
	}
	names := make(map[string]string, len(f.Streets))
	for _, s := range f.Streets {
		names[s.ID] = s.Name
		streets = append(streets, []any{s.ID, s.Locality, s.Name, s.Type, s.Suffix})
	}
	for _, a := range f.Addresses {
		addresses = append(addresses, []any{a.ID, a.Street, names[a.Street], a.Address, a.Postcode})
	}
	for _, r := range gazetteer.BuildLookup(f) {
		lookup = append(lookup, []any{r.StreetID, r.LocalityID, r.StreetName, r.TypeCode, r.SuffixCode,
			r.State, r.Locality, r.Postcode, r.Key})
	}

	copies := []struct {
		table   string
		columns []string
		rows    [][]any
	}{
		{"street_type_aut", []string{"code", "name"}, types},
		{"street_suffix_aut", []string{"code", "name"}, suffixes},
		{"locality", []string{"locality_pid", "locality_name", "state_abbreviation"}, localities},
		{"locality_neighbour", []string{"locality_pid", "neighbour_locality_pid"}, neighbours},
		{"street_locality", []string{"street_locality_pid", "locality_pid", "street_name",
			"street_type_code", "street_suffix_code"}, streets},
		{"australian_full_addresses", []string{"address_detail_pid", "street_locality_pid", "street_name",
			"address", "postcode"}, addresses},
		{"street_lookup", []string{"street_locality_pid", "locality_pid", "street_name", "street_type_code",
			"street_suffix_code", "state_abbreviation", "locality_name", "postcode", "address_suffix"}, lookup},
	}
	for _, c := range copies {
		if err := copyRows(ctx, tx, c.table, c.columns, c.rows); err != nil {
			return err
		}
	}
	return nil
}

func copyRows(ctx context.Context, tx *sql.Tx, table string, columns []string, rows [][]any) error {
	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(table, columns...))
	if err != nil {
		return eris.Wrapf(err, "postgres: prepare copy %s", table)
	}
	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			stmt.Close()
			return eris.Wrapf(err, "postgres: copy %s", table)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return eris.Wrapf(err, "postgres: flush %s", table)
	}
	return eris.Wrapf(stmt.Close(), "postgres: close copy %s", table)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

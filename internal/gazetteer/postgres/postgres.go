package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/al-ius/aus-address-matcher/internal/gazetteer"
)

// streetSearchQuery mirrors the SQLite ranking. pg_trgm similarity stands in
// for Jaro-Winkler, which PostgreSQL has no extension for.
const streetSearchQuery = `
WITH scored AS (
	SELECT
		street_locality_pid, locality_pid, street_name, street_type_code, street_suffix_code,
		state_abbreviation, locality_name, postcode,
		levenshtein($1, address_suffix)::float8 - similarity($1, address_suffix)::float8
			+ CASE WHEN street_name <> '' AND position(' ' || street_name || ' ' IN ' ' || $1 || ' ') > 0
				THEN $2::float8 ELSE 0 END AS distance
	FROM street_lookup
	WHERE $4::float8 <= 0
		OR (street_name <> '' AND position(' ' || street_name || ' ' IN ' ' || $1 || ' ') > 0)
		OR levenshtein($1, address_suffix) <= $4::float8 * GREATEST(length($1), length(address_suffix))
),
descriptors AS (
	SELECT
		street_locality_pid, locality_pid, street_name, street_type_code, street_suffix_code,
		state_abbreviation, locality_name, postcode, MIN(distance) AS distance
	FROM scored
	GROUP BY street_locality_pid, locality_pid, street_name, street_type_code, street_suffix_code,
		state_abbreviation, locality_name, postcode
	ORDER BY distance, street_locality_pid, postcode, locality_pid
	LIMIT $3
)
SELECT DISTINCT
	sl.street_locality_pid, sl.locality_pid, d.street_name, sl.street_type_code, sl.street_suffix_code,
	d.state_abbreviation, d.locality_name, d.postcode, d.distance
FROM descriptors d
JOIN street_locality sl
	ON sl.street_name = d.street_name
	AND (d.street_type_code = '' OR sl.street_type_code = d.street_type_code)
	AND (d.street_suffix_code = '' OR sl.street_suffix_code = d.street_suffix_code)
WHERE sl.locality_pid = d.locality_pid
	OR sl.locality_pid IN (
		SELECT neighbour_locality_pid FROM locality_neighbour WHERE locality_pid = d.locality_pid
	)
ORDER BY d.distance, sl.street_locality_pid, d.postcode, sl.locality_pid
`

const addressQuery = `
SELECT address_detail_pid, street_locality_pid, street_name, address, postcode
FROM australian_full_addresses
WHERE street_locality_pid = ANY($1)
ORDER BY street_locality_pid, address_detail_pid
`

// Store is a gazetteer connection on PostgreSQL.
type Store struct {
	db   *sql.DB
	opts gazetteer.SearchOptions
	log  *zap.Logger
}

// Open connects to dsn and checks the required extensions are installed.
func Open(ctx context.Context, dsn string, opts gazetteer.SearchOptions, log *zap.Logger) (*Store, error) {
	db, err := connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	for _, ext := range []string{"fuzzystrmatch", "pg_trgm"} {
		var ok bool
		if err := db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM pg_extension WHERE extname = $1)`, ext).Scan(&ok); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "postgres: check extension %s", ext)
		}
		if !ok {
			db.Close()
			return nil, eris.Errorf("postgres: extension %s is not installed", ext)
		}
	}
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Limit <= 0 {
		opts.Limit = gazetteer.DefaultStreetLimit
	}
	return &Store{db: db, opts: opts, log: log.With(zap.String("store", "postgres"))}, nil
}

// Opener returns a gazetteer.Opener connecting to dsn on every call.
func Opener(dsn string, opts gazetteer.SearchOptions, log *zap.Logger) gazetteer.Opener {
	return func(ctx context.Context) (gazetteer.Store, error) {
		return Open(ctx, dsn, opts, log)
	}
}

// FuzzyStreetSearch implements gazetteer.Store.
func (s *Store) FuzzyStreetSearch(ctx context.Context, text string) ([]gazetteer.StreetCandidate, error) {
	rows, err := s.db.QueryContext(ctx, streetSearchQuery,
		text, s.opts.ContainmentWeight, s.opts.Limit, s.opts.MaxEditRatio)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: street search")
	}
	defer rows.Close()

	var out []gazetteer.StreetCandidate
	for rows.Next() {
		var c gazetteer.StreetCandidate
		if err := rows.Scan(&c.StreetID, &c.LocalityID, &c.StreetName, &c.StreetType, &c.StreetSuffix,
			&c.State, &c.Locality, &c.Postcode, &c.Distance); err != nil {
			return nil, eris.Wrap(err, "postgres: scan street candidate")
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: street search rows")
	}
	s.log.Debug("street search", zap.String("text", text), zap.Int("candidates", len(out)))
	return out, nil
}

// AddressesForStreets implements gazetteer.Store.
func (s *Store) AddressesForStreets(ctx context.Context, streetIDs []string) ([]gazetteer.AddressRecord, error) {
	if len(streetIDs) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, addressQuery, pq.Array(streetIDs))
	if err != nil {
		return nil, eris.Wrap(err, "postgres: address search")
	}
	defer rows.Close()

	var out []gazetteer.AddressRecord
	for rows.Next() {
		var a gazetteer.AddressRecord
		if err := rows.Scan(&a.ID, &a.StreetID, &a.StreetName, &a.Address, &a.Postcode); err != nil {
			return nil, eris.Wrap(err, "postgres: scan address")
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: address search rows")
	}
	return out, nil
}

// Counts returns the row count of each gazetteer table.
func (s *Store) Counts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(tables))
	for _, t := range tables {
		var n int64
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+pq.QuoteIdentifier(t)).Scan(&n); err != nil {
			return nil, eris.Wrapf(err, "postgres: count %s", t)
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

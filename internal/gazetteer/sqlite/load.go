package sqlite

import (
	"context"
	"database/sql"
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/al-ius/aus-address-matcher/internal/gazetteer"
)

// ErrExists is returned by Create when the target file is already present.
var ErrExists = eris.New("sqlite: database already exists")

// Create builds a new gazetteer database at path from f. It refuses to
// overwrite an existing file.
func Create(ctx context.Context, path string, f *gazetteer.Fixture, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	if _, err := os.Stat(path); err == nil {
		return eris.Wrapf(ErrExists, "sqlite: create %s", path)
	} else if !os.IsNotExist(err) {
		return eris.Wrapf(err, "sqlite: stat %s", path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return eris.Wrap(err, "sqlite: open")
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return eris.Wrap(err, "sqlite: create schema")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	if err := load(ctx, tx, f); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "sqlite: commit")
	}

	log.Info("gazetteer database created",
		zap.String("path", path),
		zap.Int("localities", len(f.Localities)),
		zap.Int("streets", len(f.Streets)),
		zap.Int("addresses", len(f.Addresses)),
	)
	return nil
}

func load(ctx context.Context, tx *sql.Tx, f *gazetteer.Fixture) error {
	for _, code := range sortedKeys(f.StreetTypes) {
		if _, err := tx.ExecContext(ctx, `INSERT INTO street_type_aut (code, name) VALUES (?, ?)`,
			code, f.StreetTypes[code]); err != nil {
			return eris.Wrapf(err, "sqlite: insert street type %s", code)
		}
	}
	for _, code := range sortedKeys(f.StreetSuffixes) {
		if _, err := tx.ExecContext(ctx, `INSERT INTO street_suffix_aut (code, name) VALUES (?, ?)`,
			code, f.StreetSuffixes[code]); err != nil {
			return eris.Wrapf(err, "sqlite: insert street suffix %s", code)
		}
	}

	for _, l := range f.Localities {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO locality (locality_pid, locality_name, state_abbreviation) VALUES (?, ?, ?)`,
			l.ID, l.Name, l.State); err != nil {
			return eris.Wrapf(err, "sqlite: insert locality %s", l.ID)
		}
	}
	for _, l := range f.Localities {
		for _, n := range l.Neighbours {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO locality_neighbour (locality_pid, neighbour_locality_pid) VALUES (?, ?)`,
				l.ID, n); err != nil {
				return eris.Wrapf(err, "sqlite: insert neighbour %s/%s", l.ID, n)
			}
		}
	}

	names := make(map[string]string, len(f.Streets))
	for _, s := range f.Streets {
		names[s.ID] = s.Name
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO street_locality (street_locality_pid, locality_pid, street_name, street_type_code, street_suffix_code)
			VALUES (?, ?, ?, ?, ?)`,
			s.ID, s.Locality, s.Name, s.Type, s.Suffix); err != nil {
			return eris.Wrapf(err, "sqlite: insert street %s", s.ID)
		}
	}

	for _, a := range f.Addresses {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO australian_full_addresses (address_detail_pid, street_locality_pid, street_name, address, postcode)
			VALUES (?, ?, ?, ?, ?)`,
			a.ID, a.Street, names[a.Street], a.Address, a.Postcode); err != nil {
			return eris.Wrapf(err, "sqlite: insert address %s", a.ID)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO street_lookup (street_locality_pid, locality_pid, street_name, street_type_code,
			street_suffix_code, state_abbreviation, locality_name, postcode, address_suffix)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare street lookup")
	}
	defer stmt.Close()
	for _, r := range gazetteer.BuildLookup(f) {
		if _, err := stmt.ExecContext(ctx, r.StreetID, r.LocalityID, r.StreetName, r.TypeCode,
			r.SuffixCode, r.State, r.Locality, r.Postcode, r.Key); err != nil {
			return eris.Wrapf(err, "sqlite: insert street lookup %s", r.StreetID)
		}
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

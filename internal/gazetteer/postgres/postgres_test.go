package postgres_test

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/al-ius/aus-address-matcher/internal/gazetteer"
	"github.com/al-ius/aus-address-matcher/internal/gazetteer/gazetteertest"
	"github.com/al-ius/aus-address-matcher/internal/gazetteer/postgres"
)

func TestDSN(t *testing.T) {
	assert.Equal(t, "postgres://u@h/db", postgres.DSN("postgres://u@h/db"))

	t.Setenv("PGHOST", "db.internal")
	t.Setenv("PGPORT", "15432")
	t.Setenv("PGUSER", "gnaf")
	t.Setenv("PGPASSWORD", "secret")
	t.Setenv("PGDATABASE", "addresses")
	t.Setenv("PGSSLMODE", "require")
	assert.Equal(t,
		"host=db.internal port=15432 user=gnaf password=secret dbname=addresses sslmode=require",
		postgres.DSN(""))
}

// testDSN returns a database URL for an empty scratch database, skipping the
// test when none is configured.
func testDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("GNAF_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("GNAF_TEST_DATABASE_URL not set")
	}
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec(`DROP TABLE IF EXISTS street_lookup, australian_full_addresses, street_locality,
		locality_neighbour, locality, street_type_aut, street_suffix_aut CASCADE`)
	require.NoError(t, err)
	return dsn
}

func TestStoreAgainstDatabase(t *testing.T) {
	dsn := testDSN(t)
	ctx := context.Background()
	f := gazetteertest.Fixture(t)

	require.NoError(t, postgres.Create(ctx, dsn, f, nil))
	assert.ErrorIs(t, postgres.Create(ctx, dsn, f, nil), postgres.ErrExists)

	s, err := postgres.Open(ctx, dsn, gazetteer.DefaultSearchOptions(), nil)
	require.NoError(t, err)
	defer s.Close()

	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(f.Addresses)), counts["australian_full_addresses"])

	got, err := s.FuzzyStreetSearch(ctx, "12 SMITH ST RICHMOND VIC 3121")
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "SMITH", got[0].StreetName)
	assert.Contains(t, gazetteer.StreetIDs(got), "STR_SMITH_RICHMOND")

	short, err := s.FuzzyStreetSearch(ctx, "8 BRIDGE RD")
	require.NoError(t, err)
	assert.Contains(t, gazetteer.StreetIDs(short), "STR_BRIDGE_RICHMOND")

	none, err := s.FuzzyStreetSearch(ctx, "1 NONEXISTENT RD NOWHERE VIC 9999")
	require.NoError(t, err)
	assert.Empty(t, none)

	addrs, err := s.AddressesForStreets(ctx, []string{"STR_HIGH_KEW"})
	require.NoError(t, err)
	require.Len(t, addrs, 2)
	assert.Equal(t, "GNAF020", addrs[0].ID)
}

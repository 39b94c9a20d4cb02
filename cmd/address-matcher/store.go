package main

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/al-ius/aus-address-matcher/internal/config"
	"github.com/al-ius/aus-address-matcher/internal/dispatch"
	"github.com/al-ius/aus-address-matcher/internal/gazetteer"
	"github.com/al-ius/aus-address-matcher/internal/gazetteer/postgres"
	"github.com/al-ius/aus-address-matcher/internal/gazetteer/sqlite"
	"github.com/al-ius/aus-address-matcher/internal/normalize"
)

// openerFor returns the Opener for the configured store driver.
func openerFor(c *config.Config, log *zap.Logger) (gazetteer.Opener, error) {
	opts := c.SearchOptions()
	switch c.Store.Driver {
	case config.DriverSQLite:
		return sqlite.Opener(c.Store.Path, opts, log), nil
	case config.DriverPostgres:
		return postgres.Opener(postgres.DSN(c.Store.DatabaseURL), opts, log), nil
	case config.DriverFixture:
		f, err := gazetteer.LoadFixture(c.Store.Fixture)
		if err != nil {
			return nil, err
		}
		return gazetteer.NewMemoryStore(f, opts).Opener(), nil
	}
	return nil, eris.Errorf("unknown store driver %q", c.Store.Driver)
}

func preprocessorFor(c *config.Config) (normalize.Preprocessor, error) {
	if !c.Match.Libpostal {
		return nil, nil
	}
	return normalize.NewPostal()
}

// newDispatcher wires the configured store, weights and preprocessor.
func newDispatcher(c *config.Config, log *zap.Logger) (*dispatch.Dispatcher, gazetteer.Opener, error) {
	open, err := openerFor(c, log)
	if err != nil {
		return nil, nil, err
	}
	pre, err := preprocessorFor(c)
	if err != nil {
		return nil, nil, err
	}
	dc := c.Dispatch()
	dc.Preprocessor = pre
	return dispatch.New(open, dc, log), open, nil
}

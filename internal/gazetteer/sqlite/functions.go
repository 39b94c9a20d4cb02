package sqlite

import (
	"database/sql/driver"
	"fmt"
	"sync"

	"github.com/rotisserie/eris"
	msqlite "modernc.org/sqlite"

	"github.com/al-ius/aus-address-matcher/internal/similarity"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// registerFunctions installs the string similarity functions the street
// search query calls. Registration is process wide and applies to every
// connection opened afterwards.
func registerFunctions() error {
	registerOnce.Do(func() {
		if err := msqlite.RegisterDeterministicScalarFunction("levenshtein", 2, levenshteinFunc); err != nil {
			registerErr = eris.Wrap(err, "sqlite: register levenshtein")
			return
		}
		if err := msqlite.RegisterDeterministicScalarFunction("jaro_winkler_similarity", 2, jaroWinklerFunc); err != nil {
			registerErr = eris.Wrap(err, "sqlite: register jaro_winkler_similarity")
		}
	})
	return registerErr
}

func levenshteinFunc(_ *msqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	a, b, err := textArgs(args)
	if err != nil {
		return nil, err
	}
	return int64(similarity.Levenshtein(a, b)), nil
}

func jaroWinklerFunc(_ *msqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	a, b, err := textArgs(args)
	if err != nil {
		return nil, err
	}
	return similarity.JaroWinkler(a, b), nil
}

func textArgs(args []driver.Value) (string, string, error) {
	if len(args) != 2 {
		return "", "", fmt.Errorf("expected 2 arguments, got %d", len(args))
	}
	a, err := text(args[0])
	if err != nil {
		return "", "", err
	}
	b, err := text(args[1])
	if err != nil {
		return "", "", err
	}
	return a, b, nil
}

func text(v driver.Value) (string, error) {
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	default:
		return "", fmt.Errorf("expected text, got %T", v)
	}
}

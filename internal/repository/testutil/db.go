package testutil

import (
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// SetupMockDB creates a sqlmock-backed connection. Expected queries are
// regular expressions matched against whitespace-collapsed SQL.
func SetupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
	}

	return db, mock, cleanup
}

type anyTime struct{}

func (anyTime) Match(v driver.Value) bool {
	ts, ok := v.(time.Time)
	return ok && !ts.IsZero()
}

// AnyTime matches any non-zero time.Time argument
func AnyTime() sqlmock.Argument {
	return anyTime{}
}

type jsonPath struct {
	path string
	want string
}

func (j jsonPath) Match(v driver.Value) bool {
	var raw []byte
	switch b := v.(type) {
	case []byte:
		raw = b
	case string:
		raw = []byte(b)
	default:
		return false
	}
	result := gjson.GetBytes(raw, j.path)
	return result.Exists() && result.String() == j.want
}

// JSONPath matches a JSON argument whose value at path (gjson syntax) equals want
func JSONPath(path, want string) sqlmock.Argument {
	return jsonPath{path: path, want: want}
}

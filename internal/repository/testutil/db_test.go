package testutil

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupMockDB(t *testing.T) {
	db, mock, cleanup := SetupMockDB(t)
	require.NotNil(t, db)
	require.NotNil(t, mock)

	mock.ExpectExec(`DELETE FROM campaign_revisions WHERE campaign_id = \$1`).
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	_, err := db.Exec("DELETE   FROM campaign_revisions\n\tWHERE campaign_id = $1", "c1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectClose()
	cleanup()
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnyTime(t *testing.T) {
	assert.True(t, AnyTime().Match(time.Now()))
	assert.False(t, AnyTime().Match(time.Time{}))
	assert.False(t, AnyTime().Match("2026-01-01"))
}

func TestJSONPath(t *testing.T) {
	doc := []byte(`{"blocks":[{"id":"s1","type":"Spacer"}]}`)

	assert.True(t, JSONPath("blocks.0.id", "s1").Match(doc))
	assert.True(t, JSONPath("blocks.0.type", "Spacer").Match(string(doc)))
	assert.False(t, JSONPath("blocks.1.id", "s1").Match(doc))
	assert.False(t, JSONPath("blocks.0.id", "s2").Match(doc))
	assert.False(t, JSONPath("blocks", "x").Match(42))
}

package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Notifuse/campaign-builder/internal/database/schema"
)

func TestInitializeDatabase(t *testing.T) {
	t.Run("creates tables successfully", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		for range schema.TableDefinitions {
			mock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
		}

		err = InitializeDatabase(context.Background(), db)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stops at the first failing statement", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS campaigns").WillReturnError(errors.New("permission denied"))

		err = InitializeDatabase(context.Background(), db)
		assert.ErrorContains(t, err, "failed to create table")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

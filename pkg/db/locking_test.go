package db

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestLockForUpdateAddsRowLockOnPostgres(t *testing.T) {
	gdb, err := gorm.Open(postgres.New(postgres.Config{
		DriverName: "pgx",
		DSN:        "host=localhost user=workshop dbname=workshop",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	assert.NoError(t, err)

	var rows []struct{ ID int64 }
	tx := LockForUpdate(gdb).Table("invoices").Where("id = ?", 1).Find(&rows)
	assert.Contains(t, tx.Statement.SQL.String(), "FOR UPDATE")
}

func TestLockForUpdateSkipsSQLite(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		DryRun: true,
	})
	assert.NoError(t, err)

	var rows []struct{ ID int64 }
	tx := LockForUpdate(gdb).Table("invoices").Where("id = ?", 1).Find(&rows)
	assert.NotContains(t, tx.Statement.SQL.String(), "FOR UPDATE")
}

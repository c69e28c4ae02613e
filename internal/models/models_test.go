package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestStringArrayScan(t *testing.T) {
	var a StringArray
	require.NoError(t, a.Scan("{id-1,id-2,id-3}"))
	assert.Equal(t, StringArray{"id-1", "id-2", "id-3"}, a)

	require.NoError(t, a.Scan([]byte("{only}")))
	assert.Equal(t, StringArray{"only"}, a)

	require.NoError(t, a.Scan("{}"))
	assert.Equal(t, StringArray{}, a)

	require.NoError(t, a.Scan(nil))
	assert.Nil(t, a)
}

func TestSchemaMigratesOnSqlite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Skipf("Skipping model tests: sqlite not available (%v)", err)
	}

	require.NoError(t, db.AutoMigrate(
		&User{}, &Tag{}, &Blog{}, &Project{}, &Image{},
		&CodeExample{}, &FAQ{}, &BlogMetric{},
		&SearchHistory{}, &SearchAnalytics{},
	))

	// Ids come from the BeforeCreate hooks, not a column default
	blog := Blog{Title: "Migrations", Slug: "migrations", Content: "body"}
	require.NoError(t, db.Create(&blog).Error)
	assert.NotEmpty(t, blog.ID)
}

func TestStringArrayValue(t *testing.T) {
	v, err := StringArray{"a", "b"}.Value()
	require.NoError(t, err)
	assert.Equal(t, "{a,b}", v)

	v, err = StringArray{}.Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", v)

	v, err = StringArray(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

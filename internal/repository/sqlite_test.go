package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laicai0810/addr-parser-cn/internal/models"
)

func TestSQLiteRepository_LoadRegions(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "regions.sqlite"))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`
	CREATE TABLE provinces (code TEXT PRIMARY KEY, name TEXT NOT NULL, longitude REAL, latitude REAL);
	CREATE TABLE cities (code TEXT PRIMARY KEY, name TEXT NOT NULL, longitude REAL, latitude REAL, province_code TEXT NOT NULL);
	CREATE TABLE districts (code TEXT PRIMARY KEY, name TEXT NOT NULL, longitude REAL, latitude REAL, city_code TEXT NOT NULL);

	INSERT INTO provinces VALUES ('440000', '广东省', 113.280637, 23.125178);
	INSERT INTO provinces VALUES ('330000', '浙江省', NULL, NULL);
	INSERT INTO cities VALUES ('440100', '广州市', 113.264385, 23.12911, '440000');
	INSERT INTO districts VALUES ('440106', '天河区', NULL, NULL, '440100');
	`)
	require.NoError(t, err)

	store, err := NewSQLiteRepository(db).LoadRegions(context.Background())
	require.NoError(t, err)

	// rows come back in code order with the level stamped on
	require.Len(t, store.Provinces, 2)
	assert.Equal(t, models.Region{
		Code: "330000", Name: "浙江省", Level: models.LevelProvince,
	}, store.Provinces[0])
	assert.Equal(t, models.Region{
		Code: "440000", Name: "广东省", Level: models.LevelProvince,
		Longitude: 113.280637, Latitude: 23.125178,
	}, store.Provinces[1])

	require.Len(t, store.Cities, 1)
	assert.Equal(t, models.Region{
		Code: "440100", Name: "广州市", Level: models.LevelCity, ParentCode: "440000",
		Longitude: 113.264385, Latitude: 23.12911,
	}, store.Cities[0])

	require.Len(t, store.Districts, 1)
	assert.Equal(t, models.Region{
		Code: "440106", Name: "天河区", Level: models.LevelDistrict, ParentCode: "440100",
	}, store.Districts[0])
}

func TestSQLiteRepository_LoadRegionsMissingSchema(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "empty.sqlite"))
	require.NoError(t, err)
	defer db.Close()

	_, err = NewSQLiteRepository(db).LoadRegions(context.Background())
	assert.Error(t, err)
}

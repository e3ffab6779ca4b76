package repository

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/laicai0810/addr-parser-cn/internal/gazetteer"
	"github.com/laicai0810/addr-parser-cn/internal/models"
)

// SQLiteRepository loads region tables from the local snapshot built by the
// provider, for embedded and offline use.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a repository over an opened snapshot
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// OpenSQLite opens the snapshot database at the given path
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to open sqlite snapshot: %w", err)
	}
	return db, nil
}

// LoadRegions reads the three region tables into a gazetteer store
func (r *SQLiteRepository) LoadRegions(ctx context.Context) (*gazetteer.Store, error) {
	provinces, err := r.queryRegions(ctx,
		"SELECT code, name, longitude, latitude, '' FROM provinces ORDER BY code",
		models.LevelProvince)
	if err != nil {
		return nil, err
	}
	cities, err := r.queryRegions(ctx,
		"SELECT code, name, longitude, latitude, province_code FROM cities ORDER BY code",
		models.LevelCity)
	if err != nil {
		return nil, err
	}
	districts, err := r.queryRegions(ctx,
		"SELECT code, name, longitude, latitude, city_code FROM districts ORDER BY code",
		models.LevelDistrict)
	if err != nil {
		return nil, err
	}

	return &gazetteer.Store{
		Provinces: provinces,
		Cities:    cities,
		Districts: districts,
	}, nil
}

func (r *SQLiteRepository) queryRegions(ctx context.Context, query string, level models.Level) ([]models.Region, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query %s rows: %w", level, err)
	}
	defer rows.Close()

	var regions []models.Region
	for rows.Next() {
		var reg models.Region
		var lng, lat sql.NullFloat64
		if err := rows.Scan(&reg.Code, &reg.Name, &lng, &lat, &reg.ParentCode); err != nil {
			return nil, fmt.Errorf("repository: failed to scan %s row: %w", level, err)
		}
		reg.Level = level
		reg.Longitude = lng.Float64
		reg.Latitude = lat.Float64
		regions = append(regions, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating %s rows: %w", level, err)
	}
	return regions, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/laicai0810/addr-parser-cn/internal/gazetteer"
	"github.com/laicai0810/addr-parser-cn/internal/models"
)

// PostgresRepository implements region storage on PostgreSQL
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateSchema ensures the three region tables exist
func (r *PostgresRepository) CreateSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS provinces (
		code VARCHAR(12) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		longitude DOUBLE PRECISION,
		latitude DOUBLE PRECISION
	);
	CREATE TABLE IF NOT EXISTS cities (
		code VARCHAR(12) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		longitude DOUBLE PRECISION,
		latitude DOUBLE PRECISION,
		province_code VARCHAR(12) NOT NULL
	);
	CREATE TABLE IF NOT EXISTS districts (
		code VARCHAR(12) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		longitude DOUBLE PRECISION,
		latitude DOUBLE PRECISION,
		city_code VARCHAR(12) NOT NULL
	);
	CREATE INDEX IF NOT EXISTS cities_province_code_idx ON cities (province_code);
	CREATE INDEX IF NOT EXISTS districts_city_code_idx ON districts (city_code);
	`
	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("repository: failed to create schema: %w", err)
	}
	return nil
}

// ReplaceRegions replaces the stored gazetteer with the given one using bulk
// copy, table by table
func (r *PostgresRepository) ReplaceRegions(ctx context.Context, store *gazetteer.Store) error {
	if _, err := r.db.Exec(ctx, "TRUNCATE provinces, cities, districts"); err != nil {
		return fmt.Errorf("repository: failed to truncate region tables: %w", err)
	}

	_, err := r.db.CopyFrom(
		ctx,
		pgx.Identifier{"provinces"},
		[]string{"code", "name", "longitude", "latitude"},
		pgx.CopyFromSlice(len(store.Provinces), func(i int) ([]interface{}, error) {
			p := store.Provinces[i]
			return []interface{}{p.Code, p.Name, p.Longitude, p.Latitude}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("repository: failed to copy provinces: %w", err)
	}

	_, err = r.db.CopyFrom(
		ctx,
		pgx.Identifier{"cities"},
		[]string{"code", "name", "longitude", "latitude", "province_code"},
		pgx.CopyFromSlice(len(store.Cities), func(i int) ([]interface{}, error) {
			c := store.Cities[i]
			return []interface{}{c.Code, c.Name, c.Longitude, c.Latitude, c.ParentCode}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("repository: failed to copy cities: %w", err)
	}

	_, err = r.db.CopyFrom(
		ctx,
		pgx.Identifier{"districts"},
		[]string{"code", "name", "longitude", "latitude", "city_code"},
		pgx.CopyFromSlice(len(store.Districts), func(i int) ([]interface{}, error) {
			d := store.Districts[i]
			return []interface{}{d.Code, d.Name, d.Longitude, d.Latitude, d.ParentCode}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("repository: failed to copy districts: %w", err)
	}
	return nil
}

// LoadRegions reads the three region tables into a gazetteer store
func (r *PostgresRepository) LoadRegions(ctx context.Context) (*gazetteer.Store, error) {
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

func (r *PostgresRepository) queryRegions(ctx context.Context, sql string, level models.Level) ([]models.Region, error) {
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query %s rows: %w", level, err)
	}
	defer rows.Close()

	var regions []models.Region
	for rows.Next() {
		var reg models.Region
		var lng, lat *float64
		if err := rows.Scan(&reg.Code, &reg.Name, &lng, &lat, &reg.ParentCode); err != nil {
			return nil, fmt.Errorf("repository: failed to scan %s row: %w", level, err)
		}
		reg.Level = level
		if lng != nil {
			reg.Longitude = *lng
		}
		if lat != nil {
			reg.Latitude = *lat
		}
		regions = append(regions, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating %s rows: %w", level, err)
	}
	return regions, nil
}

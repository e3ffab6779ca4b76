package provider

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/laicai0810/addr-parser-cn/internal/models"
)

const (
	rawFileName = "aliyun_raw_data.json"
	dbFileName  = "aliyun_regions.sqlite"
)

// AliyunProvider acquires the authoritative administrative-division dataset
// from the Aliyun DataV boundary service, flattens it into three relational
// tables and persists them as a local SQLite snapshot. Acquisition is
// idempotent: each stage is skipped when its artifact already exists.
type AliyunProvider struct {
	dataDir   string
	sourceURL string
	client    *http.Client
}

// NewAliyunProvider creates a provider writing under dataDir.
func NewAliyunProvider(dataDir, sourceURL string, timeout time.Duration) *AliyunProvider {
	return &AliyunProvider{
		dataDir:   dataDir,
		sourceURL: sourceURL,
		client:    &http.Client{Timeout: timeout},
	}
}

// DatabasePath returns the location of the SQLite snapshot under dataDir.
func DatabasePath(dataDir string) string {
	return filepath.Join(dataDir, dbFileName)
}

func (p *AliyunProvider) dbPath() string {
	return DatabasePath(p.dataDir)
}

func (p *AliyunProvider) rawPath() string {
	return filepath.Join(p.dataDir, rawFileName)
}

// Ensure makes the SQLite snapshot available, downloading and flattening the
// remote dataset only when the snapshot is missing. Any failure here is fatal
// to initialization; no partial gazetteer is accepted.
func (p *AliyunProvider) Ensure(ctx context.Context) error {
	if _, err := os.Stat(p.dbPath()); err == nil {
		return nil
	}
	if err := os.MkdirAll(p.dataDir, 0o755); err != nil {
		return fmt.Errorf("provider: failed to create data dir: %w", err)
	}
	if _, err := os.Stat(p.rawPath()); err != nil {
		if err := p.download(ctx); err != nil {
			return err
		}
	}
	return p.buildDatabase()
}

func (p *AliyunProvider) download(ctx context.Context) error {
	log.Info().Str("url", p.sourceURL).Msg("downloading region dataset")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.sourceURL, nil)
	if err != nil {
		return fmt.Errorf("provider: failed to build request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("provider: failed to fetch dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider: unexpected status %d from dataset source", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("provider: failed to read dataset body: %w", err)
	}
	if !json.Valid(data) {
		return fmt.Errorf("provider: dataset source returned malformed JSON")
	}
	if err := os.WriteFile(p.rawPath(), data, 0o644); err != nil {
		return fmt.Errorf("provider: failed to persist raw dataset: %w", err)
	}
	return nil
}

func (p *AliyunProvider) buildDatabase() error {
	data, err := os.ReadFile(p.rawPath())
	if err != nil {
		return fmt.Errorf("provider: failed to read raw dataset: %w", err)
	}
	regions, err := decodeRegions(data)
	if err != nil {
		return err
	}

	db, err := sql.Open("sqlite", p.dbPath())
	if err != nil {
		return fmt.Errorf("provider: failed to open snapshot: %w", err)
	}
	defer db.Close()

	if err := writeSnapshot(db, regions); err != nil {
		os.Remove(p.dbPath())
		return err
	}
	log.Info().Int("regions", len(regions)).Str("path", p.dbPath()).Msg("region snapshot built")
	return nil
}

// flexCode tolerates adcodes serialized as either JSON numbers or strings.
type flexCode string

func (c *flexCode) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*c = flexCode(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*c = flexCode(s)
	}
	return nil
}

type featureProperties struct {
	Adcode    flexCode        `json:"adcode"`
	Name      string          `json:"name"`
	Level     string          `json:"level"`
	Center    []float64       `json:"center"`
	Longitude float64         `json:"lng"`
	Latitude  float64         `json:"lat"`
	Parent    json.RawMessage `json:"parent"`
}

// decodeRegions flattens the DataV payload into Region rows. The payload may
// be a GeoJSON FeatureCollection or a bare array, and each row may or may not
// carry a properties envelope.
func decodeRegions(data []byte) ([]models.Region, error) {
	var wrapper struct {
		Features []json.RawMessage `json:"features"`
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &wrapper); err == nil && wrapper.Features != nil {
		raws = wrapper.Features
	} else if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("provider: malformed dataset: %w", err)
	}

	regions := make([]models.Region, 0, len(raws))
	for _, raw := range raws {
		var feat struct {
			Properties json.RawMessage `json:"properties"`
		}
		props := raw
		if err := json.Unmarshal(raw, &feat); err == nil && feat.Properties != nil {
			props = feat.Properties
		}
		var fp featureProperties
		if err := json.Unmarshal(props, &fp); err != nil {
			continue
		}
		if fp.Adcode == "" || fp.Name == "" {
			continue
		}
		lng, lat := fp.Longitude, fp.Latitude
		if len(fp.Center) == 2 {
			lng, lat = fp.Center[0], fp.Center[1]
		}
		regions = append(regions, models.Region{
			Code:       string(fp.Adcode),
			Name:       fp.Name,
			Level:      models.Level(fp.Level),
			ParentCode: parentAdcode(fp.Parent),
			Longitude:  lng,
			Latitude:   lat,
		})
	}
	return regions, nil
}

func parentAdcode(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var ref struct {
		Adcode flexCode `json:"adcode"`
	}
	if err := json.Unmarshal(raw, &ref); err == nil && ref.Adcode != "" {
		return string(ref.Adcode)
	}
	var c flexCode
	_ = json.Unmarshal(raw, &c)
	return string(c)
}

func writeSnapshot(db *sql.DB, regions []models.Region) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS provinces (
		code TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		longitude REAL,
		latitude REAL
	);
	CREATE TABLE IF NOT EXISTS cities (
		code TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		longitude REAL,
		latitude REAL,
		province_code TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS districts (
		code TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		longitude REAL,
		latitude REAL,
		city_code TEXT NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("provider: failed to create snapshot schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("provider: failed to begin snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	for _, reg := range regions {
		switch reg.Level {
		case models.LevelProvince:
			_, err = tx.Exec(
				"INSERT OR REPLACE INTO provinces (code, name, longitude, latitude) VALUES (?, ?, ?, ?)",
				reg.Code, reg.Name, reg.Longitude, reg.Latitude,
			)
		case models.LevelCity:
			_, err = tx.Exec(
				"INSERT OR REPLACE INTO cities (code, name, longitude, latitude, province_code) VALUES (?, ?, ?, ?, ?)",
				reg.Code, reg.Name, reg.Longitude, reg.Latitude, reg.ParentCode,
			)
		case models.LevelDistrict:
			_, err = tx.Exec(
				"INSERT OR REPLACE INTO districts (code, name, longitude, latitude, city_code) VALUES (?, ?, ?, ?, ?)",
				reg.Code, reg.Name, reg.Longitude, reg.Latitude, reg.ParentCode,
			)
		}
		if err != nil {
			return fmt.Errorf("provider: failed to write region %s: %w", reg.Code, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("provider: failed to commit snapshot: %w", err)
	}
	return nil
}

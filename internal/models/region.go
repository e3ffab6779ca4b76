package models

// Level identifies the administrative tier a region belongs to.
type Level string

const (
	LevelProvince Level = "province"
	LevelCity     Level = "city"
	LevelDistrict Level = "district"
)

// Region represents a single administrative unit, containing its official adcode, display name, parentage and representative coordinates.
type Region struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Level      Level   `json:"level"`
	ParentCode string  `json:"parent_code"`
	Longitude  float64 `json:"longitude"`
	Latitude   float64 `json:"latitude"`
}

package models

// ResolvedAddress is the result of parsing a free-form address string. Name,
// code and coordinate fields are populated per level only when that level was
// confirmed against the gazetteer; a level is never populated without its
// parent level. AddressDetail carries the unconsumed remainder of the input.
type ResolvedAddress struct {
	Province string `json:"province,omitempty"`
	City     string `json:"city,omitempty"`
	District string `json:"district,omitempty"`

	ProvinceCode string `json:"province_code,omitempty"`
	CityCode     string `json:"city_code,omitempty"`
	DistrictCode string `json:"district_code,omitempty"`

	ProvinceLng *float64 `json:"province_lng,omitempty"`
	ProvinceLat *float64 `json:"province_lat,omitempty"`
	CityLng     *float64 `json:"city_lng,omitempty"`
	CityLat     *float64 `json:"city_lat,omitempty"`
	DistrictLng *float64 `json:"district_lng,omitempty"`
	DistrictLat *float64 `json:"district_lat,omitempty"`

	AddressDetail string `json:"address_detail"`
}

package gazetteer

import (
	"regexp"
	"strings"

	"github.com/laicai0810/addr-parser-cn/internal/models"
)

var (
	// noiseTokenRe drops literal null-ish placeholders that upstream
	// systems leave inside address fields.
	noiseTokenRe = regexp.MustCompile(`(?i)(null|undefined|none|na)+`)
	// fillerRe drops separators, whitespace, the 市辖区 filler used for
	// municipality districts, and a postal-code-like leading digit run.
	fillerRe = regexp.MustCompile(`[_\-@()（）\s　]|市辖区|^[0-9]+`)
)

// Resolver is the address matching engine. It is a pure function of its
// index: Parse allocates only call-local state, so a single Resolver may be
// shared across any number of goroutines.
type Resolver struct {
	idx *Index
}

// NewResolver creates a resolver over a built index.
func NewResolver(idx *Index) *Resolver {
	return &Resolver{idx: idx}
}

// parsedNames is the tokenizer output: plain name strings before code and
// coordinate confirmation.
type parsedNames struct {
	province string
	city     string
	district string
	detail   string
}

// Parse resolves a free-form address string into its administrative hierarchy
// plus the unmatched remainder. It is total: any input, however malformed,
// yields a well-formed result, possibly with all hierarchy fields absent.
func (r *Resolver) Parse(addr string) models.ResolvedAddress {
	return r.confirm(r.tokenize(addr))
}

// tokenize greedily walks the normalized input against the index, consuming
// the longest matching name at each level.
func (r *Resolver) tokenize(addr string) parsedNames {
	var n parsedNames
	rest := r.trimLeadingNoise(normalize(addr))

	for _, alias := range r.idx.provinceCandidates {
		if strings.HasPrefix(rest, alias) {
			n.province = r.idx.aliasToName[alias]
			rest = rest[len(alias):]
			break
		}
	}

	// Recovery: no province given. A city name alone is ambiguous, so a
	// candidate city is accepted only together with one of its own
	// districts; the province then follows from the city's parent.
	if n.province == "" {
	recovery:
		for _, cityName := range r.idx.cityCandidates {
			if !strings.HasPrefix(rest, cityName) {
				continue
			}
			after := rest[len(cityName):]
			for _, city := range r.idx.citiesByName[cityName] {
				for _, districtName := range r.idx.districtNamesByCity[city.Code] {
					if !strings.HasPrefix(after, districtName) {
						continue
					}
					prov, ok := r.idx.provinceByCode[r.idx.provinceCodeByCity[city.Code]]
					if !ok {
						continue
					}
					n.province = prov.Name
					n.city = cityName
					n.district = districtName
					rest = after[len(districtName):]
					break recovery
				}
			}
		}
	}

	if n.province != "" && n.city == "" {
		if prov, ok := r.idx.provinceByName[n.province]; ok {
			for _, cityName := range r.idx.cityNamesByProvince[prov.Code] {
				if strings.HasPrefix(rest, cityName) {
					n.city = cityName
					rest = rest[len(cityName):]
					break
				}
			}
		}
	}

	if n.city != "" && n.district == "" {
		prov := r.idx.provinceByName[n.province]
	district:
		// re-check the city's parentage; duplicate city names exist
		for _, city := range r.idx.citiesByName[n.city] {
			if r.idx.provinceCodeByCity[city.Code] != prov.Code {
				continue
			}
			for _, districtName := range r.idx.districtNamesByCity[city.Code] {
				if strings.HasPrefix(rest, districtName) {
					n.district = districtName
					rest = rest[len(districtName):]
					break district
				}
			}
		}
	}

	n.detail = rest
	return n
}

// confirm re-validates the tokenized names against the store and attaches
// codes and coordinates. A failed lookup at one level truncates the result at
// the level above; a level's code and coordinates are set together or not at
// all.
func (r *Resolver) confirm(n parsedNames) models.ResolvedAddress {
	out := models.ResolvedAddress{AddressDetail: n.detail}

	if n.province == "" {
		return out
	}
	prov, ok := r.idx.provinceByName[n.province]
	if !ok {
		return out
	}
	out.Province = prov.Name
	out.ProvinceCode = prov.Code
	out.ProvinceLng, out.ProvinceLat = coords(prov)

	cityName := n.city
	if cityName == "" && strings.HasSuffix(prov.Name, municipalitySuffix) {
		// municipalities are their own city
		cityName = prov.Name
	}
	if cityName == "" {
		return out
	}
	city, ok := r.idx.cityRow(cityName, prov.Code)
	if !ok {
		return out
	}
	out.City = city.Name
	out.CityCode = city.Code
	out.CityLng, out.CityLat = coords(city)

	if n.district == "" {
		return out
	}
	district, ok := r.idx.districtRow(n.district, city.Code)
	if !ok {
		return out
	}
	out.District = district.Name
	out.DistrictCode = district.Code
	out.DistrictLng, out.DistrictLat = coords(district)

	return out
}

// trimLeadingNoise discards text before the earliest occurrence of any known
// province or city name, recovering addresses prefixed by unrelated content
// such as a sender name.
func (r *Resolver) trimLeadingNoise(s string) string {
	first := -1
	for _, kw := range r.idx.searchKeywords {
		pos := strings.Index(s, kw)
		if pos < 0 {
			continue
		}
		if first == -1 || pos < first {
			first = pos
		}
		if first == 0 {
			break
		}
	}
	if first > 0 {
		return s[first:]
	}
	return s
}

func normalize(addr string) string {
	s := noiseTokenRe.ReplaceAllString(addr, "")
	return fillerRe.ReplaceAllString(s, "")
}

// coords returns a region's representative point, or nil when none was
// recorded.
func coords(reg models.Region) (*float64, *float64) {
	if reg.Longitude == 0 && reg.Latitude == 0 {
		return nil, nil
	}
	lng, lat := reg.Longitude, reg.Latitude
	return &lng, &lat
}

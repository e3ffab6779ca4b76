package gazetteer

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/laicai0810/addr-parser-cn/internal/models"
)

// aliasSuffixRe strips administrative suffixes and ethnic qualifiers from a
// province name to derive its short-form alias (广东省 -> 广东,
// 广西壮族自治区 -> 广西).
var aliasSuffixRe = regexp.MustCompile(`省|市|自治区|特别行政区|壮族|回族|维吾尔|蒙古`)

// municipalitySuffix marks directly-governed municipalities, which act as
// their own city-level unit.
const municipalitySuffix = "市"

// Index is the matching-ready view of a Store. It is immutable once built and
// safe to share across concurrent Parse calls.
type Index struct {
	aliasToName map[string]string

	// candidate name lists, longest name first so a short name never
	// pre-empts a longer one it is a prefix of
	provinceCandidates []string
	cityCandidates     []string

	cityNamesByProvince map[string][]string
	districtNamesByCity map[string][]string

	provinceByName     map[string]models.Region
	provinceByCode     map[string]models.Region
	citiesByName       map[string][]models.Region
	districtsByName    map[string][]models.Region
	provinceCodeByCity map[string]string

	// provinceCandidates followed by cityCandidates, used to locate the
	// start of the administrative hierarchy inside noisy input
	searchKeywords []string
}

// NewIndex derives the lookup structures the resolver needs from the flat
// store tables. Orphaned rows (a city without its province, a district
// without its city) are dropped rather than rejected. For every municipality
// a self-referential city row is registered so its province code doubles as
// its city code.
func NewIndex(store *Store) *Index {
	ix := &Index{
		aliasToName:         make(map[string]string),
		cityNamesByProvince: make(map[string][]string),
		districtNamesByCity: make(map[string][]string),
		provinceByName:      make(map[string]models.Region),
		provinceByCode:      make(map[string]models.Region),
		citiesByName:        make(map[string][]models.Region),
		districtsByName:     make(map[string][]models.Region),
		provinceCodeByCity:  make(map[string]string),
	}

	provinces := make([]models.Region, len(store.Provinces))
	copy(provinces, store.Provinces)
	sort.Slice(provinces, func(i, j int) bool { return provinces[i].Code < provinces[j].Code })

	for _, p := range provinces {
		if p.Code == "" || p.Name == "" {
			continue
		}
		ix.provinceByName[p.Name] = p
		ix.provinceByCode[p.Code] = p
		ix.registerAlias(p.Name, p.Name)
		alias := aliasSuffixRe.ReplaceAllString(p.Name, "")
		if alias != "" && alias != p.Name {
			ix.registerAlias(alias, p.Name)
		}
	}

	cities := make([]models.Region, 0, len(store.Cities))
	cityCodes := make(map[string]bool)
	for _, c := range store.Cities {
		if c.Code == "" || c.Name == "" {
			continue
		}
		if _, ok := ix.provinceByCode[c.ParentCode]; !ok {
			continue
		}
		cities = append(cities, c)
		cityCodes[c.Code] = true
	}
	for _, p := range provinces {
		if !strings.HasSuffix(p.Name, municipalitySuffix) || cityCodes[p.Code] {
			continue
		}
		cities = append(cities, models.Region{
			Code:       p.Code,
			Name:       p.Name,
			Level:      models.LevelCity,
			ParentCode: p.Code,
			Longitude:  p.Longitude,
			Latitude:   p.Latitude,
		})
		cityCodes[p.Code] = true
	}
	// rows sharing a name are scanned in ascending code order
	sort.Slice(cities, func(i, j int) bool { return cities[i].Code < cities[j].Code })

	cityNameSets := make(map[string]map[string]bool)
	for _, c := range cities {
		ix.citiesByName[c.Name] = append(ix.citiesByName[c.Name], c)
		ix.provinceCodeByCity[c.Code] = c.ParentCode
		if cityNameSets[c.ParentCode] == nil {
			cityNameSets[c.ParentCode] = make(map[string]bool)
		}
		if !cityNameSets[c.ParentCode][c.Name] {
			cityNameSets[c.ParentCode][c.Name] = true
			ix.cityNamesByProvince[c.ParentCode] = append(ix.cityNamesByProvince[c.ParentCode], c.Name)
		}
	}

	districts := make([]models.Region, 0, len(store.Districts))
	for _, d := range store.Districts {
		if d.Code == "" || d.Name == "" {
			continue
		}
		if !cityCodes[d.ParentCode] {
			continue
		}
		districts = append(districts, d)
	}
	sort.Slice(districts, func(i, j int) bool { return districts[i].Code < districts[j].Code })

	for _, d := range districts {
		ix.districtsByName[d.Name] = append(ix.districtsByName[d.Name], d)
		ix.districtNamesByCity[d.ParentCode] = append(ix.districtNamesByCity[d.ParentCode], d.Name)
	}

	for alias := range ix.aliasToName {
		ix.provinceCandidates = append(ix.provinceCandidates, alias)
	}
	for name := range ix.citiesByName {
		ix.cityCandidates = append(ix.cityCandidates, name)
	}
	sortLongestFirst(ix.provinceCandidates)
	sortLongestFirst(ix.cityCandidates)
	for _, names := range ix.cityNamesByProvince {
		sortLongestFirst(names)
	}
	for _, names := range ix.districtNamesByCity {
		sortLongestFirst(names)
	}

	ix.searchKeywords = make([]string, 0, len(ix.provinceCandidates)+len(ix.cityCandidates))
	ix.searchKeywords = append(ix.searchKeywords, ix.provinceCandidates...)
	ix.searchKeywords = append(ix.searchKeywords, ix.cityCandidates...)

	return ix
}

// registerAlias records an alias -> canonical name mapping. On collision the
// earlier mapping wins, so the outcome is deterministic over the code-ordered
// province iteration.
func (ix *Index) registerAlias(alias, name string) {
	if existing, ok := ix.aliasToName[alias]; ok {
		if existing != name {
			log.Warn().
				Str("alias", alias).
				Str("kept", existing).
				Str("dropped", name).
				Msg("province alias collision")
		}
		return
	}
	ix.aliasToName[alias] = name
}

// cityRow finds the city with the given name inside the given province.
func (ix *Index) cityRow(name, provinceCode string) (models.Region, bool) {
	for _, c := range ix.citiesByName[name] {
		if ix.provinceCodeByCity[c.Code] == provinceCode {
			return c, true
		}
	}
	return models.Region{}, false
}

// districtRow finds the district with the given name inside the given city.
func (ix *Index) districtRow(name, cityCode string) (models.Region, bool) {
	for _, d := range ix.districtsByName[name] {
		if d.ParentCode == cityCode {
			return d, true
		}
	}
	return models.Region{}, false
}

// sortLongestFirst orders candidate names by descending rune count, breaking
// ties lexicographically so the order is deterministic.
func sortLongestFirst(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(names[i]), utf8.RuneCountInString(names[j])
		if li != lj {
			return li > lj
		}
		return names[i] < names[j]
	})
}

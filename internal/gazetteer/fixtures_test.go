package gazetteer

import "github.com/laicai0810/addr-parser-cn/internal/models"

// newTestStore builds a small synthetic gazetteer covering the interesting
// shapes: a municipality, a province with an ethnic-qualifier alias, two
// cities sharing a name in different provinces, and orphaned rows.
func newTestStore() *Store {
	return &Store{
		Provinces: []models.Region{
			{Code: "110000", Name: "北京市", Level: models.LevelProvince, Longitude: 116.405285, Latitude: 39.904989},
			{Code: "320000", Name: "江苏省", Level: models.LevelProvince, Longitude: 118.767413, Latitude: 32.041544},
			{Code: "330000", Name: "浙江省", Level: models.LevelProvince, Longitude: 120.153576, Latitude: 30.287459},
			{Code: "440000", Name: "广东省", Level: models.LevelProvince, Longitude: 113.280637, Latitude: 23.125178},
			{Code: "450000", Name: "广西壮族自治区", Level: models.LevelProvince, Longitude: 108.320004, Latitude: 22.82402},
		},
		Cities: []models.Region{
			{Code: "320500", Name: "同名市", Level: models.LevelCity, ParentCode: "320000"},
			{Code: "330400", Name: "嘉兴市", Level: models.LevelCity, ParentCode: "330000", Longitude: 120.750865, Latitude: 30.762653},
			{Code: "330500", Name: "同名市", Level: models.LevelCity, ParentCode: "330000"},
			{Code: "440100", Name: "广州市", Level: models.LevelCity, ParentCode: "440000", Longitude: 113.264385, Latitude: 23.12911},
			{Code: "440300", Name: "深圳市", Level: models.LevelCity, ParentCode: "440000", Longitude: 114.085947, Latitude: 22.547},
			{Code: "450100", Name: "南宁市", Level: models.LevelCity, ParentCode: "450000", Longitude: 108.320004, Latitude: 22.82402},
			// orphan: parent province does not exist
			{Code: "990100", Name: "孤儿市", Level: models.LevelCity, ParentCode: "999999"},
		},
		Districts: []models.Region{
			// municipality district parented directly on the province code
			{Code: "110105", Name: "朝阳区", Level: models.LevelDistrict, ParentCode: "110000", Longitude: 116.443108, Latitude: 39.92147},
			{Code: "320501", Name: "西湖区", Level: models.LevelDistrict, ParentCode: "320500"},
			{Code: "330402", Name: "南湖区", Level: models.LevelDistrict, ParentCode: "330400", Longitude: 120.783025, Latitude: 30.747842},
			{Code: "330501", Name: "东风区", Level: models.LevelDistrict, ParentCode: "330500"},
			{Code: "440106", Name: "天河区", Level: models.LevelDistrict, ParentCode: "440100", Longitude: 113.361575, Latitude: 23.12463},
			{Code: "440305", Name: "南山区", Level: models.LevelDistrict, ParentCode: "440300", Longitude: 113.930413, Latitude: 22.533287},
			{Code: "450103", Name: "青秀区", Level: models.LevelDistrict, ParentCode: "450100", Longitude: 108.494024, Latitude: 22.785879},
			// orphan: its parent city is itself an orphan and gets dropped
			{Code: "990101", Name: "孤儿区", Level: models.LevelDistrict, ParentCode: "990100"},
		},
	}
}

func newTestResolver() *Resolver {
	return NewResolver(NewIndex(newTestStore()))
}

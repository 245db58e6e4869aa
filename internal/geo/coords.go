// Package geo resolves country/province names against a local coordinate
// table. The map page only offers places from this table, so a lookup miss
// means the client sent something the UI never shows.
package geo

// place keys are "country/province"; values are approximate centroids.
var coords = map[string][2]float64{
	"中国/北京":  {39.9042, 116.4074},
	"中国/天津":  {39.3434, 117.3616},
	"中国/上海":  {31.2304, 121.4737},
	"中国/重庆":  {29.5630, 106.5516},
	"中国/河北":  {38.0428, 114.5149},
	"中国/山西":  {37.8706, 112.5489},
	"中国/辽宁":  {41.8057, 123.4315},
	"中国/吉林":  {43.8868, 125.3245},
	"中国/黑龙江": {45.8038, 126.5349},
	"中国/江苏":  {32.0603, 118.7969},
	"中国/浙江":  {30.2741, 120.1551},
	"中国/安徽":  {31.8612, 117.2844},
	"中国/福建":  {26.0745, 119.2965},
	"中国/江西":  {28.6820, 115.8579},
	"中国/山东":  {36.6512, 117.1201},
	"中国/河南":  {34.7657, 113.7532},
	"中国/湖北":  {30.5928, 114.3055},
	"中国/湖南":  {28.2282, 112.9388},
	"中国/广东":  {23.1291, 113.2644},
	"中国/广西":  {22.8150, 108.3275},
	"中国/海南":  {20.0174, 110.3492},
	"中国/四川":  {30.5728, 104.0668},
	"中国/贵州":  {26.5982, 106.7074},
	"中国/云南":  {25.0453, 102.7097},
	"中国/西藏":  {29.6465, 91.1172},
	"中国/陕西":  {34.3416, 108.9398},
	"中国/甘肃":  {36.0611, 103.8343},
	"中国/青海":  {36.6171, 101.7782},
	"中国/宁夏":  {38.4872, 106.2309},
	"中国/新疆":  {43.7930, 87.6271},
	"中国/内蒙古": {40.8183, 111.6585},
	"中国/香港":  {22.3193, 114.1694},
	"中国/澳门":  {22.1987, 113.5439},
	"中国/台湾":  {25.0330, 121.5654},

	"日本/东京":   {35.6762, 139.6503},
	"韩国/首尔":   {37.5665, 126.9780},
	"新加坡/新加坡": {1.3521, 103.8198},
	"美国/加州":   {36.7783, -119.4179},
	"美国/纽约":   {40.7128, -74.0060},
	"英国/伦敦":   {51.5074, -0.1278},
	"澳大利亚/悉尼": {-33.8688, 151.2093},
	"加拿大/多伦多": {43.6532, -79.3832},
}

// Coordinates returns the centroid for a country/province pair.
// Parameters:
//   - country, province: place names as shown in the UI pickers.
// Returns:
//   - lat, lng: coordinates when found.
//   - ok: false when the pair is not in the table.
func Coordinates(country, province string) (lat, lng float64, ok bool) {
	c, ok := coords[country+"/"+province]
	if !ok {
		return 0, 0, false
	}
	return c[0], c[1], true
}

package countries

// Country is a static reference entry: one tracked country with the
// coordinates the dashboard uses to place it on the globe.
type Country struct {
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Region string  `json:"region"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
}

// regionTable groups the tracked countries by region. Region fields are
// filled in during init so the table stays readable.
var regionTable = map[string][]Country{
	"North America": {
		{Code: "US", Name: "United States", Lat: 38, Lon: -97},
		{Code: "CA", Name: "Canada", Lat: 56, Lon: -96},
		{Code: "MX", Name: "Mexico", Lat: 23, Lon: -102},
	},
	"Europe": {
		{Code: "GB", Name: "United Kingdom", Lat: 54, Lon: -2},
		{Code: "IE", Name: "Ireland", Lat: 53, Lon: -8},
		{Code: "FR", Name: "France", Lat: 46, Lon: 2},
		{Code: "DE", Name: "Germany", Lat: 51, Lon: 10},
		{Code: "NL", Name: "Netherlands", Lat: 52, Lon: 5},
		{Code: "BE", Name: "Belgium", Lat: 50.5, Lon: 4.5},
		{Code: "LU", Name: "Luxembourg", Lat: 49.8, Lon: 6.1},
		{Code: "CH", Name: "Switzerland", Lat: 46.8, Lon: 8.3},
		{Code: "AT", Name: "Austria", Lat: 47.5, Lon: 14.5},
		{Code: "ES", Name: "Spain", Lat: 40, Lon: -3},
		{Code: "PT", Name: "Portugal", Lat: 39.5, Lon: -8},
		{Code: "IT", Name: "Italy", Lat: 42.8, Lon: 12.8},
		{Code: "SE", Name: "Sweden", Lat: 60, Lon: 17},
		{Code: "NO", Name: "Norway", Lat: 60.5, Lon: 8.5},
		{Code: "FI", Name: "Finland", Lat: 64, Lon: 26},
		{Code: "DK", Name: "Denmark", Lat: 56, Lon: 10},
		{Code: "IS", Name: "Iceland", Lat: 64, Lon: -19},
		{Code: "PL", Name: "Poland", Lat: 52, Lon: 19},
		{Code: "CZ", Name: "Czechia", Lat: 49.8, Lon: 15.5},
		{Code: "SK", Name: "Slovakia", Lat: 48.7, Lon: 19.5},
		{Code: "HU", Name: "Hungary", Lat: 47.2, Lon: 19.5},
		{Code: "SI", Name: "Slovenia", Lat: 46.1, Lon: 14.8},
		{Code: "HR", Name: "Croatia", Lat: 45.1, Lon: 15.2},
		{Code: "BA", Name: "Bosnia and Herzegovina", Lat: 44.2, Lon: 17.7},
		{Code: "RS", Name: "Serbia", Lat: 44, Lon: 20.5},
		{Code: "BG", Name: "Bulgaria", Lat: 42.8, Lon: 25},
		{Code: "RO", Name: "Romania", Lat: 45.9, Lon: 24.9},
		{Code: "GR", Name: "Greece", Lat: 39, Lon: 22},
	},
	"Middle East": {
		{Code: "TR", Name: "Turkey", Lat: 39, Lon: 35},
		{Code: "SA", Name: "Saudi Arabia", Lat: 24, Lon: 45},
		{Code: "EG", Name: "Egypt", Lat: 26, Lon: 30},
		{Code: "SY", Name: "Syria", Lat: 35, Lon: 38},
		{Code: "PS", Name: "Palestine", Lat: 31.9, Lon: 35.2},
		{Code: "JO", Name: "Jordan", Lat: 31, Lon: 36},
		{Code: "LB", Name: "Lebanon", Lat: 33.8, Lon: 35.8},
	},
	"Southeast Asia": {
		{Code: "MY", Name: "Malaysia", Lat: 4, Lon: 102},
		{Code: "SG", Name: "Singapore", Lat: 1.35, Lon: 103.8},
		{Code: "ID", Name: "Indonesia", Lat: -2, Lon: 118},
		{Code: "TH", Name: "Thailand", Lat: 15, Lon: 101},
		{Code: "BN", Name: "Brunei", Lat: 4.5, Lon: 114.7},
		{Code: "PH", Name: "Philippines", Lat: 12, Lon: 122},
	},
	"East Asia": {
		{Code: "CN", Name: "China", Lat: 35, Lon: 105},
		{Code: "JP", Name: "Japan", Lat: 36, Lon: 138},
		{Code: "KR", Name: "South Korea", Lat: 36, Lon: 128},
		{Code: "TW", Name: "Taiwan", Lat: 23.7, Lon: 121},
	},
}

var all []Country

func init() {
	for region, list := range regionTable {
		for i := range list {
			list[i].Region = region
			all = append(all, list[i])
		}
	}
}

// All returns every tracked country with its region filled in.
// The returned slice must not be mutated.
func All() []Country {
	return all
}

// ByRegion returns the tracked countries grouped by region.
func ByRegion() map[string][]Country {
	return regionTable
}

package taxonomy

// AfricanCountries is the continental roster used for serial numbers and
// coverage denominators. The order is load-bearing: serials are positions.
var AfricanCountries = []string{
	"Algeria", "Angola", "Benin", "Botswana", "Burkina Faso", "Burundi",
	"Cameroon", "Cape Verde", "Central African Republic", "Chad", "Comoros",
	"Congo Democratic Republic", "Congo Republic", "Cote d'Ivoire",
	"Djibouti", "Egypt", "Equatorial Guinea", "Eritrea", "Eswatini", "Ethiopia",
	"Gabon", "Gambia", "Ghana", "Guinea", "Guinea Bissau", "Kenya", "Lesotho",
	"Liberia", "Libya", "Madagascar", "Malawi", "Mali", "Mauritania", "Mauritius",
	"Morocco", "Mozambique", "Namibia", "Niger", "Nigeria", "Rwanda",
	"Sao Tome and Principe", "Senegal", "Seychelles", "Sierra Leone", "Somalia",
	"South Africa", "South Sudan", "Sudan", "Tanzania", "Togo", "Tunisia",
	"Uganda", "Zambia", "Zimbabwe",
}

// DefaultIndicatorTable returns the canonical indicator taxonomy. Keys are
// the exact raw labels used by the Africa Energy Portal dataset.
func DefaultIndicatorTable() map[string]Mapping {
	return map[string]Mapping{
		"Population access to electricity-National (% of population)": {
			Metric:       "Electricity Access Rate",
			Unit:         "%",
			Sector:       "Power",
			SubSector:    "Access",
			SubSubSector: "National",
		},
		"Energy: Population with access to clean cooking fuels (% of population)": {
			Metric:       "Clean Cooking Access Rate",
			Unit:         "%",
			Sector:       "Energy",
			SubSector:    "Access",
			SubSubSector: "Clean Cooking",
		},
		"Energy: Population without access to clean cooking fuels (millions of people)": {
			Metric:       "Clean Cooking Access Gap",
			Unit:         "millions",
			Sector:       "Energy",
			SubSector:    "Access Gap",
			SubSubSector: "Clean Cooking",
		},
		"Energy intensity level of primary energy (MJ/2017 PPP GDP)": {
			Metric:       "Energy Intensity",
			Unit:         "MJ/2017 PPP GDP",
			Sector:       "Energy Efficiency",
			SubSector:    "Intensity",
			SubSubSector: "Primary Energy",
		},
	}
}

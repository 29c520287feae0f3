package activity

// FormatRule says how a city label is rendered for a country.
type FormatRule int

const (
	FormatCityOnly        FormatRule = iota // "Manchester"
	FormatCityCommaRegion                   // "Austin, TX"
	FormatCityParenRegion                   // "Toronto (ON)"
)

type City struct {
	Name   string
	Region string
	Weight float64
}

type Country struct {
	Code   string
	Name   string
	Weight float64
	Format FormatRule
	Cities []City
}

// Label renders the display label for c in this country.
func (c Country) Label(city City) string {
	if city.Region == "" {
		return city.Name
	}
	switch c.Format {
	case FormatCityCommaRegion:
		return city.Name + ", " + city.Region
	case FormatCityParenRegion:
		return city.Name + " (" + city.Region + ")"
	default:
		return city.Name
	}
}

var Countries = []Country{
	{
		Code: "US", Name: "United States", Weight: 34, Format: FormatCityCommaRegion,
		Cities: []City{
			{"New York", "NY", 5}, {"Houston", "TX", 3}, {"Austin", "TX", 2},
			{"Chicago", "IL", 3}, {"Los Angeles", "CA", 4}, {"San Diego", "CA", 2},
			{"Atlanta", "GA", 2}, {"Boston", "MA", 2}, {"Phoenix", "AZ", 1},
			{"Seattle", "WA", 1}, {"Miami", "FL", 2},
		},
	},
	{
		Code: "GB", Name: "United Kingdom", Weight: 18, Format: FormatCityOnly,
		Cities: []City{
			{"London", "", 6}, {"Manchester", "", 3}, {"Birmingham", "", 3},
			{"Leeds", "", 2}, {"Glasgow", "", 2}, {"Bristol", "", 1},
			{"Nottingham", "", 1}, {"Coventry", "", 1},
		},
	},
	{
		Code: "CA", Name: "Canada", Weight: 12, Format: FormatCityParenRegion,
		Cities: []City{
			{"Toronto", "ON", 5}, {"Vancouver", "BC", 3}, {"Montreal", "QC", 2},
			{"Calgary", "AB", 2}, {"Ottawa", "ON", 1}, {"Waterloo", "ON", 1},
		},
	},
	{
		Code: "AU", Name: "Australia", Weight: 11, Format: FormatCityCommaRegion,
		Cities: []City{
			{"Sydney", "NSW", 5}, {"Melbourne", "VIC", 5}, {"Brisbane", "QLD", 2},
			{"Perth", "WA", 2}, {"Adelaide", "SA", 1},
		},
	},
	{
		Code: "AE", Name: "United Arab Emirates", Weight: 8, Format: FormatCityOnly,
		Cities: []City{
			{"Dubai", "", 6}, {"Abu Dhabi", "", 3}, {"Sharjah", "", 1},
		},
	},
	{
		Code: "IE", Name: "Ireland", Weight: 5, Format: FormatCityOnly,
		Cities: []City{
			{"Dublin", "", 5}, {"Cork", "", 2}, {"Galway", "", 1},
		},
	},
	{
		Code: "NZ", Name: "New Zealand", Weight: 4, Format: FormatCityOnly,
		Cities: []City{
			{"Auckland", "", 4}, {"Wellington", "", 2}, {"Christchurch", "", 1},
		},
	},
	{
		Code: "SG", Name: "Singapore", Weight: 4, Format: FormatCityOnly,
		Cities: []City{
			{"Singapore", "", 1},
		},
	},
	{
		Code: "IN", Name: "India", Weight: 4, Format: FormatCityParenRegion,
		Cities: []City{
			{"Bengaluru", "KA", 3}, {"Mumbai", "MH", 3}, {"New Delhi", "DL", 3},
			{"Pune", "MH", 1}, {"Hyderabad", "TG", 2},
		},
	},
}

var Subjects = []string{
	"Nursing",
	"Business Management",
	"Psychology",
	"Computer Science",
	"Economics",
	"Marketing",
	"Finance",
	"Law",
	"Sociology",
	"English Literature",
	"History",
	"Biology",
	"Statistics",
	"Education",
	"Engineering",
	"Public Health",
	"Political Science",
	"Accounting",
}

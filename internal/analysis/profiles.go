package analysis

import "strings"

// Profile describes the typical shape of one business format.
type Profile struct {
	Key   string
	Label string
	// Typical budget range in lakh.
	BudgetLow, BudgetHigh float64
	// Typical seating range; a zero high bound means seating is not a factor.
	SeatingLow, SeatingHigh int
	// POITags select competing points of interest, e.g. amenity=cafe.
	POITags map[string]string
}

// DefaultProfileKey is used for risk and POI tags when a project type is unknown.
const DefaultProfileKey = "cafe"

var profiles = map[string]Profile{
	"cafe": {
		Key: "cafe", Label: "Cafe",
		BudgetLow: 8, BudgetHigh: 25,
		SeatingLow: 15, SeatingHigh: 60,
		POITags: map[string]string{"amenity": "cafe"},
	},
	"gym": {
		Key: "gym", Label: "Gym / Fitness",
		BudgetLow: 30, BudgetHigh: 120,
		POITags: map[string]string{"leisure": "fitness_centre"},
	},
	"stationery": {
		Key: "stationery", Label: "Stationery / Print",
		BudgetLow: 3, BudgetHigh: 12,
		POITags: map[string]string{"shop": "stationery"},
	},
	"hostel_mess": {
		Key: "hostel_mess", Label: "Hostel Mess",
		BudgetLow: 10, BudgetHigh: 40,
		SeatingLow: 40, SeatingHigh: 200,
		POITags: map[string]string{"amenity": "restaurant"},
	},
}

// NormalizeProjectKey lower-cases and trims a project type and maps spaces
// and hyphens to underscores, so "Hostel Mess" and "hostel-mess" both
// become "hostel_mess".
func NormalizeProjectKey(projectType string) string {
	k := strings.ToLower(strings.TrimSpace(projectType))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(k)
}

// LookupProfile returns the profile for projectType and whether it is known.
func LookupProfile(projectType string) (Profile, bool) {
	p, ok := profiles[NormalizeProjectKey(projectType)]
	return p, ok
}

// ProfileFor returns the profile for projectType, falling back to the cafe
// profile for unknown types.
func ProfileFor(projectType string) Profile {
	if p, ok := LookupProfile(projectType); ok {
		return p
	}
	return profiles[DefaultProfileKey]
}

// Label returns the display label for projectType, or "business" when the
// type is unknown.
func Label(projectType string) string {
	if p, ok := LookupProfile(projectType); ok {
		return p.Label
	}
	return "business"
}

package analysis

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Narrative sentences emitted by ProsCons.
const (
	ProStrongDemand     = "Strong local demand near the chosen spot."
	ProLowSaturation    = "Low saturation\u2014clear headroom for growth."
	ProManageableRisk   = "Operational risk appears manageable."
	ConWeakDemand       = "Weak customer base; consider moving closer to footfall."
	ConHeavyCompetition = "Heavy competition within the catchment."
	ConElevatedRisk     = "Operational risk (budget, hours, or seasonality) is elevated."

	ConCafeCrowded    = "Many cafés nearby\u2014focus on niche (breakfast/late-night)."
	ProCafeFit        = "Cafe format fits student/office crowd in this area."
	ProGymInterest    = "Good fitness interest; group classes could work."
	ProStationeryNear = "Proximity to campus/offices favors stationery/print demand."
	ProMessDensity    = "Student density favors mess/meal plans."
)

// NarrativeInput collects the inputs to ProsCons.
type NarrativeInput struct {
	ProjectType string
	Demand      int
	Risk        int
	Competition int
	City        string
	RadiusM     int
}

// ProsCons turns the scores into short advantages and drawbacks. The last
// pro always names the analysed radius.
func ProsCons(in NarrativeInput) (pros, cons []string) {
	pros = []string{}
	cons = []string{}

	if in.Demand >= 65 {
		pros = append(pros, ProStrongDemand)
	}
	if in.Competition <= 35 {
		pros = append(pros, ProLowSaturation)
	}
	if in.Risk <= 40 {
		pros = append(pros, ProManageableRisk)
	}

	if in.Demand < 45 {
		cons = append(cons, ConWeakDemand)
	}
	if in.Competition > 70 {
		cons = append(cons, ConHeavyCompetition)
	}
	if in.Risk > 65 {
		cons = append(cons, ConElevatedRisk)
	}

	key := NormalizeProjectKey(in.ProjectType)
	if strings.Contains(key, "cafe") {
		if in.Competition > 60 {
			cons = append(cons, ConCafeCrowded)
		} else {
			pros = append(pros, ProCafeFit)
		}
	}
	if strings.Contains(key, "gym") && in.Demand >= 60 {
		pros = append(pros, ProGymInterest)
	}
	if strings.Contains(key, "stationery") {
		pros = append(pros, ProStationeryNear)
	}
	if strings.Contains(key, "hostel_mess") && in.Demand >= 55 {
		pros = append(pros, ProMessDensity)
	}

	pros = append(pros, RadiusSentence(in.RadiusM, in.City))
	return pros, cons
}

// RadiusSentence reports the analysed radius and, when known, the city.
func RadiusSentence(radiusM int, city string) string {
	if city == "" {
		return fmt.Sprintf("Radius %d m analyzed.", radiusM)
	}
	return fmt.Sprintf("Radius %d m analyzed in %s.", radiusM, city)
}

// Summary renders the one-line feasibility headline. meanDensity is
// appended, to one decimal, only when a density reading was used.
func Summary(projectType, city string, demand, risk, competition int, meanDensity *float64) string {
	if city == "" {
		city = "this area"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Feasibility for a %s in %s: demand %d, risk %d, competition %d",
		cases.Lower(language.English).String(Label(projectType)), city, demand, risk, competition)
	if meanDensity != nil {
		fmt.Fprintf(&b, " (mean density: %.1f)", *meanDensity)
	}
	b.WriteString(".")
	return b.String()
}

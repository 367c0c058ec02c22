package insight

// Stat is a labelled display value.
type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Demographics returns placeholder catchment demographics shown until a
// census source is connected.
func Demographics() []Stat {
	return []Stat{
		{Label: "Students", Value: "High (campus-adjacent)"},
		{Label: "Age 18–25", Value: "45%"},
		{Label: "Age 26–40", Value: "32%"},
		{Label: "Median Income", Value: "₹28k/month (est.)"},
	}
}

// Spending returns placeholder spending estimates.
func Spending() []Stat {
	return []Stat{
		{Label: "Avg. Ticket Size", Value: "₹180–₹250"},
		{Label: "Monthly Spend / Person", Value: "₹3.2k (est.)"},
	}
}

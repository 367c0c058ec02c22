package model

// Scores is the three-signal record produced by the analysis backend.
// Each field is nominally in [0,100] but producers are not trusted to
// respect that range.
type Scores struct {
	Demand      float64 `json:"demand" yaml:"demand"`
	Risk        float64 `json:"risk" yaml:"risk"`
	Competition float64 `json:"competition" yaml:"competition"`
}

package models

// PropProbability is the model probability for one side of a player prop
type PropProbability struct {
	PlayerName       string   `json:"player_name"`
	PlayerExternalID int64    `json:"player_external_id"`
	PropName         string   `json:"prop_name"`
	MarketKey        string   `json:"market_key"`
	Side             string   `json:"side"`
	Point            *float64 `json:"point,omitempty"`
	Probability      float64  `json:"probability"`
	Distribution     string   `json:"distribution"`
	WeightedMean     float64  `json:"weighted_mean"`
	SampleSize       int      `json:"sample_size"`
}

// ValueOpportunity pairs a model probability with a sportsbook price
type ValueOpportunity struct {
	PropProbability
	EventID            string  `json:"event_id"`
	Bookmaker          string  `json:"bookmaker"`
	Price              float64 `json:"price"`
	ImpliedProbability float64 `json:"implied_probability"`
	FairProbability    float64 `json:"fair_probability"`
	Edge               float64 `json:"edge"`
	ExpectedValue      float64 `json:"expected_value"`
	Rank               int     `json:"rank"`
}

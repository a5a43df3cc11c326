package models

// PredictionContext is the input sent to the external risk-prediction
// service. Location is the only field the alerting pipeline itself needs;
// the rest are auxiliary signals for the model.
type PredictionContext struct {
	Location           string   `json:"location"`
	SymptomCount       int      `json:"symptomCount,omitempty"`
	SevereCaseCount    int      `json:"severeCaseCount,omitempty"`
	PH                 *float64 `json:"pH,omitempty"`
	Turbidity          *float64 `json:"turbidity,omitempty"`
	ContaminationLevel *float64 `json:"contaminationLevel,omitempty"`
}

// RiskResult is the prediction collaborator's output.
type RiskResult struct {
	RiskLevel      float64  `json:"risk_level"`
	RiskCategory   string   `json:"risk_category"`
	Factors        []string `json:"factors"`
	PredictionDate string   `json:"prediction_date,omitempty"`
}

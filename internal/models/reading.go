package models

import "time"

type CaseSeverity string

const (
	CaseSeverityMild     CaseSeverity = "mild"
	CaseSeverityModerate CaseSeverity = "moderate"
	CaseSeveritySevere   CaseSeverity = "severe"
)

func (s CaseSeverity) Valid() bool {
	switch s {
	case CaseSeverityMild, CaseSeverityModerate, CaseSeveritySevere:
		return true
	}
	return false
}

// WaterReading is a single sensor sample. Immutable once stored.
type WaterReading struct {
	ID                 string   `json:"id"`
	SensorID           string   `json:"sensorId" binding:"required"`
	Location           string   `json:"location" binding:"required"`
	PH                 float64  `json:"pH" binding:"min=0,max=14"`
	Turbidity          float64  `json:"turbidity" binding:"min=0"`
	ContaminationLevel float64  `json:"contaminationLevel" binding:"min=0"`
	Temperature        *float64 `json:"temperature,omitempty"`
	Timestamp          time.Time `json:"timestamp"`
}

// HealthCase is a manually reported case. Immutable once stored.
type HealthCase struct {
	ID         string       `json:"id"`
	PatientID  string       `json:"patientId" binding:"required"`
	Location   string       `json:"location" binding:"required"`
	Symptoms   []string     `json:"symptoms"`
	Disease    string       `json:"disease,omitempty"`
	Severity   CaseSeverity `json:"severity" binding:"required"`
	Age        *int         `json:"age,omitempty"`
	Gender     string       `json:"gender,omitempty"`
	ReportedBy string       `json:"reportedBy,omitempty"`
	Timestamp  time.Time    `json:"timestamp"`
}

// DedupSymptoms collapses duplicate symptom tags, keeping first-seen order.
func DedupSymptoms(symptoms []string) []string {
	if len(symptoms) == 0 {
		return symptoms
	}
	seen := make(map[string]struct{}, len(symptoms))
	out := symptoms[:0]
	for _, s := range symptoms {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

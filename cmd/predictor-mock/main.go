// predictor-mock stands in for the external risk-prediction service during
// local development. It returns a random risk level with matching
// contributing factors.
package main

import (
	"encoding/json"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"
)

type riskResponse struct {
	RiskLevel      float64  `json:"risk_level"`
	RiskCategory   string   `json:"risk_category"`
	Factors        []string `json:"factors"`
	PredictionDate string   `json:"prediction_date"`
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	http.HandleFunc("/predict", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		risk := 0.1 + rand.Float64()*0.8

		var category string
		var factors []string
		switch {
		case risk > 0.7:
			category = "high"
			factors = []string{"High contamination levels", "Multiple severe cases", "Weather conditions"}
		case risk > 0.4:
			category = "medium"
			factors = []string{"Elevated pH levels", "Recent cases in area"}
		default:
			category = "low"
			factors = []string{"Normal conditions"}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(riskResponse{
			RiskLevel:      risk,
			RiskCategory:   category,
			Factors:        factors,
			PredictionDate: time.Now().Format(time.RFC3339),
		}); err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	})

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	log.Printf("Mock predictor listening on :%s", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

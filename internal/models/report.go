package models

// ProlongedStayStat is one diagnosis code's slice of the prolonged-stay
// report for a ward. A stay counts as prolonged when its length of stay
// exceeds the 90th-percentile norm for its diagnosis code.
type ProlongedStayStat struct {
	DiagnosisCode    string  `json:"diagnosis_code"`
	Cases            int     `json:"cases"`
	MeanProlongedLOS float64 `json:"mean_prolonged_los"`
	MeanNormLOS      float64 `json:"mean_norm_los"`
	AgeMean          float64 `json:"age_mean"`
	AgeSD            float64 `json:"age_sd"`
	// PctOfWard is the share of prolonged cases among all closed
	// admissions in the ward; PctOfCode among admissions with the
	// same diagnosis code. Both in percent.
	PctOfWard float64 `json:"pct_of_ward"`
	PctOfCode float64 `json:"pct_of_code"`
}

// ReadmissionStat is one diagnosis code's slice of the 14-day
// readmission report for a ward.
type ReadmissionStat struct {
	DiagnosisCode string  `json:"diagnosis_code"`
	Cases         int     `json:"cases"`
	AgeMean       float64 `json:"age_mean"`
	AgeSD         float64 `json:"age_sd"`
}

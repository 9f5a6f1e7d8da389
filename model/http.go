package model

import "time"

type AnalyzeResponse struct {
	ID     string          `json:"id"`
	Report *AnalysisReport `json:"report"`
}

type StoredReport struct {
	ID        string          `json:"id"`
	Filename  string          `json:"filename"`
	CreatedAt time.Time       `json:"created_at"`
	Report    *AnalysisReport `json:"report"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}

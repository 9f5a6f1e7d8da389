// Package db keeps analysis reports so they can be fetched again by id.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jsphweid/harmonycheck/constants"
	"github.com/jsphweid/harmonycheck/model"
)

var ErrNotFound = errors.New("report not found")

type ReportStore interface {
	Put(ctx context.Context, r *model.StoredReport) error
	Get(ctx context.Context, id string) (*model.StoredReport, error)
}

// NewStoredReport wraps a report with a fresh id.
func NewStoredReport(r *model.AnalysisReport) *model.StoredReport {
	return &model.StoredReport{
		ID:        uuid.NewString(),
		Filename:  r.Filename,
		CreatedAt: time.Now().UTC(),
		Report:    r,
	}
}

// ValidID reports whether id could have come from NewStoredReport.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// NewFromEnv builds the store selected by REPORT_STORE.
func NewFromEnv() (ReportStore, error) {
	ttl := time.Duration(constants.GetReportTTLMinutes()) * time.Minute
	switch constants.GetReportStore() {
	case "memory":
		return NewMemoryStore(ttl, constants.GetMaxReports()), nil
	case "dynamo":
		return NewDynamoStore(constants.GetDynamoEndpoint(), constants.GetDynamoRegion(), constants.GetReportTable(), ttl)
	default:
		return nil, fmt.Errorf("unknown report store %q", constants.GetReportStore())
	}
}

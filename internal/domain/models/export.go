package models

import (
	"strings"
	"time"
)

// ExportFormat enumerates the formats the registry can be exported to.
type ExportFormat string

const (
	ExportExcel ExportFormat = "Excel"
	ExportPDF   ExportFormat = "PDF"
)

// ParseExportFormat matches a format case-insensitively.
func ParseExportFormat(value string) (ExportFormat, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "excel", "xlsx":
		return ExportExcel, true
	case "pdf":
		return ExportPDF, true
	}
	return "", false
}

// ExportStatus is the lifecycle of an export job.
type ExportStatus string

const (
	ExportPending ExportStatus = "pending"
	ExportDone    ExportStatus = "done"
	ExportFailed  ExportStatus = "failed"
)

// ExportJob tracks one export request.
type ExportJob struct {
	ID          string       `json:"id"`
	Format      ExportFormat `json:"format"`
	Status      ExportStatus `json:"status"`
	RowCount    int          `json:"rowCount"`
	Filename    string       `json:"filename,omitempty"`
	Error       string       `json:"error,omitempty"`
	RequestedAt time.Time    `json:"requestedAt"`
	CompletedAt *time.Time   `json:"completedAt,omitempty"`
	Size        int          `json:"size"`
}

// ExportRecord is the archived summary of a finished export job.
type ExportRecord struct {
	JobID       string       `bson:"job_id" json:"jobId"`
	Format      ExportFormat `bson:"format" json:"format"`
	Status      ExportStatus `bson:"status" json:"status"`
	RowCount    int          `bson:"row_count" json:"rowCount"`
	Size        int          `bson:"size" json:"size"`
	RequestedAt time.Time    `bson:"requested_at" json:"requestedAt"`
	CompletedAt time.Time    `bson:"completed_at" json:"completedAt"`
}

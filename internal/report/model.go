// File: internal/report/model.go
package report

import (
	"time"

	"miniblocket_backend/internal/common"

	"github.com/google/uuid"
)

// ReportStatus tracks where a report is in its handling lifecycle.
type ReportStatus string

const (
	StatusPending   ReportStatus = "pending"
	StatusDismissed ReportStatus = "dismissed"
	StatusResolved  ReportStatus = "resolved"
)

// Report is a user complaint about a listing.
type Report struct {
	common.BaseModel
	ListingID  uuid.UUID    `gorm:"type:uuid;not null;index" json:"listing_id"`
	ReporterID uuid.UUID    `gorm:"type:uuid;not null" json:"reporter_id"`
	Reason     string       `gorm:"type:varchar(100);not null" json:"reason"`
	Details    string       `gorm:"type:text" json:"details,omitempty"`
	Status     ReportStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	HandledBy  *uuid.UUID   `gorm:"type:uuid" json:"handled_by,omitempty"`
	HandledAt  *time.Time   `json:"handled_at,omitempty"`
}

// TableName specifies the table name for GORM.
func (Report) TableName() string {
	return "reports"
}

// CreateReportRequest is the payload for submitting a report.
type CreateReportRequest struct {
	ListingID uuid.UUID `json:"listing_id" binding:"required"`
	Reason    string    `json:"reason" binding:"required,max=100"`
	Details   string    `json:"details" binding:"omitempty,max=2000"`
}

// ReportResponse is the API shape of a report.
type ReportResponse struct {
	ID         uuid.UUID    `json:"id"`
	ListingID  uuid.UUID    `json:"listing_id"`
	ReporterID uuid.UUID    `json:"reporter_id"`
	Reason     string       `json:"reason"`
	Details    string       `json:"details,omitempty"`
	Status     ReportStatus `json:"status"`
	HandledBy  *uuid.UUID   `json:"handled_by,omitempty"`
	HandledAt  *time.Time   `json:"handled_at,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}

// ToReportResponse maps a Report to its API representation.
func ToReportResponse(r *Report) ReportResponse {
	return ReportResponse{
		ID:         r.ID,
		ListingID:  r.ListingID,
		ReporterID: r.ReporterID,
		Reason:     r.Reason,
		Details:    r.Details,
		Status:     r.Status,
		HandledBy:  r.HandledBy,
		HandledAt:  r.HandledAt,
		CreatedAt:  r.CreatedAt,
	}
}

package mapping

import (
	"github.com/tempusworks/timesheet_app/internal/core/domain"
	"github.com/tempusworks/timesheet_app/internal/models"
)

// ToModelTimeEntry converts a domain TimeEntry to a model TimeEntry
func ToModelTimeEntry(d domain.TimeEntry) models.TimeEntry {
	return models.TimeEntry{
		EntryID:         d.EntryID,
		CompanyID:       d.CompanyID,
		ProjectID:       d.ProjectID,
		TaskID:          d.TaskID,
		UserID:          d.UserID,
		Description:     d.Description,
		DurationHours:   d.DurationHours,
		WorkDate:        d.WorkDate,
		Billable:        d.Billable,
		BillRate:        d.BillRate,
		Status:          models.EntryStatus(d.Status),
		ApproverID:      d.ApproverID,
		DecidedAt:       d.DecidedAt,
		RejectionReason: d.RejectionReason,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTimeEntry converts a model TimeEntry to a domain TimeEntry
func ToDomainTimeEntry(m models.TimeEntry) domain.TimeEntry {
	return domain.TimeEntry{
		EntryID:         m.EntryID,
		CompanyID:       m.CompanyID,
		ProjectID:       m.ProjectID,
		TaskID:          m.TaskID,
		UserID:          m.UserID,
		Description:     m.Description,
		DurationHours:   m.DurationHours,
		WorkDate:        m.WorkDate,
		Billable:        m.Billable,
		BillRate:        m.BillRate,
		Status:          domain.EntryStatus(m.Status),
		ApproverID:      m.ApproverID,
		DecidedAt:       m.DecidedAt,
		RejectionReason: m.RejectionReason,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
		ProjectName:     m.ProjectName,
		OwnerName:       m.OwnerName,
	}
}

// ToDomainTimeEntrySlice converts a slice of model TimeEntries to domain TimeEntries
func ToDomainTimeEntrySlice(ms []models.TimeEntry) []domain.TimeEntry {
	ds := make([]domain.TimeEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTimeEntry(m)
	}
	return ds
}

package domain

// Project is a billing/reporting bucket that time entries are logged against.
type Project struct {
	ProjectID   string `json:"projectID"` // Primary Key (e.g., UUID)
	CompanyID   string `json:"companyID"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsArchived  bool   `json:"isArchived"` // Archived projects accept no new entries
	AuditFields
}

// Task is an optional subdivision of a project.
type Task struct {
	TaskID    string `json:"taskID"` // Primary Key (e.g., UUID)
	ProjectID string `json:"projectID"`
	Name      string `json:"name"`
	AuditFields
}

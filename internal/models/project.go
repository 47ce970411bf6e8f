package models

// Project represents a billable engagement row within a company.
type Project struct {
	ProjectID   string `json:"projectID" db:"project_id"`
	CompanyID   string `json:"companyID" db:"company_id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	IsArchived  bool   `json:"isArchived" db:"is_archived"`
	AuditFields
}

// Task represents a sub-unit of work under a project.
type Task struct {
	TaskID    string `json:"taskID" db:"task_id"`
	ProjectID string `json:"projectID" db:"project_id"`
	Name      string `json:"name" db:"name"`
	AuditFields
}

package models

import "time"

// Task states, mirroring the states the ingestion pipeline reports.
const (
	TaskPending = "PENDING"
	TaskStarted = "STARTED"
	TaskSuccess = "SUCCESS"
	TaskFailure = "FAILURE"
)

// Task records a single background operation (typically the consumption of
// one file) for display and acknowledgement in the frontend.
type Task struct {
	ID           int64      `json:"id"`
	TaskID       string     `json:"task_id"`
	TaskName     string     `json:"task_name,omitempty"`
	TaskFileName string     `json:"task_file_name,omitempty"`
	Status       string     `json:"status"`
	DateCreated  time.Time  `json:"date_created"`
	DateStarted  *time.Time `json:"date_started,omitempty"`
	DateDone     *time.Time `json:"date_done,omitempty"`
	Result       string     `json:"result,omitempty"`
	Acknowledged bool       `json:"acknowledged"`
}

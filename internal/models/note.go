package models

import "time"

// Note is a free-text comment attached to a document.
type Note struct {
	ID         int64     `json:"id"`
	DocumentID int64     `json:"document"`
	Content    string    `json:"note"`
	Created    time.Time `json:"created"`
}

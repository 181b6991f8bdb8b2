// Package history keeps a local audit trail of submission attempts. Every
// run through the pipeline, successful or not, is recorded so the user
// can find a created ticket's URL later or see why an attempt failed.
package history

import (
	"context"
	"time"
)

// Submission is one recorded submission attempt.
type Submission struct {
	// ID is the internal unique identifier for this record.
	ID string `db:"id" json:"id"`

	// DocumentID is the extraction backend's identifier for the
	// uploaded document, when extraction succeeded.
	DocumentID string `db:"document_id" json:"document_id"`

	// FileName is the uploaded file's original name.
	FileName string `db:"file_name" json:"file_name"`

	// TicketName is the normalized ticket title that was submitted.
	TicketName string `db:"ticket_name" json:"ticket_name"`

	// Priority and Status are the submitted payload fields.
	Priority int    `db:"priority" json:"priority"`
	Status   string `db:"status" json:"status"`

	// Success reports whether the backend created the ticket.
	Success bool `db:"success" json:"success"`

	// TaskID and TaskURL identify the created ticket on success.
	TaskID  string `db:"task_id" json:"task_id"`
	TaskURL string `db:"task_url" json:"task_url"`

	// Message is the backend's confirmation or error text.
	Message string `db:"message" json:"message"`

	// CreatedAt is when the attempt completed.
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Store defines the persistence interface for submission history.
type Store interface {
	// RecordSubmission inserts one attempt. A blank ID is filled with a
	// generated UUID; a zero CreatedAt is filled with the current time.
	RecordSubmission(ctx context.Context, s Submission) error

	// GetSubmissions returns up to limit attempts, newest first.
	// limit <= 0 means no limit.
	GetSubmissions(ctx context.Context, limit int) ([]Submission, error)

	// Close releases the underlying database.
	Close() error
}

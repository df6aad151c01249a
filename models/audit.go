package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditEvent represents a console mutation recorded by the auditor
// Collection: audit_events
type AuditEvent struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID    string             `bson:"event_id" json:"event_id"`
	Type       string             `bson:"type" json:"type"`
	Source     string             `bson:"source" json:"source"`
	RequestID  string             `bson:"request_id,omitempty" json:"request_id,omitempty"`
	Subject    string             `bson:"subject" json:"subject"`
	Summary    string             `bson:"summary" json:"summary"`
	Payload    map[string]any     `bson:"payload" json:"payload"`
	OccurredAt time.Time          `bson:"occurred_at" json:"occurred_at"`
	RecordedAt time.Time          `bson:"recorded_at" json:"recorded_at"`
}

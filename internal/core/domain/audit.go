package domain

import "time"

// AuditEntry records one admin API call. Entries are written asynchronously
// after the response is sent, so a failed write never affects the request.
type AuditEntry struct {
	AdminID    string    `json:"adminID" bson:"adminID"`
	Route      string    `json:"route" bson:"route"`
	Method     string    `json:"method" bson:"method"`
	StatusCode int       `json:"statusCode" bson:"statusCode"`
	DurationMs int64     `json:"durationMs" bson:"durationMs"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`
	IP         string    `json:"ip" bson:"ip"`
	UserAgent  string    `json:"userAgent,omitempty" bson:"userAgent,omitempty"`
}

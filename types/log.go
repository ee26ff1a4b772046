package types

import "time"

// LogEntry is the payload pushed to the async request logger.
type LogEntry struct {
	Method          string
	URL             string
	RequestBody     string
	RequestHeaders  string
	ResponseBody    string
	ResponseHeaders string
	StatusCode      int
	UserEmail       string
	CreatedAt       time.Time
}

package logger

import (
	"log"
	"time"

	log_model "fulfillment-ops/models/log"
	"fulfillment-ops/types"

	"gorm.io/gorm"
)

// AsyncLogger writes request/response audit rows to the database off the
// request path through a buffered channel.
type AsyncLogger struct {
	db      *gorm.DB
	channel chan types.LogEntry
}

func NewAsyncLogger(db *gorm.DB) *AsyncLogger {
	return &AsyncLogger{
		db:      db,
		channel: make(chan types.LogEntry, 100), // Buffered channel to hold log entries
	}
}

// ProcessLog drains the channel; run it as a goroutine at startup.
func (logger *AsyncLogger) ProcessLog() {
	log.Println("Starting asynchronous request logger...")

	for logEntry := range logger.channel {
		dbLog := log_model.RequestLog{
			Method:          logEntry.Method,
			URL:             logEntry.URL,
			RequestBody:     logEntry.RequestBody,
			ResponseBody:    logEntry.ResponseBody,
			RequestHeaders:  logEntry.RequestHeaders,
			ResponseHeaders: logEntry.ResponseHeaders,
			StatusCode:      logEntry.StatusCode,
			UserEmail:       logEntry.UserEmail,
			CreatedAt:       logEntry.CreatedAt,
		}

		if err := logger.db.Create(&dbLog).Error; err != nil {
			log.Printf("Failed to insert request log entry: %v", err)
		}
	}
}

// Log pushes a log entry into the channel. Entries are dropped when the
// buffer is full rather than blocking a request handler.
func (logger *AsyncLogger) Log(entry types.LogEntry) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	select {
	case logger.channel <- entry:
	default:
		log.Println("Request log buffer full, dropping entry")
	}
}

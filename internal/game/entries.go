package game

import (
	"slices"
	"time"
)

// Message is an inbound communication shown in the communications view.
type Message struct {
	ID         string `json:"id" yaml:"id"`
	From       string `json:"from" yaml:"from"`
	Subject    string `json:"subject" yaml:"subject"`
	Body       string `json:"body" yaml:"body"`
	Priority   string `json:"priority,omitempty" yaml:"priority,omitempty"`
	ReceivedAt int64  `json:"receivedAt,omitempty" yaml:"receivedAt,omitempty"`
}

// MessageView records one open event for a message.
//
// Entries are append-only: reopening a message appends a duplicate,
// which is harmless for read-state purposes (a message is read iff its
// id appears at least once).
type MessageView struct {
	MessageID string `json:"messageId"`
	OpenedAt  int64  `json:"openedAt"`
}

// LogSeverity classifies system event log entries.
type LogSeverity string

const (
	LogInfo  LogSeverity = "INFO"
	LogWarn  LogSeverity = "WARN"
	LogError LogSeverity = "ERROR"
)

// LogEntry is one line of the ship's system event log.
type LogEntry struct {
	Severity  LogSeverity `json:"severity" yaml:"severity"`
	Source    string      `json:"source" yaml:"source"`
	Text      string      `json:"text" yaml:"text"`
	Timestamp int64       `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

// CaptainsLogEntry is a static narrative diary entry.
type CaptainsLogEntry struct {
	Stardate string `json:"stardate" yaml:"stardate"`
	Title    string `json:"title" yaml:"title"`
	Body     string `json:"body" yaml:"body"`
}

// ObjectiveStatus tracks mission objective progress.
type ObjectiveStatus string

const (
	ObjectiveActive    ObjectiveStatus = "active"
	ObjectiveCompleted ObjectiveStatus = "completed"
	ObjectiveFailed    ObjectiveStatus = "failed"
)

// Objective is one mission objective shown in the objectives view.
type Objective struct {
	ID          string          `json:"id" yaml:"id"`
	Title       string          `json:"title" yaml:"title"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Status      ObjectiveStatus `json:"status" yaml:"status"`
}

// ChatMessage is one line of the AI chat transcript.
type ChatMessage struct {
	Author string `json:"author" yaml:"author"`
	Text   string `json:"text" yaml:"text"`
	SentAt int64  `json:"sentAt,omitempty" yaml:"sentAt,omitempty"`
}

// Mission holds flavor fields read by command content.
type Mission struct {
	ShiftStatus       string `json:"shiftStatus"`
	DaysInSpace       int    `json:"daysInSpace"`
	AIUpdateScheduled bool   `json:"aiUpdateScheduled"`
	FleetStatus       string `json:"fleetStatus"`
}

// AIChat holds the AI chat transcript.
type AIChat struct {
	Messages []ChatMessage `json:"messages"`
}

// UnreadCount reports how many messages have never been opened.
// A message is read iff its id appears in views.
func UnreadCount(messages []Message, views []MessageView) int {
	unread := 0
	for _, m := range messages {
		opened := slices.ContainsFunc(views, func(v MessageView) bool {
			return v.MessageID == m.ID
		})
		if !opened {
			unread++
		}
	}
	return unread
}

// HasObjective reports whether an objective with the given id exists.
func HasObjective(objectives []Objective, id string) bool {
	return slices.ContainsFunc(objectives, func(o Objective) bool {
		return o.ID == id
	})
}

// ObjectiveStatusOf returns the status of an objective, or "" when the
// id is unknown.
func ObjectiveStatusOf(objectives []Objective, id string) ObjectiveStatus {
	for _, o := range objectives {
		if o.ID == id {
			return o.Status
		}
	}
	return ""
}

// nowMillis is the wall-clock source for timestamps on appended
// entries. Overridable in tests for deterministic snapshots.
var nowMillis = func() int64 {
	return time.Now().UnixMilli()
}

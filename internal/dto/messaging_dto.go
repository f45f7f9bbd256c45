package dto

import "pairprep-be/pkg/saga"

// CleanupReportMessage is published on the in-process bus whenever a session
// lifecycle operation has to unwind or tear down external resources. A
// background consumer archives it for later inspection.
type CleanupReportMessage struct {
	CallId    string       `json:"call_id"`
	Operation string       `json:"operation"` // "create_rollback" or "end_teardown"
	Report    *saga.Report `json:"report"`
}

// SessionNotification is pushed to the host over the websocket when someone
// joins their session or the session ends.
type SessionNotification struct {
	Type      string `json:"type"`
	SessionId string `json:"session_id"`
	CallId    string `json:"call_id"`
	Problem   string `json:"problem"`
	ActorName string `json:"actor_name"`
}

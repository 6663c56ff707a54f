package events

import (
	"encoding/json"
	"time"
)

const (
	KindIncome  = "income"
	KindExpense = "expense"

	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// RecordEvent is the lightweight message published whenever a financial
// record changes. It carries identifiers only; consumers fetch the full
// record from the store when they need it.
type RecordEvent struct {
	Kind      string    `json:"kind"`
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRecordEvent(kind, id, owner, action string) *RecordEvent {
	return &RecordEvent{
		Kind:      kind,
		ID:        id,
		Owner:     owner,
		Action:    action,
		Timestamp: time.Now().UTC(),
	}
}

func (e *RecordEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func RecordEventFromJSON(data []byte) (*RecordEvent, error) {
	var e RecordEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

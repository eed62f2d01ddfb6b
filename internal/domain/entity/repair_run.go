package entity

import "time"

// Repair run statuses
const (
	RepairStatusCompleted = "COMPLETED"
	RepairStatusSkipped   = "SKIPPED"
	RepairStatusFailed    = "FAILED"
)

// RepairRun is one audit record of a repair operation applied to one order
type RepairRun struct {
	ID         string                 `json:"id" bson:"_id,omitempty"`
	OrderID    string                 `json:"orderId" bson:"orderId"`
	Operation  string                 `json:"operation" bson:"operation"`
	Status     string                 `json:"status" bson:"status"`
	Detail     map[string]interface{} `json:"detail,omitempty" bson:"detail,omitempty"`
	Error      string                 `json:"error,omitempty" bson:"error,omitempty"`
	StartedAt  time.Time              `json:"startedAt" bson:"startedAt"`
	FinishedAt time.Time              `json:"finishedAt" bson:"finishedAt"`
}

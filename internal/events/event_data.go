package events

// EventData is implemented by typed event payloads so emitters and
// subscribers agree on the shape carried for each event type.
type EventData interface {
	EventType() EventType
}

// BackupFinishedData is the payload for BackupFinished events.
type BackupFinishedData struct {
	Archive   string `json:"archive"`
	SizeBytes int64  `json:"size_bytes"`
}

func (d *BackupFinishedData) EventType() EventType {
	return BackupFinished
}

// SweepFinishedData is the payload for SweepFinished events.
type SweepFinishedData struct {
	Benchmarks []string `json:"benchmarks"`
	RunIDs     []string `json:"run_ids"`
}

func (d *SweepFinishedData) EventType() EventType {
	return SweepFinished
}

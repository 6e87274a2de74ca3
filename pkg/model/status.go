package model

// SyncStatus is the transient indicator shown while extracting or syncing.
type SyncStatus string

const (
	IDLE    SyncStatus = "idle"
	SYNCING SyncStatus = "syncing"
	SUCCESS SyncStatus = "success"
	ERROR   SyncStatus = "error"
)

// Terminal reports whether s is a state that decays back to IDLE.
func (s SyncStatus) Terminal() bool {
	return s == SUCCESS || s == ERROR
}

// Label is the short human readable text for the indicator.
func (s SyncStatus) Label() string {
	switch s {
	case SYNCING:
		return "雲端同步中"
	case SUCCESS:
		return "同步完成"
	case ERROR:
		return "連線失敗"
	default:
		return "連線就緒"
	}
}

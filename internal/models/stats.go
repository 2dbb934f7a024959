package models

// Stats - счетчики для админской панели
type Stats struct {
	PendingIncidents  int `json:"pending_incidents"`
	ApprovedIncidents int `json:"approved_incidents"`
	TotalUsers        int `json:"total_users"`
}

// DispatchResult - агрегированный итог одной джобы рассылки
type DispatchResult struct {
	IncidentID int64 `json:"incident_id"`
	Sent       int   `json:"sent"`
	Failed     int   `json:"failed"`
}

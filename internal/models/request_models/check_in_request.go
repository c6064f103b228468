package request_models

import "time"

type ScheduleCheckInRequest struct {
	CounterpartID   string    `json:"counterpart_id" binding:"required"`
	CounterpartName string    `json:"counterpart_name" binding:"required"`
	Location        string    `json:"location" binding:"required"`
	ScheduledAt     time.Time `json:"scheduled_at" binding:"required"`
	Deadline        time.Time `json:"deadline" binding:"required"`
	ContactIDs      []string  `json:"contact_ids"`
}

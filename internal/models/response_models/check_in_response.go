package response_models

type ContactResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email,omitempty"`
	AlertsOptIn bool   `json:"alerts_opt_in"`
}

type CheckInResponse struct {
	ID              string            `json:"id"`
	CounterpartID   string            `json:"counterpart_id"`
	CounterpartName string            `json:"counterpart_name"`
	Location        string            `json:"location"`
	ScheduledAt     string            `json:"scheduled_at"`
	Deadline        string            `json:"deadline"`
	Status          string            `json:"status"`
	ActivatedAt     string            `json:"activated_at,omitempty"`
	CompletedAt     string            `json:"completed_at,omitempty"`
	Contacts        []ContactResponse `json:"contacts"`
}

type CheckInStatusResponse struct {
	HasActive bool `json:"has_active"`
	Scheduled int  `json:"scheduled"`
	Active    int  `json:"active"`
}

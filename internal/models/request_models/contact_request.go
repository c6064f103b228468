package request_models

type ContactRequest struct {
	Name        string `json:"name" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	Email       string `json:"email"`
	AlertsOptIn bool   `json:"alerts_opt_in"`
}

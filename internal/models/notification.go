package models

// Notification is the payload handed to the notification service.
type Notification struct {
	Type    string `json:"type"`
	IconURL string `json:"iconUrl"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

package shared

// Asynq task types and queues.
const (
	TypeSendConfirmationEmail  = "email:confirmation"
	TypeCleanupUnconfirmedUser = "user:cleanup_unconfirmed"

	QueueMail = "mail"
	QueueUser = "user"
)

// ConfirmationEmailPayload carries what the mail worker needs to send the
// registration confirmation link.
type ConfirmationEmailPayload struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Token string `json:"token"`
}

// CleanupUnconfirmedPayload is the payload of the periodic cleanup task.
type CleanupUnconfirmedPayload struct {
	OlderThanDays int `json:"olderThanDays"`
}

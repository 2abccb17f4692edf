package constant

// Response body keys
const (
	Ok      = "ok"
	Error   = "error"
	Message = "message"
	Details = "details"
	Status  = "status"
	Payload = "payload"
)

const (
	InternalServerError = "internal server error"
)

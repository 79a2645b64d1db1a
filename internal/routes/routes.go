package routes

const (
	// Health
	Health = "/health"

	// Staff endpoints
	AssignmentsQueue    = "/api/v1/assignments/queue"
	AssignmentsStart    = "/api/v1/assignments/start"
	AssignmentsComplete = "/api/v1/assignments/complete"
	AssignmentsCancel   = "/api/v1/assignments/cancel"
	AssignmentsPhotos   = "/api/v1/assignments/photos"

	// Do-Not-Disturb workflow
	AssignmentsDNDMark     = "/api/v1/assignments/dnd/mark"
	AssignmentsDNDRetrieve = "/api/v1/assignments/dnd/retrieve"

	// Change-event stream (websocket)
	Events = "/api/v1/events"
)

package constants

// General service settings
const (
	// A floor value used as the sort key when a room has no floor number;
	// missing floors sort after every real floor.
	MissingFloorSentinel = 1 << 20

	// Numeric room numbers above this are treated as non-numeric for
	// ordering purposes.
	MaxNumericRoomNumber = 1 << 20

	// How many photo references a single assignment may carry.
	MaxCompletionPhotos = 20
)

// Audit note appended when a previously supervisor-approved DND room is
// retrieved and reopened. Appended to Notes, never overwriting prior text.
const DNDRetrievalAuditNote = "DND retrieved after supervisor approval; approval cleared and room reopened"

// Cron spec for the nightly sweep that administratively cancels stale
// assignments left over from previous work dates (hotel-local time).
const NightlySweepCronSpec = "10 0 * * *"

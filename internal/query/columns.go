package query

// Column names in store rows and field maps. The store's row format is
// extensible; these are the columns this layer reads and writes.
const (
	// Shared.
	ColID = "_id"

	// Message rows.
	ColDirection      = "direction"
	ColGlobalID       = "global_id"
	ColSubscriptionID = "subscription_id"
	ColStatus         = "status"
	ColOriginatedAt   = "originated_at"
	ColThreadID       = "thread_id"

	// Delivery rows.
	ColParticipantID = "participant_id"

	// File transfer rows.
	ColTransferID = "transfer_id"
	ColSessionID  = "session_id"
	ColContentURI = "content_uri"
	ColPreviewURI = "preview_uri"
	ColWidth      = "width"
	ColHeight     = "height"
	ColDurationMS = "duration_ms"
	ColProgress   = "progress"

	// Event rows.
	ColEventType   = "event_type"
	ColTimestamp   = "timestamp"
	ColSource      = "source_participant"
	ColDestination = "dest_participant"
	ColName        = "name"
	ColIcon        = "icon"
	ColAlias       = "alias"
)

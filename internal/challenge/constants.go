package challenge

import "time"

// Log messages
const (
	LogMsgPublishFailed     = "Failed to publish challenge event"
	LogMsgRolloverPlayer    = "Failed to roll over challenges for player"
	LogMsgRolloverList      = "Failed to list players for challenge rollover"
	LogMsgRolloverCompleted = "Daily challenge rollover completed"
)

// Challenge set cache configuration
const (
	// CacheSize bounds how many player sets stay in memory
	CacheSize = 1024
	// CacheTTL keeps entries well short of the daily rollover
	CacheTTL = 10 * time.Minute
)

package migration

// Log messages
const (
	LogMsgMigrationSkipped   = "Legacy migration skipped, record already has progress"
	LogMsgMigrationApplied   = "Legacy record migrated"
	LogMsgUnknownLegacySkill = "Unknown skill name in legacy save, skipping"
)

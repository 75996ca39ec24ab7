package config

const (
	// Configuration file paths
	ConfigPathTuning = "configs/progression_tuning.json"
)

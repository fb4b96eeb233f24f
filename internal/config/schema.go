package config

// Config is the root configuration structure
type Config struct {
	Version int           `yaml:"version" validate:"gte=1"`
	Log     LogConfig     `yaml:"log"`
	Verify  VerifyConfig  `yaml:"verify"`
	Journal JournalConfig `yaml:"journal"`
	Summary SummaryConfig `yaml:"summary"`
}

// LogConfig controls the process logger
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// VerifyConfig controls the structural checks run around an edit
type VerifyConfig struct {
	Skip bool `yaml:"skip"`
}

// JournalConfig holds edit journal settings
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path" validate:"required_if=Enabled true"`
}

// SummaryConfig holds defaults for the summarize command
type SummaryConfig struct {
	OutDir string `yaml:"out_dir,omitempty"`
}

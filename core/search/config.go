package search

type Config struct {
	TypesFile    string   `yaml:"types_file" mapstructure:"types_file" default:"./types.yaml"`
	TextFields   []string `yaml:"text_fields" mapstructure:"text_fields"`
	DefaultLimit int      `yaml:"default_limit" mapstructure:"default_limit" default:"25"`
	BrowseType   string   `yaml:"browse_type" mapstructure:"browse_type" default:"ExperimentSetReplicate"`
}

const defaultLimit = 25

// free-text ranking is disabled, the query string only matches uuids
var defaultTextFields = []string{"uuid"}

func (cfg Config) textFields() []string {
	if len(cfg.TextFields) == 0 {
		return defaultTextFields
	}
	return cfg.TextFields
}

func (cfg Config) limit() int {
	if cfg.DefaultLimit <= 0 {
		return defaultLimit
	}
	return cfg.DefaultLimit
}

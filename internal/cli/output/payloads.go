package output

// RunOutput is the JSON payload for a lint session.
type RunOutput struct {
	SessionID string          `json:"session_id"`
	OK        bool            `json:"ok"`
	Plugins   []PluginOutcome `json:"plugins"`
	Paths     []string        `json:"paths,omitempty"`
}

// PluginOutcome is one plugin load outcome within a session.
type PluginOutcome struct {
	Specifier string   `json:"specifier"`
	OK        bool     `json:"ok"`
	Message   string   `json:"message,omitempty"`
	Rules     []string `json:"rules,omitempty"`
}

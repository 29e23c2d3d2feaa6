package domain

// SourceConfig describes one upstream feed. It is read once at startup and never
// changed afterwards.
type SourceConfig struct {
	Name        string     `koanf:"name" json:"name"`
	Kind        SourceKind `koanf:"kind" json:"kind"`
	URL         string     `koanf:"url" json:"url"`
	Token       string     `koanf:"token" json:"token,omitempty"`
	TokenHeader string     `koanf:"token_header" json:"token_header,omitempty"`
	Label       string     `koanf:"label" json:"label,omitempty"`
	Limit       int        `koanf:"limit" json:"limit,omitempty"`
}

// DisplayName returns the name used in logs and errors.
func (s SourceConfig) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.URL
}

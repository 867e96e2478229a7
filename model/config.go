package model

// ConvertConfig holds the naming rules of a conversion.
type ConvertConfig struct {
	// Type given to entities without an entityType
	UnknownType string `json:"unknown_type"`

	// Placeholder synthesis
	PlaceholderType string `json:"placeholder_type"`
	PlaceholderNote string `json:"placeholder_note"`

	// Advisory label copied into the metadata
	Source string `json:"source,omitempty"`
}

// DefaultConvertConfig returns the default naming rules.
func DefaultConvertConfig() ConvertConfig {
	return ConvertConfig{
		UnknownType:     "Unknown",
		PlaceholderType: "Placeholder",
		PlaceholderNote: "Auto-generated placeholder: referenced by a relation but never defined as an entity",
	}
}

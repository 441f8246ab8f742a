package entity

// ValidationMessage is a finding from automated checks on a submitted report
type ValidationMessage struct {
	Type    string `json:"type" yaml:"type"` // error, warning, info
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
	Field   string `json:"field,omitempty" yaml:"field"`
}

// Validation message types
const (
	MessageTypeError   = "error"
	MessageTypeWarning = "warning"
	MessageTypeInfo    = "info"
)

package entities

// InteractionType represents the kind of primitive a page object drives
type InteractionType string

const (
	InteractionNavigate   InteractionType = "navigate"
	InteractionClick      InteractionType = "click"
	InteractionFill       InteractionType = "fill"
	InteractionClear      InteractionType = "clear"
	InteractionReadText   InteractionType = "read_text"
	InteractionVisibility InteractionType = "visibility"
	InteractionDisabled   InteractionType = "disabled"
	InteractionCount      InteractionType = "count"
	InteractionWait       InteractionType = "wait"
	InteractionScreenshot InteractionType = "screenshot"
)

// ControlState is the observed enabled state of a form control
type ControlState string

const (
	ControlEnabled  ControlState = "enabled"
	ControlDisabled ControlState = "disabled"
	ControlUnknown  ControlState = "unknown"
)

package ui

// Icons (symbols)
const (
	IconSettings = "⚙"
	IconPrevious = "‹"
	IconNext     = "›"
)

// Layout sizing
const (
	WindowWidth  float32 = 800
	WindowHeight float32 = 600

	// Touch target sizes (iOS/Android guidelines)
	MobileButtonHeight float32 = 48
	MobileButtonWidth  float32 = 60
)

package led

// Indicator roles understood by every Controller.
const (
	RoleStatus   = "status"
	RoleActivity = "activity"
)

// Indicator patterns.
const (
	PatternSolid = "solid"
	PatternBlink = "blink"
)

// Controller drives the single-color LEDs soldered onto the board, as opposed
// to the addressable strip.
type Controller interface {
	// Set switches the LED for role on or off. A non-empty pattern also
	// changes how it lights.
	Set(role string, on bool, pattern string) error

	// Available returns the roles this board maps to a physical LED.
	Available() []string

	// Patterns returns the patterns Set accepts.
	Patterns() []string
}

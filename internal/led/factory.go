package led

import (
	"log/slog"
	"strings"

	"github.com/spf13/afero"
)

const deviceTreeModelPath = "/proc/device-tree/model"

// boardLEDs maps a device-tree model substring to its role -> sysfs LED names.
var boardLEDs = []struct {
	model string
	leds  map[string]string
}{
	{"NanoPC-T6", map[string]string{RoleStatus: "sys_led", RoleActivity: "usr_led"}},
	{"Orange Pi", map[string]string{RoleStatus: "green_led", RoleActivity: "blue_led"}},
	{"Raspberry Pi", map[string]string{RoleStatus: "ACT", RoleActivity: "PWR"}},
}

// NewController picks a board LED controller from the device-tree model and
// falls back to a no-op controller on unknown hardware.
func NewController(logger *slog.Logger) Controller {
	fs := afero.NewOsFs()
	return newController(detectBoard(fs, deviceTreeModelPath), fs, sysfsLEDPath, logger)
}

func newController(model string, fs afero.Fs, root string, logger *slog.Logger) Controller {
	for _, b := range boardLEDs {
		if strings.Contains(model, b.model) {
			logger.Info("Using sysfs board LEDs", "board_model", model)
			return newSysfs(fs, root, b.leds)
		}
	}
	logger.Info("No board LED support detected", "board_model", model)
	return newNoop(logger)
}

// detectBoard reads the device tree model. The file is NUL terminated.
func detectBoard(fs afero.Fs, path string) string {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "unknown"
	}
	return strings.TrimRight(string(data), "\x00")
}

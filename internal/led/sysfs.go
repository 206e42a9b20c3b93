package led

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"

	"github.com/spf13/afero"
)

const sysfsLEDPath = "/sys/class/leds"

// sysfs drives board LEDs through the kernel LED class
// (<root>/<name>/{trigger,brightness}).
type sysfs struct {
	fs   afero.Fs
	root string
	leds map[string]string // role -> LED directory name
}

func newSysfs(fs afero.Fs, root string, leds map[string]string) *sysfs {
	return &sysfs{fs: fs, root: root, leds: leds}
}

func (s *sysfs) Set(role string, on bool, pattern string) error {
	name, ok := s.leds[role]
	if !ok {
		return fmt.Errorf("LED role %q not supported on this board", role)
	}
	if pattern != "" && !slices.Contains(s.Patterns(), pattern) {
		return fmt.Errorf("unknown LED pattern %q", pattern)
	}

	dir := filepath.Join(s.root, name)
	if ok, err := afero.DirExists(s.fs, dir); err != nil || !ok {
		return fmt.Errorf("LED %q not found at %s", role, dir)
	}

	// brightness is ignored while a trigger owns the LED
	blink := on && pattern == PatternBlink
	if blink {
		return s.write(dir, "trigger", "heartbeat")
	}
	if pattern != "" || !on {
		if err := s.write(dir, "trigger", "none"); err != nil {
			return err
		}
	}
	if on {
		return s.write(dir, "brightness", "1")
	}
	return s.write(dir, "brightness", "0")
}

func (s *sysfs) write(dir, attr, value string) error {
	if err := afero.WriteFile(s.fs, filepath.Join(dir, attr), []byte(value), 0o644); err != nil {
		return fmt.Errorf("write LED %s: %w", attr, err)
	}
	return nil
}

func (s *sysfs) Available() []string {
	return slices.Sorted(maps.Keys(s.leds))
}

func (s *sysfs) Patterns() []string {
	return []string{PatternSolid, PatternBlink}
}

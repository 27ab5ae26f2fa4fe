// Package config loads the recognised options from spec §6
// "Configuration" via environment variables, plus the compact key-binding
// encoding the Input handler consults.
//
// Grounded on spec.md §6's option list and gio's app.Option/Config
// pattern (app/window.go's functional Option type), generalized here to
// an env-loaded struct since functional options don't fit a
// process-start, environment-driven configuration surface. Library:
// github.com/kelseyhightower/envconfig, carried from the helixml-helix
// pack repo's go.mod.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/wlcore/compositor/exhibitor"
	"github.com/wlcore/compositor/input"
)

const envPrefix = "wlcore"

// Config is the process-wide settings surface (spec §6 "Configuration").
type Config struct {
	BackgroundPath string `envconfig:"AESTHETICS_BACKGROUND_PATH"`

	MoveStep       int    `envconfig:"EXHIBITOR_COMPOSITOR_MOVE_STEP" default:"10"`
	ChooseTarget   string `envconfig:"EXHIBITOR_STRATEGIST_CHOOSE_TARGET" default:"anchored_but_popups"`
	ChooseFloating string `envconfig:"EXHIBITOR_STRATEGIST_CHOOSE_FLOATING" default:"always_centered"`

	TouchpadScale             float32 `envconfig:"INPUT_TOUCHPAD_SCALE" default:"1.0"`
	TouchpadPressureThreshold int32   `envconfig:"INPUT_TOUCHPAD_PRESSURE_THRESHOLD" default:"0"`
	MouseScale                float32 `envconfig:"INPUT_MOUSE_SCALE" default:"1.0"`

	KeyboardLayout  string `envconfig:"KEYBOARD_LAYOUT" default:"us"`
	KeyboardVariant string `envconfig:"KEYBOARD_VARIANT"`

	// KeyBindings is the compact encoding described in spec §4.8:
	// "normal+ctrl+alt+F2=switch-vt-2,normal+ctrl+alt+F3=switch-vt-3".
	KeyBindings string `envconfig:"KEY_BINDINGS"`
}

// Load reads Config from the process environment.
func Load() (Config, error) {
	var c Config
	if err := envconfig.Process(envPrefix, &c); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

// ExhibitorConfig translates the loaded strategist options into the
// exhibitor package's Config.
func (c Config) ExhibitorConfig() exhibitor.Config {
	cfg := exhibitor.Config{MoveStep: c.MoveStep}
	if c.ChooseTarget == "always_floating" {
		cfg.ChooseTarget = exhibitor.AlwaysFloating
	} else {
		cfg.ChooseTarget = exhibitor.AnchoredButPopups
	}
	cfg.ChooseFloating = exhibitor.AlwaysCentered
	return cfg
}

// Binding is a single (mode, code, modifiers, executor-name) key binding
// record (spec §6 "key bindings").
type Binding struct {
	Mode     string
	Mods     input.Modifier
	Code     uint16
	Executor string
}

var modifierNames = map[string]input.Modifier{
	"ctrl":   input.ModLeftCtrl,
	"lctrl":  input.ModLeftCtrl,
	"rctrl":  input.ModRightCtrl,
	"shift":  input.ModLeftShift,
	"lshift": input.ModLeftShift,
	"rshift": input.ModRightShift,
	"alt":    input.ModLeftAlt,
	"lalt":   input.ModLeftAlt,
	"ralt":   input.ModRightAlt,
	"meta":   input.ModLeftMeta,
	"lmeta":  input.ModLeftMeta,
	"rmeta":  input.ModRightMeta,
}

// ParseBindings parses the KeyBindings encoding: comma-separated records
// of "mode+mod+mod+KEYCODE=executor-name".
func ParseBindings(s string) ([]Binding, error) {
	if s == "" {
		return nil, nil
	}
	var out []Binding
	for _, rec := range strings.Split(s, ",") {
		rec = strings.TrimSpace(rec)
		if rec == "" {
			continue
		}
		eq := strings.IndexByte(rec, '=')
		if eq < 0 {
			return nil, fmt.Errorf("config: malformed binding %q: missing '='", rec)
		}
		lhs, executor := rec[:eq], rec[eq+1:]
		parts := strings.Split(lhs, "+")
		if len(parts) < 2 {
			return nil, fmt.Errorf("config: malformed binding %q: need mode+...+code", rec)
		}
		b := Binding{Mode: parts[0], Executor: executor}
		codeStr := parts[len(parts)-1]
		for _, m := range parts[1 : len(parts)-1] {
			bit, ok := modifierNames[strings.ToLower(m)]
			if !ok {
				return nil, fmt.Errorf("config: unknown modifier %q in %q", m, rec)
			}
			b.Mods |= bit
		}
		code, err := parseKeyCode(codeStr)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		b.Code = code
		out = append(out, b)
	}
	return out, nil
}

// parseKeyCode accepts either a raw evdev code or an "F1".."F12" name.
func parseKeyCode(s string) (uint16, error) {
	if strings.HasPrefix(strings.ToUpper(s), "F") {
		n, err := strconv.Atoi(s[1:])
		if err != nil || n < 1 || n > 12 {
			return 0, fmt.Errorf("invalid function key %q", s)
		}
		return input.KeyF1 + uint16(n-1), nil
	}
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid key code %q", s)
	}
	return uint16(n), nil
}

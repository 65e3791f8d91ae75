// Package menu holds the application menu as data and turns it into Fyne menus.
package menu

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

type Role string

const (
	RoleNone        Role = ""
	RoleAbout       Role = "about"
	RoleQuit        Role = "quit"
	RoleNewWindow   Role = "newWindow"
	RoleHide        Role = "hide"
	RoleClose       Role = "close"
	RoleUndo        Role = "undo"
	RoleRedo        Role = "redo"
	RoleCut         Role = "cut"
	RoleCopy        Role = "copy"
	RolePaste       Role = "paste"
	RoleSelectAll   Role = "selectAll"
	RoleReload      Role = "reload"
	RoleFullScreen  Role = "togglefullscreen"
	RoleMinimize    Role = "minimize"
	RoleReportIssue Role = "reportIssue"
	RoleFeedback    Role = "feedback"
)

type Item struct {
	Label       string `yaml:"label"`
	Accelerator string `yaml:"accelerator,omitempty"`
	Role        Role   `yaml:"role,omitempty"`
}

type Menu struct {
	Label string `yaml:"label"`
	Items []Item `yaml:"items"`
}

type Template []Menu

const (
	PlatformWin = "win"
	PlatformMac = "mac"
)

// Platform picks the template family for a GOOS value.
func Platform(goos string) string {
	if goos == "darwin" {
		return PlatformMac
	}
	return PlatformWin
}

// Templates returns the menu layouts keyed by platform.
func Templates(appName string) map[string]Template {
	return map[string]Template{
		PlatformWin: {
			{Label: appName, Items: []Item{
				{Label: "About " + appName, Role: RoleAbout},
				{Label: "Quit", Accelerator: "Ctrl+Q", Role: RoleQuit},
			}},
			fileMenu(appName),
		},
		PlatformMac: {
			{Label: appName, Items: []Item{
				{Label: "About " + appName, Role: RoleAbout},
				{Label: "Quit", Accelerator: "Command+Q", Role: RoleQuit},
			}},
			fileMenu(appName),
			{Label: "Edit", Items: []Item{
				{Label: "Undo", Accelerator: "Command+Z", Role: RoleUndo},
				{Label: "Redo", Accelerator: "Command+Shift+Z", Role: RoleRedo},
				{Label: "Cut", Accelerator: "Command+X", Role: RoleCut},
				{Label: "Copy", Accelerator: "Command+C", Role: RoleCopy},
				{Label: "Paste", Accelerator: "Command+V", Role: RolePaste},
				{Label: "Select All", Accelerator: "Command+A", Role: RoleSelectAll},
			}},
			{Label: "View", Items: []Item{
				{Label: "Reload", Role: RoleReload},
				{Label: "Enter Full Screen", Role: RoleFullScreen},
			}},
			{Label: "Window", Items: []Item{
				{Label: "Minimize", Role: RoleMinimize},
			}},
			{Label: "Help", Items: []Item{
				{Label: "Report an issue", Role: RoleReportIssue},
				{Label: "Feedback", Role: RoleFeedback},
			}},
		},
	}
}

func fileMenu(appName string) Menu {
	return Menu{Label: "File", Items: []Item{
		{Label: "Open new window", Role: RoleNewWindow},
		{Label: "Hide " + appName, Role: RoleHide},
		{Label: "Close window", Role: RoleClose},
	}}
}

var modifiers = map[string]fyne.KeyModifier{
	"ctrl":      fyne.KeyModifierControl,
	"control":   fyne.KeyModifierControl,
	"command":   fyne.KeyModifierSuper,
	"cmd":       fyne.KeyModifierSuper,
	"super":     fyne.KeyModifierSuper,
	"shift":     fyne.KeyModifierShift,
	"alt":       fyne.KeyModifierAlt,
	"option":    fyne.KeyModifierAlt,
	"cmdorctrl": fyne.KeyModifierShortcutDefault,
}

// ParseAccelerator converts "Command+Shift+Z" style strings into a shortcut.
func ParseAccelerator(accel string) (*desktop.CustomShortcut, error) {
	parts := strings.Split(accel, "+")
	if len(parts) < 2 {
		return nil, fmt.Errorf("accelerator %q needs a modifier and a key", accel)
	}

	var mod fyne.KeyModifier
	for _, p := range parts[:len(parts)-1] {
		m, ok := modifiers[strings.ToLower(strings.TrimSpace(p))]
		if !ok {
			return nil, fmt.Errorf("accelerator %q: unknown modifier %q", accel, p)
		}
		mod |= m
	}

	key := strings.ToUpper(strings.TrimSpace(parts[len(parts)-1]))
	if len(key) != 1 {
		return nil, fmt.Errorf("accelerator %q: unsupported key %q", accel, key)
	}
	return &desktop.CustomShortcut{KeyName: fyne.KeyName(key), Modifier: mod}, nil
}

// Build turns a template into a main menu. Items whose role has no action are
// shown disabled; a bad accelerator drops the shortcut, not the item.
func Build(t Template, actions map[Role]func()) *fyne.MainMenu {
	menus := make([]*fyne.Menu, 0, len(t))
	for _, m := range t {
		items := make([]*fyne.MenuItem, 0, len(m.Items))
		for _, it := range m.Items {
			action := actions[it.Role]
			item := fyne.NewMenuItem(it.Label, action)
			if action == nil {
				item.Disabled = true
			}
			if it.Accelerator != "" {
				if sc, err := ParseAccelerator(it.Accelerator); err == nil {
					item.Shortcut = sc
				}
			}
			items = append(items, item)
		}
		menus = append(menus, fyne.NewMenu(m.Label, items...))
	}
	return fyne.NewMainMenu(menus...)
}

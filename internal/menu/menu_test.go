package menu

import (
	"testing"

	"fyne.io/fyne/v2"
)

func TestPlatform(t *testing.T) {
	if Platform("darwin") != PlatformMac {
		t.Error("darwin should use the mac template")
	}
	for _, goos := range []string{"windows", "linux", "freebsd"} {
		if Platform(goos) != PlatformWin {
			t.Errorf("%s should use the win template", goos)
		}
	}
}

func TestTemplatesShape(t *testing.T) {
	tpl := Templates("Handscribe")

	win := tpl[PlatformWin]
	if len(win) != 2 || win[0].Label != "Handscribe" || win[1].Label != "File" {
		t.Fatalf("win template = %+v", win)
	}
	if win[0].Items[1].Accelerator != "Ctrl+Q" {
		t.Errorf("win quit accelerator = %q", win[0].Items[1].Accelerator)
	}

	mac := tpl[PlatformMac]
	var labels []string
	for _, m := range mac {
		labels = append(labels, m.Label)
	}
	want := []string{"Handscribe", "File", "Edit", "View", "Window", "Help"}
	if len(labels) != len(want) {
		t.Fatalf("mac menus = %v, want %v", labels, want)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("mac menu %d = %q, want %q", i, labels[i], want[i])
		}
	}
	if mac[0].Items[1].Accelerator != "Command+Q" {
		t.Errorf("mac quit accelerator = %q", mac[0].Items[1].Accelerator)
	}
}

func TestParseAccelerator(t *testing.T) {
	tests := []struct {
		in   string
		key  fyne.KeyName
		mod  fyne.KeyModifier
		fail bool
	}{
		{in: "Ctrl+Q", key: fyne.KeyQ, mod: fyne.KeyModifierControl},
		{in: "Command+Shift+Z", key: fyne.KeyZ, mod: fyne.KeyModifierSuper | fyne.KeyModifierShift},
		{in: "CmdOrCtrl+a", key: fyne.KeyA, mod: fyne.KeyModifierShortcutDefault},
		{in: "Q", fail: true},
		{in: "Hyper+Q", fail: true},
		{in: "Ctrl+F12", fail: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			sc, err := ParseAccelerator(tt.in)
			if tt.fail {
				if err == nil {
					t.Fatalf("expected error, got %+v", sc)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if sc.KeyName != tt.key || sc.Modifier != tt.mod {
				t.Errorf("got %v/%v, want %v/%v", sc.KeyName, sc.Modifier, tt.key, tt.mod)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	quit := false
	main := Build(Templates("Handscribe")[PlatformWin], map[Role]func(){
		RoleQuit: func() { quit = true },
	})

	if len(main.Items) != 2 {
		t.Fatalf("menus = %d", len(main.Items))
	}
	appMenu := main.Items[0]
	about, quitItem := appMenu.Items[0], appMenu.Items[1]

	if !about.Disabled {
		t.Error("about has no action and should be disabled")
	}
	if quitItem.Disabled || quitItem.Shortcut == nil {
		t.Errorf("quit item = %+v", quitItem)
	}
	quitItem.Action()
	if !quit {
		t.Error("quit action not wired")
	}
}

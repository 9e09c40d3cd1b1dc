// Package quick is the keyboard and application side of the desktop:
// synthetic typing, hotkeys, launching and closing programs.
package quick

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/go-vgo/robotgo"
	"github.com/shirou/gopsutil/v3/process"
)

// typeChunk keeps simulated typing in short bursts so the target
// application can keep up.
const (
	typeChunk = 200
	typePause = 150 * time.Millisecond
)

type Typist struct{}

// Type writes the text into whatever window has focus.
func (Typist) Type(text string) error {
	for len(text) > 0 {
		n := min(typeChunk, len(text))
		robotgo.TypeStr(text[:n])
		text = text[n:]
		time.Sleep(typePause)
	}
	return nil
}

var shortcuts = map[string][]string{
	"new_document": {"n", "ctrl"},
	"save":         {"s", "ctrl"},
	"copy":         {"c", "ctrl"},
	"paste":        {"v", "ctrl"},
	"cut":          {"x", "ctrl"},
	"undo":         {"z", "ctrl"},
	"select_all":   {"a", "ctrl"},
	"close_window": {"f4", "alt"},
	"switch_app":   {"tab", "alt"},
	"enter":        {"enter"},
}

// Shortcut fires a named key chord.
func (Typist) Shortcut(name string) error {
	keys, ok := shortcuts[name]
	if !ok {
		return fmt.Errorf("unknown shortcut %q", name)
	}
	args := make([]interface{}, len(keys)-1)
	for i, k := range keys[1:] {
		args[i] = k
	}
	if err := robotgo.KeyTap(keys[0], args...); err != nil {
		return fmt.Errorf("shortcut %s: %w", name, err)
	}
	return nil
}

// knownApps maps spoken names to launch commands.
var knownApps = map[string][]string{
	"word":       {"libreoffice", "--writer"},
	"writer":     {"libreoffice", "--writer"},
	"calculator": {"gnome-calculator"},
	"terminal":   {"gnome-terminal"},
	"files":      {"nautilus"},
	"chrome":     {"google-chrome"},
	"firefox":    {"firefox"},
	"code":       {"code"},
	"spotify":    {"spotify"},
}

// processNames maps spoken names to the process to match when closing.
var processNames = map[string]string{
	"word":       "soffice",
	"writer":     "soffice",
	"calculator": "gnome-calculator",
	"terminal":   "gnome-terminal",
	"files":      "nautilus",
	"chrome":     "chrome",
	"firefox":    "firefox",
	"code":       "code",
	"spotify":    "spotify",
}

type Apps struct{}

// Open launches the named application detached from the daemon.
func (Apps) Open(name string) error {
	name = strings.TrimSpace(strings.ToLower(name))
	argv, ok := knownApps[name]
	if !ok {
		argv = []string{name}
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	go cmd.Wait()
	return nil
}

// Close kills processes matching the named application. "all" closes
// every application we know how to launch.
func (a Apps) Close(name string) error {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "all" || name == "all apps" || name == "everything" {
		var firstErr error
		for app := range processNames {
			if err := a.Close(app); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}

	target, ok := processNames[name]
	if !ok {
		target = name
	}
	procs, err := process.Processes()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}
	killed := 0
	for _, p := range procs {
		pname, err := p.Name()
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(pname), target) {
			if err := p.Kill(); err != nil {
				slog.Warn("kill failed", "app", name, "pid", p.Pid, "error", err)
				continue
			}
			killed++
		}
	}
	if killed == 0 {
		return fmt.Errorf("no running process matches %q", name)
	}
	return nil
}

type Shell struct{}

// Run executes a shell command with a hard 30 second bound; a hung
// command is killed when the deadline passes.
func (Shell) Run(ctx context.Context, line string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	out, err := exec.CommandContext(ctx, "sh", "-c", line).CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("run %q: %w", line, err)
	}
	return string(out), nil
}

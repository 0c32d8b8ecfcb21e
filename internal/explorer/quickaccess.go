package explorer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
)

// DefaultQuickAccess returns the home directory and the usual user folders
// that exist on this machine.
func DefaultQuickAccess() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	out := []string{home}
	for _, name := range []string{"Documents", "Desktop", "Downloads", "Pictures"} {
		p := filepath.Join(home, name)
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			out = append(out, p)
		}
	}
	return out
}

// QuickAccess returns the quick-access locations in display order
func (e *Explorer) QuickAccess() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.quick)
}

// AddQuickAccess appends path unless it is already present.
// It reports whether the list changed.
func (e *Explorer) AddQuickAccess(path string) (bool, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return false, fmt.Errorf("quick access %s: %w", path, err)
	}
	if !info.IsDir() {
		return false, fmt.Errorf("quick access %s: %w", path, ErrNotDirectory)
	}

	e.mu.Lock()
	if slices.Contains(e.quick, abs) {
		e.mu.Unlock()
		return false, nil
	}
	e.quick = append(e.quick, abs)
	snapshot := slices.Clone(e.quick)
	e.mu.Unlock()

	return true, e.persistQuickAccess(snapshot)
}

// RemoveQuickAccess drops path. It reports whether the list changed.
func (e *Explorer) RemoveQuickAccess(path string) (bool, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false, err
	}

	e.mu.Lock()
	i := slices.Index(e.quick, abs)
	if i < 0 {
		e.mu.Unlock()
		return false, nil
	}
	e.quick = slices.Delete(e.quick, i, i+1)
	snapshot := slices.Clone(e.quick)
	e.mu.Unlock()

	return true, e.persistQuickAccess(snapshot)
}

func (e *Explorer) persistQuickAccess(quick []string) error {
	if e.cfg == nil || e.cfgSvc == nil {
		return nil
	}
	e.cfg.UI.QuickAccess = quick
	if err := e.cfgSvc.Save(e.cfg); err != nil {
		e.log.Warn("quick_access_save_failed", slog.String("error", err.Error()))
		return fmt.Errorf("save quick access: %w", err)
	}
	return nil
}

// Package viewmodel holds the interactive state of one plot session: the selected weekdays
// and the color mode flag.
package viewmodel

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/atomic"

	"github.com/belphemur/sleep-scatter/internal/constants"
)

// ErrUnknownDay is returned when a day is not one of the seven weekday names
var ErrUnknownDay = errors.New("unknown day of week")

// ViewModel is safe for concurrent use
type ViewModel struct {
	mu       sync.RWMutex
	selected map[string]bool
	colors   *atomic.Bool
}

// New returns a view model with every weekday selected and the given color mode
func New(mode constants.ColorMode) *ViewModel {
	vm := &ViewModel{
		selected: make(map[string]bool, len(constants.Weekdays)),
		colors:   atomic.NewBool(mode.Enabled()),
	}
	for _, day := range constants.Weekdays {
		vm.selected[day] = true
	}
	return vm
}

// Restore rebuilds a view model from persisted state.
// Unknown day names are rejected so the selection stays a subset of the weekdays.
func Restore(days []string, colors bool) (*ViewModel, error) {
	vm := &ViewModel{
		selected: make(map[string]bool, len(days)),
		colors:   atomic.NewBool(colors),
	}
	for _, day := range days {
		if !constants.IsValidDayOfWeek(day) {
			return nil, fmt.Errorf("failed to restore selection: %w: %q", ErrUnknownDay, day)
		}
		vm.selected[day] = true
	}
	return vm, nil
}

// IsSelected reports whether points of day are shown
func (vm *ViewModel) IsSelected(day string) bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.selected[day]
}

// SetDay adds day to or removes it from the selection.
// It reports whether the selection changed.
func (vm *ViewModel) SetDay(day string, checked bool) (bool, error) {
	if !constants.IsValidDayOfWeek(day) {
		return false, fmt.Errorf("%w: %q", ErrUnknownDay, day)
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.selected[day] == checked {
		return false, nil
	}
	if checked {
		vm.selected[day] = true
	} else {
		delete(vm.selected, day)
	}
	return true, nil
}

// ToggleDay flips the selection of day and returns its new state
func (vm *ViewModel) ToggleDay(day string) (bool, error) {
	if !constants.IsValidDayOfWeek(day) {
		return false, fmt.Errorf("%w: %q", ErrUnknownDay, day)
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.selected[day] {
		delete(vm.selected, day)
		return false, nil
	}
	vm.selected[day] = true
	return true, nil
}

// SelectedDays returns the selection in weekday order
func (vm *ViewModel) SelectedDays() []string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	days := make([]string, 0, len(vm.selected))
	for _, day := range constants.Weekdays {
		if vm.selected[day] {
			days = append(days, day)
		}
	}
	return days
}

// ColorsEnabled reports whether points are tinted by weekday
func (vm *ViewModel) ColorsEnabled() bool {
	return vm.colors.Load()
}

// ColorMode is the display flag as a ColorMode
func (vm *ViewModel) ColorMode() constants.ColorMode {
	return constants.ColorModeFor(vm.ColorsEnabled())
}

// ToggleColors flips the display flag and returns the new value
func (vm *ViewModel) ToggleColors() bool {
	return !vm.colors.Toggle()
}

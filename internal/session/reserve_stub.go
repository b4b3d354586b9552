//go:build !linux

package session

import "log/slog"

// NewReserveMonitor returns an inert monitor on platforms without D-Bus.
// Device reservation is only supported on Linux.
func NewReserveMonitor(_ string, _ *slog.Logger) (Monitor, error) {
	return NewHub(), nil
}

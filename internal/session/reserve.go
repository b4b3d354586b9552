//go:build linux

package session

import (
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
)

const (
	reserveInterface = "org.freedesktop.ReserveDevice1"
	reservePrefix    = "org.freedesktop.ReserveDevice1."
	reservePathBase  = "/org/freedesktop/ReserveDevice1/"
)

// ReserveMonitor implements the freedesktop audio-device reservation
// protocol (org.freedesktop.ReserveDevice1) on the D-Bus session bus. It
// holds the reservation name for a device ("Audio0" by default); when
// another process takes the name, or asks us to release it, the monitor
// emits Began, and emits Ended once the name is ours again.
type ReserveMonitor struct {
	hub    *Hub
	conn   *dbus.Conn
	name   string
	log    *slog.Logger
	done   chan struct{}
	closed chan struct{}
}

var _ Monitor = (*ReserveMonitor)(nil)

// NewReserveMonitor acquires the reservation for device and starts watching
// for ownership changes. Fails if the bus is unavailable or another process
// holds the reservation at a higher priority.
func NewReserveMonitor(device string, logger *slog.Logger) (*ReserveMonitor, error) {
	if device == "" {
		device = "Audio0"
	}
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("session bus: %w", err)
	}

	m := &ReserveMonitor{
		hub:    NewHub(),
		conn:   conn,
		name:   reservePrefix + device,
		log:    logger,
		done:   make(chan struct{}),
		closed: make(chan struct{}),
	}

	// Allow replacement so a higher-priority audio app can take the device;
	// losing the name is our interruption signal.
	reply, err := conn.RequestName(m.name,
		dbus.NameFlagAllowReplacement|dbus.NameFlagDoNotQueue)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", m.name, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return nil, fmt.Errorf("device %s already reserved", device)
	}

	if err := m.export(); err != nil {
		return nil, err
	}

	if err := conn.AddMatchSignal(
		dbus.WithMatchSender("org.freedesktop.DBus"),
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameLost"),
	); err != nil {
		return nil, fmt.Errorf("match NameLost: %w", err)
	}
	if err := conn.AddMatchSignal(
		dbus.WithMatchSender("org.freedesktop.DBus"),
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameAcquired"),
	); err != nil {
		return nil, fmt.Errorf("match NameAcquired: %w", err)
	}

	go m.watch()
	return m, nil
}

// export publishes the ReserveDevice1 object so other players can negotiate.
func (m *ReserveMonitor) export() error {
	path := dbus.ObjectPath(reservePathBase + m.name[len(reservePrefix):])
	return m.conn.Export(reserveObject{m}, path, reserveInterface)
}

// watch turns bus ownership changes into session events.
func (m *ReserveMonitor) watch() {
	defer close(m.closed)

	signals := make(chan *dbus.Signal, 16)
	m.conn.Signal(signals)
	defer m.conn.RemoveSignal(signals)

	for {
		select {
		case <-m.done:
			return
		case sig, ok := <-signals:
			if !ok {
				return
			}
			if len(sig.Body) != 1 {
				continue
			}
			name, _ := sig.Body[0].(string)
			if name != m.name {
				continue
			}
			switch sig.Name {
			case "org.freedesktop.DBus.NameLost":
				m.log.Info("audio device reservation lost", "name", name)
				m.hub.Emit(Began)
				// Queue to get the device back once the taker releases it
				_, err := m.conn.RequestName(m.name, dbus.NameFlagAllowReplacement)
				if err != nil {
					m.log.Warn("re-request reservation", "err", err)
				}
			case "org.freedesktop.DBus.NameAcquired":
				m.log.Info("audio device reservation acquired", "name", name)
				m.hub.Emit(Ended)
			}
		}
	}
}

// Events returns the session event stream.
func (m *ReserveMonitor) Events() <-chan Event { return m.hub.Events() }

// Close releases the reservation and stops the watcher.
func (m *ReserveMonitor) Close() error {
	close(m.done)
	_, err := m.conn.ReleaseName(m.name)
	<-m.closed
	m.hub.Close()
	return err
}

// reserveObject answers ReserveDevice1 method calls from other players.
type reserveObject struct {
	m *ReserveMonitor
}

// RequestRelease is called by another player that wants the device. We
// always yield: the interruption flow pauses playback and resumes when the
// name comes back.
func (o reserveObject) RequestRelease(priority int32) (bool, *dbus.Error) {
	o.m.log.Info("audio device release requested", "priority", priority)
	if _, err := o.m.conn.ReleaseName(o.m.name); err != nil {
		return false, dbus.MakeFailedError(err)
	}
	o.m.hub.Emit(Began)
	// Queue behind the new owner so NameAcquired fires when it lets go
	if _, err := o.m.conn.RequestName(o.m.name, dbus.NameFlagAllowReplacement); err != nil {
		o.m.log.Warn("re-request reservation", "err", err)
	}
	return true, nil
}

// Package notify talks to the desktop over the D-Bus session bus.
// It shows notifications through org.freedesktop.Notifications and
// re-broadcasts every status change as a StatusChanged signal, so that
// shell extensions and scripts can follow the VPN state.
package notify

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/yllada/adguardvpn-desktop/adguard"
	"github.com/yllada/adguardvpn-desktop/common"
)

const (
	notificationsName   = "org.freedesktop.Notifications"
	notificationsPath   = "/org/freedesktop/Notifications"
	notificationsNotify = notificationsName + ".Notify"

	// StatusChangedSignal is the member emitted on common.DBusInterface.
	StatusChangedSignal = "StatusChanged"

	iconConnected    = "network-vpn"
	iconDisconnected = "network-vpn-disconnected"
	expireDefault    = int32(-1)
)

// caller is the part of dbus.BusObject used for notifications.
type caller interface {
	Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// emitter is the part of *dbus.Conn used for signals.
type emitter interface {
	Emit(path dbus.ObjectPath, name string, values ...interface{}) error
}

// Desktop sends notifications and status signals on the session bus.
// It implements common.Notifier and is safe for concurrent use.
type Desktop struct {
	conn          *dbus.Conn
	notifications caller
	signals       emitter

	mu       sync.Mutex
	lastID   uint32
	disabled bool
}

// Connect opens a private connection to the session bus.
func Connect() (*Desktop, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connecting to session bus: %w", err)
	}
	d := newDesktop(conn.Object(notificationsName, notificationsPath), conn)
	d.conn = conn
	return d, nil
}

func newDesktop(notifications caller, signals emitter) *Desktop {
	return &Desktop{notifications: notifications, signals: signals}
}

// Notify shows a desktop notification. Each notification replaces the
// previous one, so rapid status changes do not pile up.
func (d *Desktop) Notify(title, message string, urgency common.Urgency) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.disabled {
		return nil
	}

	icon := iconConnected
	if urgency != common.UrgencyLow {
		icon = iconDisconnected
	}
	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(byte(urgency)),
	}

	call := d.notifications.Call(notificationsNotify, 0,
		common.AppName, d.lastID, icon, title, message, []string{}, hints, expireDefault)

	var id uint32
	if err := call.Store(&id); err != nil {
		return fmt.Errorf("sending notification: %w", err)
	}
	d.lastID = id
	return nil
}

// Disable turns Notify into a no-op. Status signals are still emitted.
func (d *Desktop) Disable() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.disabled = true
}

// EmitStatus broadcasts status as
// StatusChanged(connected bool, connecting bool, city string, country string, mode string).
func (d *Desktop) EmitStatus(status *adguard.Status) error {
	if status == nil {
		status = &adguard.Status{}
	}
	var city, country string
	if status.Location != nil {
		city, country = status.Location.City, status.Location.Country
	}

	err := d.signals.Emit(dbus.ObjectPath(common.DBusObjectPath),
		common.DBusInterface+"."+StatusChangedSignal,
		status.Connected, status.Connecting, city, country, status.Mode)
	if err != nil {
		return fmt.Errorf("emitting %s: %w", StatusChangedSignal, err)
	}
	return nil
}

// Subscriber registers handlers for named signals.
type Subscriber interface {
	Subscribe(signal string, handler func(payload any)) func()
}

// Forward emits a StatusChanged signal for every status-changed event.
// The returned function stops forwarding.
func (d *Desktop) Forward(events Subscriber) func() {
	return events.Subscribe(common.SignalStatusChanged, func(payload any) {
		var status *adguard.Status
		switch p := payload.(type) {
		case *adguard.Status:
			status = p
		case adguard.Status:
			status = &p
		default:
			return
		}
		if err := d.EmitStatus(status); err != nil {
			common.LogDebug("notify: %v", err)
		}
	})
}

// Close closes the bus connection opened by Connect.
func (d *Desktop) Close() error {
	if d.conn == nil {
		return nil
	}
	return d.conn.Close()
}

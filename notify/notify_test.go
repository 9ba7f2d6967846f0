package notify

import (
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yllada/adguardvpn-desktop/adguard"
	"github.com/yllada/adguardvpn-desktop/common"
	"github.com/yllada/adguardvpn-desktop/events"
)

type fakeCaller struct {
	methods []string
	args    [][]interface{}
	nextID  uint32
	err     error
}

func (f *fakeCaller) Call(method string, _ dbus.Flags, args ...interface{}) *dbus.Call {
	f.methods = append(f.methods, method)
	f.args = append(f.args, args)
	if f.err != nil {
		return &dbus.Call{Err: f.err}
	}
	f.nextID++
	return &dbus.Call{Body: []interface{}{f.nextID}}
}

type signal struct {
	path   dbus.ObjectPath
	name   string
	values []interface{}
}

type fakeEmitter struct {
	signals []signal
	err     error
}

func (f *fakeEmitter) Emit(path dbus.ObjectPath, name string, values ...interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.signals = append(f.signals, signal{path, name, values})
	return nil
}

func TestNotify(t *testing.T) {
	caller := &fakeCaller{}
	desktop := newDesktop(caller, &fakeEmitter{})

	require.NoError(t, desktop.Notify("VPN connected", "Connected to Paris (TUN)", common.UrgencyLow))
	require.NoError(t, desktop.Notify("VPN disconnected", "", common.UrgencyNormal))

	require.Equal(t, []string{"org.freedesktop.Notifications.Notify", "org.freedesktop.Notifications.Notify"}, caller.methods)

	first := caller.args[0]
	assert.Equal(t, common.AppName, first[0])
	assert.Equal(t, uint32(0), first[1])
	assert.Equal(t, "network-vpn", first[2])
	assert.Equal(t, "VPN connected", first[3])
	assert.Equal(t, "Connected to Paris (TUN)", first[4])
	assert.Equal(t, dbus.MakeVariant(byte(common.UrgencyLow)), first[6].(map[string]dbus.Variant)["urgency"])
	assert.Equal(t, int32(-1), first[7])

	// The second notification replaces the first.
	second := caller.args[1]
	assert.Equal(t, uint32(1), second[1])
	assert.Equal(t, "network-vpn-disconnected", second[2])
}

func TestNotify_Error(t *testing.T) {
	desktop := newDesktop(&fakeCaller{err: errors.New("no notification daemon")}, &fakeEmitter{})
	assert.Error(t, desktop.Notify("title", "message", common.UrgencyCritical))
}

func TestNotify_Disabled(t *testing.T) {
	caller := &fakeCaller{}
	desktop := newDesktop(caller, &fakeEmitter{})
	desktop.Disable()

	require.NoError(t, desktop.Notify("title", "message", common.UrgencyLow))
	assert.Empty(t, caller.methods)
}

func TestEmitStatus(t *testing.T) {
	tests := []struct {
		name   string
		status *adguard.Status
		want   []interface{}
	}{
		{"nil", nil, []interface{}{false, false, "", "", ""}},
		{"connecting", &adguard.Status{Connecting: true}, []interface{}{false, true, "", "", ""}},
		{
			"connected",
			&adguard.Status{Connected: true, Mode: "tun", Location: &adguard.Location{City: "Paris", Country: "France"}},
			[]interface{}{true, false, "Paris", "France", "tun"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emitter := &fakeEmitter{}
			desktop := newDesktop(&fakeCaller{}, emitter)

			require.NoError(t, desktop.EmitStatus(tt.status))
			require.Len(t, emitter.signals, 1)
			assert.Equal(t, dbus.ObjectPath(common.DBusObjectPath), emitter.signals[0].path)
			assert.Equal(t, common.DBusInterface+".StatusChanged", emitter.signals[0].name)
			assert.Equal(t, tt.want, emitter.signals[0].values)
		})
	}
}

func TestForward(t *testing.T) {
	emitter := &fakeEmitter{}
	desktop := newDesktop(&fakeCaller{}, emitter)
	hub := events.NewHub()

	stop := desktop.Forward(hub)
	hub.Publish(common.SignalStatusChanged, &adguard.Status{Connected: true})
	hub.Publish(common.SignalStatusChanged, adguard.Status{Connecting: true})
	hub.Publish(common.SignalStatusChanged, 42)
	stop()
	hub.Publish(common.SignalStatusChanged, &adguard.Status{})

	require.Len(t, emitter.signals, 2)
	assert.Equal(t, true, emitter.signals[0].values[0])
	assert.Equal(t, true, emitter.signals[1].values[1])
}

func TestClose_WithoutConnection(t *testing.T) {
	assert.NoError(t, newDesktop(&fakeCaller{}, &fakeEmitter{}).Close())
}

package ipc

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "ctl.sock")

	got := make(chan ControlMessage, 1)
	require.NoError(t, StartServer(socket, func(msg ControlMessage) {
		got <- msg
	}))

	require.NoError(t, Send(socket, ControlMessage{Cmd: "say", Arg: "hello"}))

	select {
	case msg := <-got:
		assert.Equal(t, "say", msg.Cmd)
		assert.Equal(t, "hello", msg.Arg)
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
}

func TestSendWithoutDaemon(t *testing.T) {
	err := Send(filepath.Join(t.TempDir(), "missing.sock"), ControlMessage{Cmd: "trigger"})
	assert.Error(t, err)
}

package callback

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proxyauth/internal/widget/models"
)

func newTestInvoker() (*Invoker, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, nil))
	return New(logger, nil), buf
}

func TestInvoker_SuccessDeliversPayload(t *testing.T) {
	inv, _ := newTestInvoker()

	var got models.Payload
	inv.Success(func(p models.Payload) { got = p }, models.Payload{Action: "leave"})

	assert.Equal(t, "leave", got.Action)
}

func TestInvoker_FailureDeliversError(t *testing.T) {
	inv, _ := newTestInvoker()

	boom := errors.New("boom")
	var got error
	inv.Failure(func(err error) { got = err }, boom)

	assert.Equal(t, boom, got)
}

func TestInvoker_NilCallbacksAreNoOps(t *testing.T) {
	inv, _ := newTestInvoker()

	assert.NotPanics(t, func() {
		inv.Success(nil, models.Payload{Action: "leave"})
		inv.Failure(nil, errors.New("boom"))
	})
}

func TestInvoker_RecoversPanickingSuccessCallback(t *testing.T) {
	inv, buf := newTestInvoker()

	require.NotPanics(t, func() {
		inv.Success(func(models.Payload) { panic("host bug") }, models.Payload{Action: "update"})
	})
	assert.Contains(t, buf.String(), "host callback panicked")
	assert.Contains(t, buf.String(), "host bug")
}

func TestInvoker_RecoversPanickingFailureCallback(t *testing.T) {
	inv, buf := newTestInvoker()

	require.NotPanics(t, func() {
		inv.Failure(func(error) { panic("failure handler bug") }, errors.New("original"))
	})
	assert.Contains(t, buf.String(), "host callback panicked")
}

func TestInvoker_RuntimeContinuesAfterPanic(t *testing.T) {
	inv, _ := newTestInvoker()

	inv.Success(func(models.Payload) { panic("first") }, models.Payload{})

	delivered := false
	inv.Success(func(models.Payload) { delivered = true }, models.Payload{})
	assert.True(t, delivered, "invoker must stay usable after a recovered panic")
}

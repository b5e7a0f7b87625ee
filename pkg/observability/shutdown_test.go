package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownManager_RunsStepsInOrder(t *testing.T) {
	logger, _ := test.NewNullLogger()
	sm := NewShutdownManager(logger, time.Second)

	var order []string
	sm.RegisterShutdownFunc("first", func(context.Context) error {
		order = append(order, "first")
		return nil
	})
	sm.RegisterShutdownFunc("second", func(context.Context) error {
		order = append(order, "second")
		return nil
	})

	require.NoError(t, sm.Shutdown(context.Background()))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestShutdownManager_JoinsErrors(t *testing.T) {
	logger, hook := test.NewNullLogger()
	sm := NewShutdownManager(logger, time.Second)

	boom := errors.New("boom")
	ran := false
	sm.RegisterShutdownFunc("database", func(context.Context) error { return boom })
	sm.RegisterShutdownFunc("tracing", func(context.Context) error {
		ran = true
		return nil
	})

	err := sm.Shutdown(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.True(t, ran)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "database", hook.LastEntry().Data["step"])
}

func TestShutdownManager_DrainsServers(t *testing.T) {
	logger, _ := test.NewNullLogger()
	sm := NewShutdownManager(logger, 0)
	assert.Equal(t, 30*time.Second, sm.timeout)

	ts := httptest.NewUnstartedServer(http.NotFoundHandler())
	ts.Start()
	defer ts.Close()
	sm.AddServer(ts.Config)

	require.NoError(t, sm.Shutdown(context.Background()))

	_, err := http.Get(ts.URL)
	assert.Error(t, err)
}

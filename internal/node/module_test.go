package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-tasknode/config"
	"github.com/dep2p/go-tasknode/internal/core/metrics"
	"github.com/dep2p/go-tasknode/pkg/interfaces"
)

func TestModule_Lifecycle(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Diagnostics.EnableMetrics = false
	cfg.Executor.Name = "reverse"

	var (
		n     *Node
		iface interfaces.Node
	)
	app := fxtest.New(t,
		fx.Supply(cfg),
		fx.Supply(testConfig("127.0.0.1").Transport),
		metrics.Module,
		Module(),
		fx.Populate(&n, &iface),
	)
	app.RequireStart()

	require.NotNil(t, n)
	assert.Same(t, n, iface)
	assert.True(t, n.Running())
	assert.Equal(t, "reverse", n.exec.Name())

	app.RequireStop()
	assert.Equal(t, "stopped", n.State())
}

func TestModule_UnknownExecutor(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Diagnostics.EnableMetrics = false
	cfg.Executor.Name = "nope"

	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg),
		fx.Supply(testConfig("127.0.0.1").Transport),
		metrics.Module,
		Module(),
		fx.Invoke(func(*Node) {}),
	)
	assert.Error(t, app.Err())
}

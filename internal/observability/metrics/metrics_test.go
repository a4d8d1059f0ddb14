package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecordEngineActivity(t *testing.T) {
	Init(prometheus.NewRegistry())

	before := testutil.ToFloat64(ticksTotal)
	IncTick()
	IncTick()
	assert.Equal(t, before+2, testutil.ToFloat64(ticksTotal))

	IncCompletion()
	assert.GreaterOrEqual(t, testutil.ToFloat64(completionsTotal), 1.0)

	SetActiveCountdowns(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(activeCountdowns))

	ObserveCommand("start", nil)
	ObserveCommand("start", errors.New("boom"))
	assert.Equal(t, 1.0, testutil.ToFloat64(commandsTotal.WithLabelValues("start", resultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(commandsTotal.WithLabelValues("start", resultError)))

	ObserveSnapshotWrite("timers", errors.New("disk full"))
	assert.Equal(t, 1.0, testutil.ToFloat64(snapshotWrites.WithLabelValues("timers", resultError)))
}

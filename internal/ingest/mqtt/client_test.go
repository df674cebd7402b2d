package mqtt

import (
	"context"
	"testing"

	dr "disaster_response"
	"disaster_response/internal/config"
	"disaster_response/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePipeline struct {
	batches [][]dr.SensorReading
	sources []string
}

func (p *fakePipeline) Run(_ context.Context, rs []dr.SensorReading, source string) (service.PipelineResult, error) {
	p.batches = append(p.batches, rs)
	p.sources = append(p.sources, source)
	return service.PipelineResult{PipelineStatus: service.PipelineCompleted}, nil
}

func (p *fakePipeline) StepNames() []string { return nil }

func newTestClient(t *testing.T, pipe service.Pipeline) *Client {
	t.Helper()
	c, err := NewClient(config.MQTTConfig{Broker: "tcp://localhost:1883", ClientID: "test", Topic: "sensors/#"}, pipe, nil)
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresBroker(t *testing.T) {
	t.Parallel()

	_, err := NewClient(config.MQTTConfig{Topic: "sensors"}, &fakePipeline{}, nil)
	assert.ErrorIs(t, err, ErrNoBroker)
}

func TestClient_ProcessMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		payload   string
		wantCount int
	}{
		{name: "wrapped document", payload: `{"sensor_data": [{"location": "Zone A", "temperature": 60, "smoke_level": 10}]}`, wantCount: 1},
		{name: "bare reading", payload: `{"location": "Zone B", "temperature": 20, "smoke_level": 5}`, wantCount: 1},
		{name: "bare array", payload: `[{"temperature": 20, "smoke_level": 5}, {"temperature": 40, "smoke_level": 5}]`, wantCount: 2},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			pipe := &fakePipeline{}
			c := newTestClient(t, pipe)

			c.processMessage("sensors/zone-a", []byte(tc.payload))

			require.Len(t, pipe.batches, 1)
			assert.Len(t, pipe.batches[0], tc.wantCount)
			assert.Equal(t, "mqtt:sensors/zone-a", pipe.sources[0])
		})
	}
}

func TestClient_ProcessMessage_DropsInvalidPayloads(t *testing.T) {
	t.Parallel()

	for _, payload := range []string{``, `not json`, `{"sensor_data": null}`, `{"temperature": "hot", "smoke_level": 1}`} {
		pipe := &fakePipeline{}
		newTestClient(t, pipe).processMessage("sensors", []byte(payload))
		assert.Empty(t, pipe.batches, "payload %q should be dropped", payload)
	}
}

package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_RoundTrip(t *testing.T) {
	type payload struct {
		ID    string  `json:"id"`
		Price float64 `json:"price"`
	}

	ev, err := NewEvent("plantnet.plant.created", "p1", "plant-service", payload{ID: "p1", Price: 30})
	require.NoError(t, err)
	assert.NotEmpty(t, ev.EventID)
	assert.False(t, ev.Timestamp.IsZero())

	raw, err := ev.Marshal()
	require.NoError(t, err)

	decoded, err := UnmarshalEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, ev.EventID, decoded.EventID)
	assert.Equal(t, "plantnet.plant.created", decoded.EventType)

	var data payload
	require.NoError(t, decoded.UnmarshalData(&data))
	assert.Equal(t, "p1", data.ID)
	assert.Equal(t, 30.0, data.Price)
}

func TestUnmarshalEvent_InvalidJSON(t *testing.T) {
	_, err := UnmarshalEvent([]byte("not json"))
	assert.Error(t, err)
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "plantnet.plant.deleted", Topic("plant", "deleted"))
}

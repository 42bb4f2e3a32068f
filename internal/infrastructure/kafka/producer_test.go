package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeMessage(t *testing.T) {
	at := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	event := map[string]any{"order_id": "order-1", "amount": 14220}

	msg, err := encodeMessage("order-1", event, at)

	require.NoError(t, err)
	assert.Equal(t, []byte("order-1"), msg.Key)
	assert.Equal(t, at, msg.Time)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "order-1", decoded["order_id"])
	assert.Equal(t, float64(14220), decoded["amount"])
}

func TestEncodeMessage_Unencodable(t *testing.T) {
	_, err := encodeMessage("k", make(chan int), time.Now())

	assert.Error(t, err)
}

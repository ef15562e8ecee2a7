package types

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInterNodeMessageType_WireValues(t *testing.T) {
	tests := []struct {
		t    InterNodeMessageType
		wire int32
		want string
	}{
		{InterNodeNone, 0, "None"},
		{InterNodeAddToCache, 1, "AddToCache"},
		{InterNodeAddToQueue, 2, "AddToQueue"},
		{InterNodeRemoveFromCache, 3, "RemoveFromCache"},
		{InterNodeRemoveFromQueue, 4, "RemoveFromQueue"},
		{InterNodeChangeStateInQueue, 5, "ChangeMessageStateInQueue"},
		{InterNodeNewNodeDiscovered, 6, "NewNodeDiscovered"},
		{InterNodeFullCacheUpdateSent, 7, "FullCacheUpdateSent"},
		{InterNodeFullCacheUpdateReceived, 8, "FullCacheUpdateReceived"},
		{InterNodeFullQueueUpdateSent, 9, "FullQueueUpdateSent"},
		{InterNodeFullQueueUpdateReceived, 10, "FullQueueUpdateReceived"},
		{InterNodeStartUp, 11, "StartUp"},
		{InterNodeMessageType(12), 12, "Unknown"},
		{InterNodeMessageType(-1), -1, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.wire, int32(tt.t))
			assert.Equal(t, tt.want, tt.t.String())
		})
	}
}

func TestEnumWireValues(t *testing.T) {
	assert.EqualValues(t, 3, ClientTimeoutPrevention)
	assert.EqualValues(t, 4, BroadcastMasterNodeResponse)
	assert.EqualValues(t, 3, StateFinished)
	assert.EqualValues(t, 5, PriorityHighest)
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority("high")
	assert.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	_, err = ParsePriority("urgent")
	assert.ErrorIs(t, err, ErrInvalidPriority)
}

func TestTask_Validate(t *testing.T) {
	ok := Task{Tag: "t", Payload: []byte("x"), Priority: PriorityNormal, State: StateRunnable}
	assert.NoError(t, ok.Validate())

	noTag := ok
	noTag.Tag = ""
	assert.ErrorIs(t, noTag.Validate(), ErrEmptyTag)

	noPayload := ok
	noPayload.Payload = nil
	assert.ErrorIs(t, noPayload.Validate(), ErrEmptyPayload)

	badPriority := ok
	badPriority.Priority = 9
	assert.ErrorIs(t, badPriority.Validate(), ErrInvalidPriority)

	badState := ok
	badState.State = 7
	assert.ErrorIs(t, badState.Validate(), ErrInvalidState)
}

func TestTask_Before(t *testing.T) {
	now := time.Now().UTC()
	high := Task{Priority: PriorityHigh, CreatedAt: now.Add(time.Second)}
	low := Task{Priority: PriorityLow, CreatedAt: now}
	early := Task{Priority: PriorityHigh, CreatedAt: now}

	assert.True(t, high.Before(low))
	assert.False(t, low.Before(high))
	assert.True(t, early.Before(high))
}

func TestClone_DetachesPayload(t *testing.T) {
	task := Task{Payload: []byte("abc")}
	c := task.Clone()
	c.Payload[0] = 'z'
	assert.Equal(t, "abc", string(task.Payload))

	snap := CacheSnapshot{"k": {Payload: []byte("v"), Source: netip.MustParseAddr("10.0.0.1")}}
	cs := snap.Clone()
	cs["k"].Payload[0] = 'w'
	assert.Equal(t, "v", string(snap["k"].Payload))
	assert.True(t, snap["k"].Equal(ResultEntry{Payload: []byte("v"), Source: netip.MustParseAddr("10.0.0.1")}))
}

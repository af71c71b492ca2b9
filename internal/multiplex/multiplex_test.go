package multiplex_test

import (
	"testing"

	"github.com/gnss-tools/hazer-go/internal/multiplex"
	"github.com/gnss-tools/hazer-go/internal/nmea"
	"github.com/gnss-tools/hazer-go/internal/ubx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ubxFrame(class, id byte, payload []byte) []byte {
	length := []byte{byte(len(payload)), byte(len(payload) >> 8)}
	region := append(append([]byte{class, id}, length...), payload...)
	ckA, ckB := ubx.Fletcher16(region)
	frame := append([]byte{ubx.Sync1, ubx.Sync2}, region...)
	return append(frame, ckA, ckB)
}

func feedAll(mux *multiplex.Multiplexer, bs []byte) []multiplex.Event {
	var events []multiplex.Event
	for _, b := range bs {
		events = append(events, mux.Feed(b))
	}
	return events
}

func TestRecognizesNMEAAmongMultipleFramers(t *testing.T) {
	mux := multiplex.New(0, nil, nmea.New(), ubx.New())
	sentence := "$GNZDA,171305.00,12,05,2023,-12,45*53\r\n"

	var got *multiplex.Event
	for _, b := range sentence {
		e := mux.Feed(byte(b))
		if e.Kind == multiplex.EventFrameReady {
			got = &e
		}
	}
	require.NotNil(t, got)
	assert.Equal(t, "NMEA-0183", got.Protocol)
}

func TestRecognizesUBXAmongMultipleFramers(t *testing.T) {
	mux := multiplex.New(0, nil, nmea.New(), ubx.New())
	frame := ubxFrame(0x01, 0x07, []byte{0xAA, 0xBB})

	var got *multiplex.Event
	for _, b := range frame {
		e := mux.Feed(b)
		if e.Kind == multiplex.EventFrameReady {
			got = &e
		}
	}
	require.NotNil(t, got)
	assert.Equal(t, "UBX", got.Protocol)
}

func TestBackToBackFrames(t *testing.T) {
	mux := multiplex.New(0, nil, nmea.New())
	sentence := "$GNZDA,171305.00,12,05,2023,-12,45*53\r\n"
	stream := sentence + sentence

	count := 0
	for _, b := range stream {
		if mux.Feed(byte(b)).Kind == multiplex.EventFrameReady {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestLostSyncReportsDiscardedBytes(t *testing.T) {
	var discarded []byte
	mux := multiplex.New(4, func(d []byte) {
		discarded = append([]byte(nil), d...)
	}, nmea.New())

	events := feedAll(mux, []byte{'x', 'y', 'z', 'w'})
	var sawLostSync bool
	for _, e := range events {
		if e.Kind == multiplex.EventLostSync {
			sawLostSync = true
		}
	}
	assert.True(t, sawLostSync)
	assert.Equal(t, []byte{'x', 'y', 'z', 'w'}, discarded)
}

func TestGarbageThenValidFrameRecovers(t *testing.T) {
	mux := multiplex.New(0, nil, nmea.New())
	stream := append([]byte("garbage"), []byte("$GNZDA,171305.00,12,05,2023,-12,45*53\r\n")...)

	var got *multiplex.Event
	for _, b := range stream {
		e := mux.Feed(b)
		if e.Kind == multiplex.EventFrameReady {
			got = &e
		}
	}
	require.NotNil(t, got)
	assert.Equal(t, "NMEA-0183", got.Protocol)
}

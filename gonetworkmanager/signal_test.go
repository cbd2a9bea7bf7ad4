package gonetworkmanager

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySignalBoundaries(t *testing.T) {
	tests := []struct {
		signal int
		want   SignalLevel
	}{
		{0, SignalNone},
		{19, SignalNone},
		{20, SignalWeak},
		{39, SignalWeak},
		{40, SignalOK},
		{59, SignalOK},
		{60, SignalGood},
		{79, SignalGood},
		{80, SignalExcellent},
		{100, SignalExcellent},
		{-10, SignalNone},
		{250, SignalExcellent},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifySignal(tt.signal), "signal %d", tt.signal)
	}
}

func TestClassifySignalMonotonic(t *testing.T) {
	prev := ClassifySignal(0)
	for s := 1; s <= 100; s++ {
		cur := ClassifySignal(s)
		assert.GreaterOrEqual(t, cur, prev, "signal %d", s)
		prev = cur
	}
}

func TestSignalLevelIconName(t *testing.T) {
	assert.Equal(t, "network-wireless-signal-excellent-symbolic", SignalExcellent.IconName())
	assert.Equal(t, "network-wireless-signal-ok-symbolic", ClassifySignal(45).IconName())
	assert.Equal(t, "network-wireless-signal-none-symbolic", AccessPoint{Signal: 3}.Level().IconName())
}

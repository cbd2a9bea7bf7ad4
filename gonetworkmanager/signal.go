package gonetworkmanager

// SignalLevel is a coarse bucket for a 0-100 signal strength.
type SignalLevel int

const (
	SignalNone SignalLevel = iota
	SignalWeak
	SignalOK
	SignalGood
	SignalExcellent
)

// ClassifySignal maps a signal strength to its bucket. Thresholds are
// inclusive lower bounds at 20, 40, 60 and 80.
func ClassifySignal(signal int) SignalLevel {
	switch {
	case signal >= 80:
		return SignalExcellent
	case signal >= 60:
		return SignalGood
	case signal >= 40:
		return SignalOK
	case signal >= 20:
		return SignalWeak
	default:
		return SignalNone
	}
}

func (l SignalLevel) String() string {
	switch l {
	case SignalExcellent:
		return "excellent"
	case SignalGood:
		return "good"
	case SignalOK:
		return "ok"
	case SignalWeak:
		return "weak"
	default:
		return "none"
	}
}

// IconName returns the freedesktop symbolic icon name for the level.
func (l SignalLevel) IconName() string {
	return "network-wireless-signal-" + l.String() + "-symbolic"
}

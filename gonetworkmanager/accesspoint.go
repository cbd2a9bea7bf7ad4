package gonetworkmanager

import (
	"sort"
	"strconv"
	"strings"
)

const (
	// HiddenNetworkSSID replaces an empty SSID in scan results.
	HiddenNetworkSSID = "Hidden network"

	noSecurityMarker = "--"
	inUseMarker      = "*"
	apFieldCount     = 4
)

// AccessPoint is one wireless network as seen by a scan. Several radios
// (BSSIDs) broadcasting the same SSID collapse into a single AccessPoint.
type AccessPoint struct {
	SSID   string `json:"ssid"`
	Signal int    `json:"signal"`
	Secure bool   `json:"secure"`
	Active bool   `json:"active"`
}

// Level returns the signal bucket of the access point.
func (ap AccessPoint) Level() SignalLevel { return ClassifySignal(ap.Signal) }

// merge folds another observation of the same SSID into ap.
func (ap *AccessPoint) merge(other AccessPoint) {
	if other.Signal > ap.Signal {
		ap.Signal = other.Signal
	}
	ap.Secure = ap.Secure || other.Secure
	ap.Active = ap.Active || other.Active
}

// parseAccessPointLine decodes an "IN-USE:SSID:SECURITY:SIGNAL" terse line.
// ok is false for lines with fewer than four fields.
func parseAccessPointLine(line string) (ap AccessPoint, ok bool) {
	fields := SplitEscaped(line, TerseSeparator)
	if len(fields) < apFieldCount {
		return AccessPoint{}, false
	}

	ssid := strings.TrimSpace(fields[1])
	if ssid == "" {
		ssid = HiddenNetworkSSID
	}
	security := strings.TrimSpace(fields[2])

	return AccessPoint{
		SSID:   ssid,
		Signal: parseSignal(fields[3]),
		Secure: security != "" && security != noSecurityMarker,
		Active: strings.Contains(fields[0], inUseMarker),
	}, true
}

func parseSignal(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	switch {
	case err != nil, v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

// ParseAccessPoints turns the output of
// `nmcli -t -f IN-USE,SSID,SECURITY,SIGNAL dev wifi list` into one record per
// SSID, ordered by SortAccessPoints. Malformed lines are skipped.
func ParseAccessPoints(output string) []AccessPoint {
	bySSID := make(map[string]*AccessPoint)

	for _, raw := range strings.Split(output, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		ap, ok := parseAccessPointLine(line)
		if !ok {
			continue
		}
		if existing, found := bySSID[ap.SSID]; found {
			existing.merge(ap)
			continue
		}
		bySSID[ap.SSID] = &ap
	}

	aps := make([]AccessPoint, 0, len(bySSID))
	for _, ap := range bySSID {
		aps = append(aps, *ap)
	}
	SortAccessPoints(aps)
	return aps
}

// SortAccessPoints orders the connected network first, then by descending
// signal, then by SSID ignoring case.
func SortAccessPoints(aps []AccessPoint) {
	sort.SliceStable(aps, func(i, j int) bool {
		a, b := aps[i], aps[j]
		if a.Active != b.Active {
			return a.Active
		}
		if a.Signal != b.Signal {
			return a.Signal > b.Signal
		}
		la, lb := strings.ToLower(a.SSID), strings.ToLower(b.SSID)
		if la != lb {
			return la < lb
		}
		return a.SSID < b.SSID
	})
}

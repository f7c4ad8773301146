package assistant

import (
	"regexp"
	"strconv"
	"strings"
)

// NullReply is the model's "cannot quote" marker.
const NullReply = "!null"

var (
	distanceRe = regexp.MustCompile(`!distance=(\d+(\.\d+)?)`)
	ongkirRe   = regexp.MustCompile(`!ongkir=(\d+)`)
	viewRe     = regexp.MustCompile(`!view=(https?://[^\s]+)`)
)

// Signals are the markers extracted from a model reply.
type Signals struct {
	Reply        string
	Distance     *float64
	ShippingCost *int64
	MapURL       *string
}

// ParseSignals extracts distance, shipping cost and map URL independently. Reply is
// "!ongkir=N" when a cost was found and "!null" otherwise.
func ParseSignals(raw string) Signals {
	raw = strings.TrimSpace(raw)
	out := Signals{Reply: NullReply}
	if raw == NullReply {
		return out
	}

	if m := distanceRe.FindStringSubmatch(raw); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			out.Distance = &v
		}
	}
	if m := ongkirRe.FindStringSubmatch(raw); m != nil {
		if v, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			out.ShippingCost = &v
			out.Reply = "!ongkir=" + m[1]
		}
	}
	if m := viewRe.FindStringSubmatch(raw); m != nil {
		u := m[1]
		out.MapURL = &u
	}
	return out
}

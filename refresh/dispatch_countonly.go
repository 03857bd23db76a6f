package refresh

import "github.com/sarchlab/meshrefresh/wire"

// BuildCountOnlyFrame announces a receiver's expected message total
// to a neighbor whose local guess may otherwise be wrong: the
// asymmetric case where a coarse block's neighbor enumeration and a
// fine block's neighbor enumeration of each other disagree in count.
func BuildCountOnlyFrame(refreshID uint32, expected int) wire.Frame {
	return wire.Frame{RefreshID: refreshID, Data: wire.DataMsg{Kind: wire.KindCountOnly, CountOnly: &wire.CountOnlyPayload{Expected: uint32(expected)}}}
}

// ApplyCountOnlyFrame forwards an arrived count_only message straight
// to Sync.SetStop. A count_only racing in after a refresh has already
// completed is absorbed: SetStop only records the count on the idle
// Sync, and the next Start overwrites it with that refresh's own stop.
func ApplyCountOnlyFrame(sync *Sync, payload *wire.CountOnlyPayload) error {
	return sync.SetStop(int(payload.Expected))
}

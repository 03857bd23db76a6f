package refresh

import (
	"context"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
)

// LevelTrace is a custom slog level one step below Info, used by
// Trace.
const LevelTrace slog.Level = slog.LevelInfo - 1

// Trace logs msg at LevelTrace. It is a debugging helper; no code path
// in this module calls it.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// SyncSnapshot is one row of a DumpSync table: one block's state for
// one refresh id.
type SyncSnapshot struct {
	BlockName string
	RefreshID uint32
	State     State
	Value     int
	Stop      int
	Pending   int
}

// DumpSync renders a table of Sync states. Intended for interactive
// debugging of a stuck refresh; it is never called from production
// code paths.
func DumpSync(rows []SyncSnapshot) string {
	t := table.NewWriter()
	t.SetTitle("Refresh Sync State")
	t.AppendHeader(table.Row{"Block", "RefreshID", "State", "Value", "Stop", "Pending"})
	for _, r := range rows {
		t.AppendRow(table.Row{r.BlockName, r.RefreshID, r.State.String(), r.Value, r.Stop, r.Pending})
	}
	return t.Render()
}

// Snapshot captures one block's current state for DumpSync, without
// holding the Sync's internal lock across the read (each field access
// below takes and releases it independently).
func (s *Sync) Snapshot(blockName string, refreshID uint32) SyncSnapshot {
	return SyncSnapshot{
		BlockName: blockName,
		RefreshID: refreshID,
		State:     s.State(),
		Value:     s.Value(),
		Stop:      s.Stop(),
		Pending:   s.PendingLen(),
	}
}

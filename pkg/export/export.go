// Package export writes simulation traces and reports.
package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/kilianp07/edfsim/core/edf"
	"github.com/kilianp07/edfsim/core/model"
)

// Trace formats.
const (
	FormatText  = "text"
	FormatJSONL = "jsonl"
	FormatCSV   = "csv"
)

// Formats lists the supported trace formats.
var Formats = []string{FormatText, FormatJSONL, FormatCSV}

// WriteTrace writes lines to w in the given format.
func WriteTrace(w io.Writer, format string, lines []model.TraceLine) error {
	switch format {
	case FormatText, "":
		return WriteText(w, lines)
	case FormatJSONL:
		return WriteJSONL(w, lines)
	case FormatCSV:
		return WriteCSV(w, lines)
	default:
		return fmt.Errorf("unsupported trace format: %s", format)
	}
}

// WriteText writes one "Time <t>: ..." line per tick.
func WriteText(w io.Writer, lines []model.TraceLine) error {
	bw := bufio.NewWriter(w)
	for _, l := range lines {
		if _, err := fmt.Fprintln(bw, l.String()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteJSONL writes one JSON object per tick.
func WriteJSONL(w io.Writer, lines []model.TraceLine) error {
	enc := json.NewEncoder(w)
	for _, l := range lines {
		if err := enc.Encode(l); err != nil {
			return err
		}
	}
	return nil
}

// WriteCSV writes the trace with a tick,state,task_id,voltage header.
func WriteCSV(w io.Writer, lines []model.TraceLine) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"tick", "state", "task_id", "voltage"}); err != nil {
		return err
	}
	for _, l := range lines {
		voltage := ""
		if l.State == model.StateRunning {
			voltage = model.FormatVoltage(l.Voltage)
		}
		rec := []string{
			strconv.FormatUint(uint64(l.Tick), 10),
			l.State.String(),
			l.TaskID,
			voltage,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteReport writes the run report, without the trace, as indented JSON.
func WriteReport(w io.Writer, rep *edf.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// WriteSummary writes a per-task table followed by the rejected tasks.
func WriteSummary(w io.Writer, rep *edf.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "run %s: %d running, %d context, %d idle ticks, mean voltage %.3f\n",
		rep.RunID, rep.Counts.Running, rep.Counts.Context, rep.Counts.Idle, rep.MeanVoltage)
	fmt.Fprintln(tw, "TASK\tARRIVAL\tDEADLINE\tEXECUTED\tCOMPLETED\tMISSED")
	for _, t := range rep.Tasks {
		completed := "-"
		if t.Completed {
			completed = strconv.FormatUint(uint64(t.CompletedAt), 10)
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d/%d\t%s\t%t\n",
			t.ID, t.Arrival, t.AbsoluteDeadline, t.Executed, t.Computation, completed, t.Missed)
	}
	for _, d := range rep.Rejected() {
		fmt.Fprintf(tw, "%s\t%d\trejected\tratio %s\t\t\n", d.Entry.Task.ID, d.Tick, model.FormatVoltage(d.Ratio))
	}
	return tw.Flush()
}

package workload

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/kilianp07/edfsim/core/model"
	"github.com/kilianp07/edfsim/core/queue"
)

// SpeedsLabel identifies the speed table line.
const SpeedsLabel = "Possible speeds"

var taskFields = [...]string{"arrival", "computation", "deadline", "context"}

// Parse reads a workload in the text format. The first line is a header
// and is skipped; blank lines are ignored.
func Parse(r io.Reader) (Workload, error) {
	var (
		entries []model.ArrivalEntry
		speeds  model.SpeedTable
	)
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if lineNo == 1 {
			continue
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		label, fields, err := splitLine(line, lineNo)
		if err != nil {
			return Workload{}, err
		}
		if label == SpeedsLabel {
			speeds, err = parseSpeeds(fields, line, lineNo)
			if err != nil {
				return Workload{}, err
			}
			continue
		}
		entry, err := parseTask(label, fields, line, lineNo)
		if err != nil {
			return Workload{}, err
		}
		entry.Order = len(entries)
		entries = append(entries, entry)
	}
	if err := sc.Err(); err != nil {
		return Workload{}, &IOError{Op: "read", Err: err}
	}
	return Workload{Arrivals: queue.NewArrivalQueue(entries...), Speeds: speeds}, nil
}

// splitLine tokenises "label: (f1, f2, ...)".
func splitLine(line string, lineNo int) (string, []string, error) {
	label, rest, ok := strings.Cut(line, ":")
	if !ok {
		return "", nil, &ParseError{Line: lineNo, Text: line, Kind: KindMissingSeparator, Field: ":"}
	}
	label = strings.TrimSpace(label)
	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, "(") {
		return "", nil, &ParseError{Line: lineNo, Text: line, Kind: KindMissingSeparator, Field: "("}
	}
	if !strings.HasSuffix(rest, ")") {
		return "", nil, &ParseError{Line: lineNo, Text: line, Kind: KindMissingSeparator, Field: ")"}
	}
	body := strings.TrimSpace(rest[1 : len(rest)-1])
	if body == "" {
		return label, nil, nil
	}
	fields := strings.Split(body, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return label, fields, nil
}

func parseTask(id string, fields []string, line string, lineNo int) (model.ArrivalEntry, error) {
	if len(fields) < len(taskFields) {
		return model.ArrivalEntry{}, &ParseError{Line: lineNo, Text: line, Kind: KindMissingSeparator, Field: ","}
	}
	if len(fields) > len(taskFields) {
		return model.ArrivalEntry{}, &ParseError{Line: lineNo, Text: line, Kind: KindFieldCount, Field: fields[len(taskFields)]}
	}
	var vals [4]uint64
	for i, f := range fields {
		bits := 16
		if i == 3 {
			bits = 8
		}
		v, err := strconv.ParseUint(f, 10, bits)
		if err != nil {
			return model.ArrivalEntry{}, numberError(err, taskFields[i], f, line, lineNo)
		}
		vals[i] = v
	}
	if vals[1] == 0 {
		return model.ArrivalEntry{}, &ParseError{Line: lineNo, Text: line, Kind: KindEmptyComputation, Field: taskFields[1]}
	}
	return model.ArrivalEntry{
		Task:    model.NewTask(id, uint16(vals[1]), uint16(vals[2]), uint8(vals[3])),
		Arrival: uint16(vals[0]),
	}, nil
}

func parseSpeeds(fields []string, line string, lineNo int) (model.SpeedTable, error) {
	speeds := make(model.SpeedTable, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, numberError(err, "speed", f, line, lineNo)
		}
		speeds = append(speeds, float32(v))
	}
	return speeds, nil
}

func numberError(err error, field, value, line string, lineNo int) error {
	kind := KindNonNumericField
	if errors.Is(err, strconv.ErrRange) {
		kind = KindFieldRangeOverflow
	}
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		err = numErr.Err
	}
	return &ParseError{Line: lineNo, Text: line, Kind: kind, Field: field + "=" + value, Err: err}
}

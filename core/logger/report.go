package logger

import (
	"encoding/json"
	"io"
	"sort"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var rawEntry json.RawMessage
		if err := decoder.Decode(&rawEntry); err != nil {
			return err
		}

		var msg structpb.Struct
		if err := protojson.Unmarshal(rawEntry, &msg); err != nil {
			return err
		}

		handler(fromMap(msg.AsMap()))
	}
	return nil
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int `json:"log_entries"`
	InvalidEntries int `json:"unknown_log_entries,omitempty"`

	RunCommand        RunCommandReport        `json:"run_command_report"`
	UnknownCommand    UnknownCommandReport    `json:"unknown_command_report"`
	InvalidInvocation InvalidInvocationReport `json:"invalid_invocation_report"`
}

// Update adds the entry to the report.
func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	switch event := le.Event.(type) {
	case *RunCommand:
		r.RunCommand.update(event)
	case *UnknownCommand:
		r.UnknownCommand.update(event)
	case *InvalidInvocation:
		r.InvalidInvocation.update(event)
	default:
		r.InvalidEntries++
	}
}

type RunCommandReport struct {
	// Name of the resolved command
	CommandNames StrCounter `json:"command_names"`
}

func (r *RunCommandReport) update(rc *RunCommand) {
	r.CommandNames.Increment(rc.ResolvedCommand)
}

type UnknownCommandReport struct {
	CommandNames StrCounter  `json:"command_names"`
	Errors       PathCounter `json:"errors"`
}

func (r *UnknownCommandReport) update(uc *UnknownCommand) {
	name := ""
	if len(uc.Command) > 0 {
		name = uc.Command[0]
	}
	r.CommandNames.Increment(name)
	r.Errors.Increment(name, uc.Error)
}

type InvalidInvocationReport struct {
	Kinds  StrCounter  `json:"kinds"`
	Errors PathCounter `json:"errors"`
}

func (r *InvalidInvocationReport) update(ii *InvalidInvocation) {
	r.Kinds.Increment(ii.Kind)
	r.Errors.Increment(ii.Kind, ii.Error)
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the count for a key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// MarshalJSON implements a custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	if s.internal == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.internal)
}

// PathCounter counts the number of string tuples seen.
type PathCounter struct {
	internal map[string]int
}

// Increment adds one to the given tuple.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if ctr.internal == nil {
		ctr.internal = make(map[string]int)
	}

	ctr.internal[toKey(toAdd...)]++
}

// Get returns the count for a tuple.
func (ctr *PathCounter) Get(vals ...string) int {
	return ctr.internal[toKey(vals...)]
}

// MarshalJSON implements a custom JSON marshaler, entries are ordered by
// descending count.
func (ctr PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count int      `json:"count"`
		Path  []string `json:"event"`
		key   string
	}

	out := []Count{}
	for k, v := range ctr.internal {
		out = append(out, Count{
			Count: v,
			Path:  fromKey(k),
			key:   k,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].key < out[j].key
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}

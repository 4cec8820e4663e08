package logger

// LogEntry is a single event in the log.
type LogEntry struct {
	TimestampMicros int64
	SessionID       string
	Event           LogType
}

// LogType is implemented by every event that can be stored in a LogEntry.
type LogType interface {
	eventName() string
	fields() map[string]interface{}
}

// RunCommand is logged when an external command is started.
type RunCommand struct {
	Command         []string
	ResolvedCommand string
}

func (*RunCommand) eventName() string { return "run_command" }

func (e *RunCommand) fields() map[string]interface{} {
	return map[string]interface{}{
		"command":          stringList(e.Command),
		"resolved_command": e.ResolvedCommand,
	}
}

// UnknownCommand is logged when a command couldn't be started.
type UnknownCommand struct {
	Command []string
	Error   string
}

func (*UnknownCommand) eventName() string { return "unknown_command" }

func (e *UnknownCommand) fields() map[string]interface{} {
	return map[string]interface{}{
		"command": stringList(e.Command),
		"error":   e.Error,
	}
}

// InvalidInvocation is logged when a line can't be run as written.
type InvalidInvocation struct {
	Command []string
	Kind    string
	Error   string
}

func (*InvalidInvocation) eventName() string { return "invalid_invocation" }

func (e *InvalidInvocation) fields() map[string]interface{} {
	return map[string]interface{}{
		"command": stringList(e.Command),
		"kind":    e.Kind,
		"error":   e.Error,
	}
}

func stringList(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

func toStringList(in interface{}) []string {
	list, _ := in.([]interface{})
	var out []string
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func toString(in interface{}) string {
	s, _ := in.(string)
	return s
}

// fromMap rebuilds an entry from its decoded JSON form. Entries with an
// unknown event are returned with a nil Event.
func fromMap(raw map[string]interface{}) *LogEntry {
	le := &LogEntry{}
	if ts, ok := raw["timestamp_micros"].(float64); ok {
		le.TimestampMicros = int64(ts)
	}
	le.SessionID = toString(raw["session_id"])

	switch {
	case raw["run_command"] != nil:
		fields, _ := raw["run_command"].(map[string]interface{})
		le.Event = &RunCommand{
			Command:         toStringList(fields["command"]),
			ResolvedCommand: toString(fields["resolved_command"]),
		}
	case raw["unknown_command"] != nil:
		fields, _ := raw["unknown_command"].(map[string]interface{})
		le.Event = &UnknownCommand{
			Command: toStringList(fields["command"]),
			Error:   toString(fields["error"]),
		}
	case raw["invalid_invocation"] != nil:
		fields, _ := raw["invalid_invocation"].(map[string]interface{})
		le.Event = &InvalidInvocation{
			Command: toStringList(fields["command"]),
			Kind:    toString(fields["kind"]),
			Error:   toString(fields["error"]),
		}
	}

	return le
}

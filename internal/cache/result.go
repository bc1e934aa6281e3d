package cache

// Status tags the outcome of a read so callers can tell a genuine miss
// from the store being unreachable. Writes report success as a plain bool;
// reads carry one of these.
type Status int

const (
	// StatusOK means the store answered and the key was found.
	StatusOK Status = iota
	// StatusMiss means the store answered and the key was absent or expired
	// (a payload that fails to decode also counts as a miss).
	StatusMiss
	// StatusUnavailable means the store could not be reached; the caller
	// should fall through to its authoritative source.
	StatusUnavailable
)

// String implements fmt.Stringer for log lines and test failures.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusMiss:
		return "miss"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Found reports whether the read produced a value.
func (s Status) Found() bool { return s == StatusOK }

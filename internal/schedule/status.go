package schedule

// HourStatus is the canonical power state of one hour.
type HourStatus int

const (
	StatusUnknown HourStatus = iota
	StatusOn
	StatusOff
	StatusOffFirstHalf
	StatusOffSecondHalf
)

// ParseStatus maps a raw DTEK token to a HourStatus. Anything unrecognized,
// including the empty string, is StatusUnknown.
func ParseStatus(token string) HourStatus {
	switch token {
	case "yes":
		return StatusOn
	case "no":
		return StatusOff
	case "first":
		return StatusOffFirstHalf
	case "second":
		return StatusOffSecondHalf
	}
	return StatusUnknown
}

// Token returns the DTEK token for s, or "unknown".
func (s HourStatus) Token() string {
	switch s {
	case StatusOn:
		return "yes"
	case StatusOff:
		return "no"
	case StatusOffFirstHalf:
		return "first"
	case StatusOffSecondHalf:
		return "second"
	}
	return "unknown"
}

// Code returns the compact numeric code used by /schedule/simple:
// 0=off, 1=on, 2=first half off, 3=second half off, -1=unknown.
func (s HourStatus) Code() int {
	switch s {
	case StatusOn:
		return 1
	case StatusOff:
		return 0
	case StatusOffFirstHalf:
		return 2
	case StatusOffSecondHalf:
		return 3
	}
	return -1
}

// Glyph returns the two-character cell printed by the CLI.
func (s HourStatus) Glyph() string {
	switch s {
	case StatusOn:
		return "+ "
	case StatusOff:
		return "- "
	case StatusOffFirstHalf:
		return "-+"
	case StatusOffSecondHalf:
		return "+-"
	}
	return "? "
}

func (s HourStatus) String() string {
	switch s {
	case StatusOn:
		return "on"
	case StatusOff:
		return "off"
	case StatusOffFirstHalf:
		return "off-first-half"
	case StatusOffSecondHalf:
		return "off-second-half"
	}
	return "unknown"
}

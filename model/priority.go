package model

// PriorityClass is one of the six Windows scheduling tiers.
type PriorityClass int

const (
	PriorityIdle PriorityClass = iota
	PriorityBelowNormal
	PriorityNormal
	PriorityAboveNormal
	PriorityHigh
	PriorityRealtime
)

// PriorityClasses lists every class from lowest to highest.
var PriorityClasses = []PriorityClass{
	PriorityIdle,
	PriorityBelowNormal,
	PriorityNormal,
	PriorityAboveNormal,
	PriorityHigh,
	PriorityRealtime,
}

// Windows priority class constants passed to SetPriorityClass.
const (
	IdlePriorityClassValue        uint32 = 0x00000040
	BelowNormalPriorityClassValue uint32 = 0x00004000
	NormalPriorityClassValue      uint32 = 0x00000020
	AboveNormalPriorityClassValue uint32 = 0x00008000
	HighPriorityClassValue        uint32 = 0x00000080
	RealtimePriorityClassValue    uint32 = 0x00000100
)

func (c PriorityClass) String() string {
	switch c {
	case PriorityIdle:
		return "Idle"
	case PriorityBelowNormal:
		return "Below Normal"
	case PriorityAboveNormal:
		return "Above Normal"
	case PriorityHigh:
		return "High"
	case PriorityRealtime:
		return "Realtime"
	default:
		return "Normal"
	}
}

// Value returns the Windows constant for the class.
func (c PriorityClass) Value() uint32 {
	switch c {
	case PriorityIdle:
		return IdlePriorityClassValue
	case PriorityBelowNormal:
		return BelowNormalPriorityClassValue
	case PriorityAboveNormal:
		return AboveNormalPriorityClassValue
	case PriorityHigh:
		return HighPriorityClassValue
	case PriorityRealtime:
		return RealtimePriorityClassValue
	default:
		return NormalPriorityClassValue
	}
}

// BasePriority returns the base thread priority the class implies.
func (c PriorityClass) BasePriority() int32 {
	switch c {
	case PriorityIdle:
		return 4
	case PriorityBelowNormal:
		return 6
	case PriorityAboveNormal:
		return 10
	case PriorityHigh:
		return 13
	case PriorityRealtime:
		return 24
	default:
		return 8
	}
}

// Nice maps the class onto the UNIX nice scale for display.
func (c PriorityClass) Nice() int32 {
	switch c {
	case PriorityIdle:
		return 19
	case PriorityBelowNormal:
		return 10
	case PriorityAboveNormal:
		return -5
	case PriorityHigh:
		return -10
	case PriorityRealtime:
		return -20
	default:
		return 0
	}
}

// HtopPriority maps the class onto htop's PRI scale.
func (c PriorityClass) HtopPriority() int32 {
	switch c {
	case PriorityIdle:
		return 39
	case PriorityBelowNormal:
		return 30
	case PriorityAboveNormal:
		return 10
	case PriorityHigh:
		return 5
	case PriorityRealtime:
		return 0
	default:
		return 20
	}
}

// Higher returns the next class up, saturating at Realtime.
func (c PriorityClass) Higher() PriorityClass {
	if c >= PriorityRealtime {
		return PriorityRealtime
	}
	return c + 1
}

// Lower returns the next class down, saturating at Idle.
func (c PriorityClass) Lower() PriorityClass {
	if c <= PriorityIdle {
		return PriorityIdle
	}
	return c - 1
}

// PriorityClassFromBase classifies a process base priority.
func PriorityClassFromBase(base int32) PriorityClass {
	switch {
	case base <= 4:
		return PriorityIdle
	case base <= 6:
		return PriorityBelowNormal
	case base <= 8:
		return PriorityNormal
	case base <= 10:
		return PriorityAboveNormal
	case base <= 15:
		return PriorityHigh
	default:
		return PriorityRealtime
	}
}

// PriorityClassFromNice picks the class closest to a nice value.
func PriorityClassFromNice(nice int32) PriorityClass {
	switch {
	case nice <= -15:
		return PriorityRealtime
	case nice <= -10:
		return PriorityHigh
	case nice <= -5:
		return PriorityAboveNormal
	case nice <= 5:
		return PriorityNormal
	case nice <= 10:
		return PriorityBelowNormal
	default:
		return PriorityIdle
	}
}

package game

import "fmt"

// SystemStatus is the operational state of a ship system.
type SystemStatus string

const (
	StatusOnline      SystemStatus = "online"
	StatusDegraded    SystemStatus = "degraded"
	StatusJammed      SystemStatus = "jammed"
	StatusOffline     SystemStatus = "offline"
	StatusCompromised SystemStatus = "compromised"
	StatusCritical    SystemStatus = "critical"
)

// System names. The nine ship subsystems are fixed; systems are never
// added or removed at runtime.
const (
	SysCommunications = "communications"
	SysNavigation     = "navigation"
	SysLifeSupport    = "lifeSupport"
	SysPower          = "power"
	SysWeapons        = "weapons"
	SysAICore         = "aiCore"
	SysDefensive      = "defensive"
	SysPropulsion     = "propulsion"
	SysDataSystems    = "dataSystems"
)

// SystemNames lists the nine ship systems in display order.
var SystemNames = []string{
	SysCommunications,
	SysNavigation,
	SysLifeSupport,
	SysPower,
	SysWeapons,
	SysAICore,
	SysDefensive,
	SysPropulsion,
	SysDataSystems,
}

// Metric is one derived display row for a system.
type Metric struct {
	Label        string   `json:"label"`
	DisplayValue string   `json:"displayValue"`
	Progress     *float64 `json:"progress,omitempty"`
}

// SystemState holds one ship system's status, integrity and derived
// metrics.
//
// INVARIANT: Metrics are a pure function of (Status, Integrity). They
// are recomputed by DeriveMetrics every time either changes and are
// never stored independently.
type SystemState struct {
	Integrity float64      `json:"integrity"`
	Status    SystemStatus `json:"status"`
	Metrics   []Metric     `json:"metrics"`
}

// StatusForIntegrity maps an integrity value to the status used after
// repairs: >=90 online, >=70 degraded, >=40 critical, else offline.
func StatusForIntegrity(integrity float64) SystemStatus {
	switch {
	case integrity >= 90:
		return StatusOnline
	case integrity >= 70:
		return StatusDegraded
	case integrity >= 40:
		return StatusCritical
	default:
		return StatusOffline
	}
}

// DeriveMetrics recomputes the display metrics for a system from its
// status and integrity, per system-specific display rules.
func DeriveMetrics(name string, status SystemStatus, integrity float64) []Metric {
	pct := func(v float64) *float64 { return &v }
	percent := fmt.Sprintf("%.0f%%", integrity)

	switch name {
	case SysCommunications:
		uplink := "INACTIVE"
		if status == StatusOnline || status == StatusDegraded {
			uplink = "ACTIVE"
		}
		return []Metric{
			{Label: "Signal Strength", DisplayValue: percent, Progress: pct(integrity)},
			{Label: "Earth Uplink", DisplayValue: uplink},
		}
	case SysNavigation:
		lock := "LOCKED"
		if status != StatusOnline {
			lock = "DRIFT"
		}
		return []Metric{
			{Label: "Course Accuracy", DisplayValue: percent, Progress: pct(integrity)},
			{Label: "Star Lock", DisplayValue: lock},
		}
	case SysLifeSupport:
		return []Metric{
			{Label: "O2 Generation", DisplayValue: percent, Progress: pct(integrity)},
			{Label: "CO2 Scrubbing", DisplayValue: string(statusLabel(status))},
		}
	case SysPower:
		return []Metric{
			{Label: "Reactor Output", DisplayValue: percent, Progress: pct(integrity)},
			{Label: "Distribution Grid", DisplayValue: string(statusLabel(status))},
		}
	case SysWeapons:
		armed := "SAFED"
		if status == StatusOnline {
			armed = "READY"
		}
		return []Metric{
			{Label: "Targeting Array", DisplayValue: percent, Progress: pct(integrity)},
			{Label: "Launch Systems", DisplayValue: armed},
		}
	case SysAICore:
		return []Metric{
			{Label: "Core Coherence", DisplayValue: percent, Progress: pct(integrity)},
			{Label: "Heuristics", DisplayValue: string(statusLabel(status))},
		}
	case SysDefensive:
		return []Metric{
			{Label: "Shield Capacity", DisplayValue: percent, Progress: pct(integrity)},
			{Label: "Hull Plating", DisplayValue: string(statusLabel(status))},
		}
	case SysPropulsion:
		return []Metric{
			{Label: "Drive Efficiency", DisplayValue: percent, Progress: pct(integrity)},
			{Label: "Fuel Flow", DisplayValue: string(statusLabel(status))},
		}
	case SysDataSystems:
		return []Metric{
			{Label: "Storage Health", DisplayValue: percent, Progress: pct(integrity)},
			{Label: "Archive Index", DisplayValue: string(statusLabel(status))},
		}
	default:
		return []Metric{
			{Label: "Integrity", DisplayValue: percent, Progress: pct(integrity)},
		}
	}
}

// statusLabel renders a status as an uppercase display word.
func statusLabel(status SystemStatus) string {
	switch status {
	case StatusOnline:
		return "NOMINAL"
	case StatusDegraded:
		return "DEGRADED"
	case StatusJammed:
		return "JAMMED"
	case StatusOffline:
		return "OFFLINE"
	case StatusCompromised:
		return "COMPROMISED"
	case StatusCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// NewSystemState builds a SystemState with derived metrics.
func NewSystemState(name string, status SystemStatus, integrity float64) SystemState {
	return SystemState{
		Integrity: integrity,
		Status:    status,
		Metrics:   DeriveMetrics(name, status, integrity),
	}
}

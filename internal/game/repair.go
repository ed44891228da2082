package game

import (
	"fmt"
	"maps"
)

// RepairType selects a repair job's cost, duration and integrity bonus.
type RepairType string

const (
	RepairQuick    RepairType = "quick"
	RepairStandard RepairType = "standard"
	RepairThorough RepairType = "thorough"
)

// repairPlan is the fixed cost/duration/bonus row for one repair type.
type repairPlan struct {
	energy     float64
	materials  int
	durationMS int64
	bonus      float64
}

var repairPlans = map[RepairType]repairPlan{
	RepairQuick:    {energy: 10, materials: 5, durationMS: 5000, bonus: 15},
	RepairStandard: {energy: 20, materials: 15, durationMS: 15000, bonus: 35},
	RepairThorough: {energy: 35, materials: 25, durationMS: 30000, bonus: 60},
}

// RepairJob is one in-flight repair.
type RepairJob struct {
	SystemName string     `json:"systemName"`
	RepairType RepairType `json:"repairType"`
	StartTime  int64      `json:"startTime"`
	Duration   int64      `json:"duration"`
	Progress   float64    `json:"progress"`
}

// Repair holds the repair subsystem's resources and active jobs.
type Repair struct {
	Energy             float64              `json:"energy"`
	Materials          int                  `json:"materials"`
	MaxEnergy          float64              `json:"maxEnergy"`
	EnergyRecoveryRate float64              `json:"energyRecoveryRate"`
	LastEnergyRecovery int64                `json:"lastEnergyRecovery"`
	ActiveRepairs      map[string]RepairJob `json:"activeRepairs"`
}

// StartRepair opens a repair job when resources suffice.
//
// On success the cost is deducted, a job keyed "<systemName>-<timestamp>"
// is opened, and an INFO log is appended. On insufficient resources the
// repair context is unchanged and exactly one WARN log is appended; the
// repair is never partially started.
func (c Context) StartRepair(systemName string, repairType RepairType) Context {
	plan, ok := repairPlans[repairType]
	if !ok {
		return c.AppendLog(LogEntry{
			Severity: LogWarn,
			Source:   "repair",
			Text:     fmt.Sprintf("Warning: unknown repair type %q for %s", repairType, systemName),
		})
	}

	if c.Repair.Energy < plan.energy || c.Repair.Materials < plan.materials {
		return c.AppendLog(LogEntry{
			Severity: LogWarn,
			Source:   "repair",
			Text: fmt.Sprintf("Warning: insufficient resources for %s repair of %s (need %.0f energy, %d materials)",
				repairType, systemName, plan.energy, plan.materials),
		})
	}

	now := nowMillis()
	jobs := maps.Clone(c.Repair.ActiveRepairs)
	if jobs == nil {
		jobs = make(map[string]RepairJob, 1)
	}
	jobID := fmt.Sprintf("%s-%d", systemName, now)
	jobs[jobID] = RepairJob{
		SystemName: systemName,
		RepairType: repairType,
		StartTime:  now,
		Duration:   plan.durationMS,
		Progress:   0,
	}

	r := c.Repair
	r.Energy -= plan.energy
	r.Materials -= plan.materials
	r.ActiveRepairs = jobs
	c.Repair = r

	return c.AppendLog(LogEntry{
		Severity: LogInfo,
		Source:   "repair",
		Text:     fmt.Sprintf("%s repair of %s started", repairType, systemName),
	})
}

// CompleteRepair finishes the active repair job for a system.
//
// Applies the repair type's integrity bonus (clamped to 100), recomputes
// status by integrity thresholds, re-derives metrics, removes the job,
// and appends an INFO log. No active job for the system is a strict
// no-op: no state change, no log.
func (c Context) CompleteRepair(systemName string) Context {
	var jobID string
	var job RepairJob
	for id, j := range c.Repair.ActiveRepairs {
		if j.SystemName == systemName {
			jobID, job = id, j
			break
		}
	}
	if jobID == "" {
		return c
	}

	plan := repairPlans[job.RepairType]
	sys, ok := c.Systems[systemName]
	if !ok {
		return c
	}

	integrity := sys.Integrity + plan.bonus
	if integrity > 100 {
		integrity = 100
	}
	c = c.WithSystem(systemName, StatusForIntegrity(integrity), integrity)

	jobs := maps.Clone(c.Repair.ActiveRepairs)
	delete(jobs, jobID)
	r := c.Repair
	r.ActiveRepairs = jobs
	c.Repair = r

	return c.AppendLog(LogEntry{
		Severity: LogInfo,
		Source:   "repair",
		Text:     fmt.Sprintf("%s repair of %s complete, integrity %.0f%%", job.RepairType, systemName, integrity),
	})
}

// RecoverEnergy applies an explicit amount, or elapsed-minutes times the
// recovery rate since LastEnergyRecovery when amount is nil. Clamped to
// MaxEnergy; a positive gain appends an INFO log.
func (c Context) RecoverEnergy(amount *float64) Context {
	now := nowMillis()
	r := c.Repair

	var gain float64
	if amount != nil {
		gain = *amount
	} else {
		elapsedMinutes := float64(now-r.LastEnergyRecovery) / 60000.0
		gain = elapsedMinutes * r.EnergyRecoveryRate
	}

	recovered := r.Energy + gain
	if recovered > r.MaxEnergy {
		recovered = r.MaxEnergy
	}
	gained := recovered - r.Energy

	r.Energy = recovered
	r.LastEnergyRecovery = now
	c.Repair = r

	if gained > 0 {
		return c.AppendLog(LogEntry{
			Severity: LogInfo,
			Source:   "repair",
			Text:     fmt.Sprintf("energy reserves recovered +%.1f", gained),
		})
	}
	return c
}

// TickRepairProgress recomputes Progress for all active jobs from the
// current wall clock. Purely cosmetic; completion is driven by the
// COMPLETE_REPAIR event.
func (c Context) TickRepairProgress() Context {
	if len(c.Repair.ActiveRepairs) == 0 {
		return c
	}
	now := nowMillis()
	jobs := make(map[string]RepairJob, len(c.Repair.ActiveRepairs))
	for id, j := range c.Repair.ActiveRepairs {
		elapsed := float64(now - j.StartTime)
		progress := elapsed / float64(j.Duration) * 100
		if progress > 100 {
			progress = 100
		}
		j.Progress = progress
		jobs[id] = j
	}
	r := c.Repair
	r.ActiveRepairs = jobs
	c.Repair = r
	return c
}

// RepairDue reports system names whose active job has run its full
// duration as of now. The caller turns these into COMPLETE_REPAIR
// events.
func (c Context) RepairDue() []string {
	if len(c.Repair.ActiveRepairs) == 0 {
		return nil
	}
	now := nowMillis()
	var due []string
	for _, j := range c.Repair.ActiveRepairs {
		if now-j.StartTime >= j.Duration {
			due = append(due, j.SystemName)
		}
	}
	return due
}

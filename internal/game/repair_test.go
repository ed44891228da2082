package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repairContext(energy float64, materials int) Context {
	return Context{
		Systems: map[string]SystemState{
			SysDefensive: NewSystemState(SysDefensive, StatusDegraded, 50),
		},
		Repair: Repair{
			Energy:             energy,
			Materials:          materials,
			MaxEnergy:          100,
			EnergyRecoveryRate: 2,
			LastEnergyRecovery: 0,
			ActiveRepairs:      map[string]RepairJob{},
		},
	}
}

func TestStartRepairDeductsAndOpensJob(t *testing.T) {
	fixedNow(t, 10_000)

	ctx := repairContext(50, 40).StartRepair(SysDefensive, RepairStandard)

	assert.Equal(t, 30.0, ctx.Repair.Energy)
	assert.Equal(t, 25, ctx.Repair.Materials)

	require.Len(t, ctx.Repair.ActiveRepairs, 1)
	job, ok := ctx.Repair.ActiveRepairs["defensive-10000"]
	require.True(t, ok, "job key is <systemName>-<timestamp>")
	assert.Equal(t, RepairStandard, job.RepairType)
	assert.Equal(t, int64(15000), job.Duration)

	require.Len(t, ctx.Logs, 1)
	assert.Equal(t, LogInfo, ctx.Logs[0].Severity)
}

func TestStartRepairInsufficientResources(t *testing.T) {
	fixedNow(t, 10_000)

	// Quick needs 10 energy; 9 is one short.
	base := repairContext(9, 40)
	ctx := base.StartRepair(SysDefensive, RepairQuick)

	assert.Equal(t, 9.0, ctx.Repair.Energy)
	assert.Equal(t, 40, ctx.Repair.Materials)
	assert.Empty(t, ctx.Repair.ActiveRepairs)

	require.Len(t, ctx.Logs, 1)
	assert.Equal(t, LogWarn, ctx.Logs[0].Severity)
}

func TestStartRepairExactResources(t *testing.T) {
	fixedNow(t, 10_000)

	ctx := repairContext(10, 5).StartRepair(SysDefensive, RepairQuick)

	assert.Equal(t, 0.0, ctx.Repair.Energy)
	assert.Equal(t, 0, ctx.Repair.Materials)
	assert.Len(t, ctx.Repair.ActiveRepairs, 1)
}

func TestCompleteRepairAppliesBonus(t *testing.T) {
	fixedNow(t, 10_000)

	ctx := repairContext(50, 40).StartRepair(SysDefensive, RepairStandard)
	ctx = ctx.CompleteRepair(SysDefensive)

	sys := ctx.Systems[SysDefensive]
	assert.Equal(t, 85.0, sys.Integrity) // 50 + 35
	assert.Equal(t, StatusDegraded, sys.Status)
	assert.Empty(t, ctx.Repair.ActiveRepairs)
}

func TestCompleteRepairClampsAt100(t *testing.T) {
	fixedNow(t, 10_000)

	ctx := repairContext(50, 40)
	ctx = ctx.WithSystem(SysDefensive, StatusDegraded, 95)
	ctx = ctx.StartRepair(SysDefensive, RepairQuick)
	ctx = ctx.CompleteRepair(SysDefensive)

	sys := ctx.Systems[SysDefensive]
	assert.Equal(t, 100.0, sys.Integrity)
	assert.Equal(t, StatusOnline, sys.Status)
}

func TestCompleteRepairWithoutJobIsStrictNoop(t *testing.T) {
	fixedNow(t, 10_000)

	base := repairContext(50, 40)
	ctx := base.CompleteRepair(SysDefensive)

	assert.Equal(t, base.Systems[SysDefensive], ctx.Systems[SysDefensive])
	assert.Empty(t, ctx.Logs)
}

func TestRecoverEnergyExplicitAmountClamps(t *testing.T) {
	fixedNow(t, 10_000)

	amount := 200.0
	ctx := repairContext(50, 40).RecoverEnergy(&amount)

	assert.Equal(t, 100.0, ctx.Repair.Energy)
	assert.Equal(t, int64(10_000), ctx.Repair.LastEnergyRecovery)
	require.Len(t, ctx.Logs, 1)
	assert.Equal(t, LogInfo, ctx.Logs[0].Severity)
}

func TestRecoverEnergyElapsedTime(t *testing.T) {
	// 5 minutes at 2 energy/minute.
	fixedNow(t, 5*60*1000)

	ctx := repairContext(50, 40).RecoverEnergy(nil)
	assert.Equal(t, 60.0, ctx.Repair.Energy)
}

func TestRecoverEnergyAtCapLogsNothing(t *testing.T) {
	fixedNow(t, 5*60*1000)

	ctx := repairContext(100, 40).RecoverEnergy(nil)
	assert.Equal(t, 100.0, ctx.Repair.Energy)
	assert.Empty(t, ctx.Logs)
}

func TestRepairDue(t *testing.T) {
	fixedNow(t, 10_000)
	ctx := repairContext(50, 40).StartRepair(SysDefensive, RepairQuick)

	fixedNow(t, 14_999)
	assert.Empty(t, ctx.RepairDue())

	fixedNow(t, 15_000)
	assert.Equal(t, []string{SysDefensive}, ctx.RepairDue())
}

func TestTickRepairProgressCapsAt100(t *testing.T) {
	fixedNow(t, 10_000)
	ctx := repairContext(50, 40).StartRepair(SysDefensive, RepairQuick)

	fixedNow(t, 12_500)
	ctx = ctx.TickRepairProgress()
	for _, job := range ctx.Repair.ActiveRepairs {
		assert.Equal(t, 50.0, job.Progress)
	}

	fixedNow(t, 99_000)
	ctx = ctx.TickRepairProgress()
	for _, job := range ctx.Repair.ActiveRepairs {
		assert.Equal(t, 100.0, job.Progress)
	}
}

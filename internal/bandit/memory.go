// Package bandit drives the genetic core as a multi-armed bandit: every arm
// ever evaluated keeps running reward statistics, and each generation the
// best-known arms seed the next round of recombination. Rewards are
// minimized; callers maximizing an objective negate it.
package bandit

import (
	"sort"

	"gmab/internal/model"
)

// ArmStats is the running reward aggregate for a single arm.
type ArmStats struct {
	Arm        model.Arm
	Count      int
	SumRewards float64
	AvgReward  float64
}

// Memory accumulates reward statistics per arm across generations, keyed by
// action-vector identity. It is not safe for concurrent use; the driver is
// single-threaded by contract.
type Memory struct {
	stats map[string]*ArmStats
}

func NewMemory() *Memory {
	return &Memory{stats: make(map[string]*ArmStats)}
}

func (m *Memory) Len() int {
	return len(m.stats)
}

// Observe records one objective evaluation of arm. Re-observing a known arm
// refines its average rather than resetting it.
func (m *Memory) Observe(arm model.Arm, reward float64) {
	key := arm.Key()
	entry, ok := m.stats[key]
	if !ok {
		entry = &ArmStats{Arm: arm.Clone()}
		m.stats[key] = entry
	}
	entry.Count++
	entry.SumRewards += reward
	entry.AvgReward = entry.SumRewards / float64(entry.Count)
}

func (m *Memory) Get(arm model.Arm) (ArmStats, bool) {
	entry, ok := m.stats[arm.Key()]
	if !ok {
		return ArmStats{}, false
	}
	return *entry, true
}

// Ranked returns every tracked arm ordered by ascending average reward.
// Ties break on the canonical arm key so rankings are reproducible across
// runs and processes.
func (m *Memory) Ranked() []ArmStats {
	ranked := make([]ArmStats, 0, len(m.stats))
	for _, entry := range m.stats {
		ranked = append(ranked, *entry)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].AvgReward != ranked[j].AvgReward {
			return ranked[i].AvgReward < ranked[j].AvgReward
		}
		return ranked[i].Arm.Key() < ranked[j].Arm.Key()
	})
	return ranked
}

func (m *Memory) Best() (ArmStats, bool) {
	if len(m.stats) == 0 {
		return ArmStats{}, false
	}
	return m.Ranked()[0], true
}

// TopArms returns clones of the n best arms for seeding the next
// generation; fewer when the memory holds fewer arms.
func (m *Memory) TopArms(n int) []model.Arm {
	ranked := m.Ranked()
	if n > len(ranked) {
		n = len(ranked)
	}
	arms := make([]model.Arm, 0, n)
	for _, entry := range ranked[:n] {
		arms = append(arms, entry.Arm.Clone())
	}
	return arms
}

// Snapshot renders the ranked memory as persistable records.
func (m *Memory) Snapshot(schemaVersion, codecVersion int) []model.ArmRecord {
	ranked := m.Ranked()
	records := make([]model.ArmRecord, 0, len(ranked))
	for _, entry := range ranked {
		records = append(records, model.ArmRecord{
			VersionedRecord: model.VersionedRecord{SchemaVersion: schemaVersion, CodecVersion: codecVersion},
			ActionVector:    append([]int(nil), entry.Arm.ActionVector...),
			Count:           entry.Count,
			MeanReward:      entry.AvgReward,
		})
	}
	return records
}

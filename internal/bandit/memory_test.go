package bandit

import (
	"testing"

	"gmab/internal/model"
)

func TestMemoryObserveAccumulates(t *testing.T) {
	memory := NewMemory()
	arm := model.NewArm([]int{1, 2})

	memory.Observe(arm, 4)
	memory.Observe(arm, 2)

	stats, ok := memory.Get(arm)
	if !ok {
		t.Fatal("expected stats for observed arm")
	}
	if stats.Count != 2 {
		t.Fatalf("count: got %d want 2", stats.Count)
	}
	if stats.SumRewards != 6 {
		t.Fatalf("sum: got %v want 6", stats.SumRewards)
	}
	if stats.AvgReward != 3 {
		t.Fatalf("avg: got %v want 3", stats.AvgReward)
	}
	if memory.Len() != 1 {
		t.Fatalf("len: got %d want 1", memory.Len())
	}
}

func TestMemoryGetUnknownArm(t *testing.T) {
	memory := NewMemory()
	if _, ok := memory.Get(model.NewArm([]int{9})); ok {
		t.Fatal("expected no stats for unknown arm")
	}
	if _, ok := memory.Best(); ok {
		t.Fatal("expected no best arm in empty memory")
	}
}

func TestMemoryRankedAscendingWithStableTies(t *testing.T) {
	memory := NewMemory()
	memory.Observe(model.NewArm([]int{3}), 0.9)
	memory.Observe(model.NewArm([]int{1}), 0.2)
	memory.Observe(model.NewArm([]int{2}), 0.5)
	memory.Observe(model.NewArm([]int{5}), 0.5)

	ranked := memory.Ranked()
	if len(ranked) != 4 {
		t.Fatalf("ranked length: got %d want 4", len(ranked))
	}
	if ranked[0].Arm.Key() != "1" {
		t.Fatalf("best arm: got %s want 1", ranked[0].Arm.Key())
	}
	// Equal averages order by canonical key.
	if ranked[1].Arm.Key() != "2" || ranked[2].Arm.Key() != "5" {
		t.Fatalf("tie order: got %s then %s", ranked[1].Arm.Key(), ranked[2].Arm.Key())
	}
	if ranked[3].Arm.Key() != "3" {
		t.Fatalf("worst arm: got %s want 3", ranked[3].Arm.Key())
	}

	best, ok := memory.Best()
	if !ok || best.Arm.Key() != "1" {
		t.Fatalf("best: ok=%t key=%s", ok, best.Arm.Key())
	}
}

func TestMemoryTopArmsClonesAndClips(t *testing.T) {
	memory := NewMemory()
	memory.Observe(model.NewArm([]int{1, 1}), 0.1)
	memory.Observe(model.NewArm([]int{2, 2}), 0.2)

	top := memory.TopArms(5)
	if len(top) != 2 {
		t.Fatalf("top arms: got %d want 2", len(top))
	}
	top[0].ActionVector[0] = 99
	stats, ok := memory.Get(model.NewArm([]int{1, 1}))
	if !ok || stats.Arm.ActionVector[0] != 1 {
		t.Fatalf("memory aliased returned arm: %+v", stats)
	}
}

func TestMemorySnapshotRecords(t *testing.T) {
	memory := NewMemory()
	memory.Observe(model.NewArm([]int{4, 2}), 1.5)
	memory.Observe(model.NewArm([]int{4, 2}), 0.5)
	memory.Observe(model.NewArm([]int{0, 0}), 2.0)

	records := memory.Snapshot(1, 1)
	if len(records) != 2 {
		t.Fatalf("snapshot length: got %d want 2", len(records))
	}
	first := records[0]
	if first.ActionVector[0] != 4 || first.ActionVector[1] != 2 {
		t.Fatalf("snapshot must rank best first: %+v", first)
	}
	if first.Count != 2 || first.MeanReward != 1.0 {
		t.Fatalf("snapshot stats: %+v", first)
	}
	if first.SchemaVersion != 1 || first.CodecVersion != 1 {
		t.Fatalf("snapshot versions: %+v", first.VersionedRecord)
	}
}

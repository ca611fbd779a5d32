package model

import (
	"strconv"
	"strings"
)

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Arm is one candidate point in the integer search space. Arms are
// value-like: operators build new arms instead of editing vectors in place,
// and two arms are the same arm iff their action vectors match element-wise.
type Arm struct {
	ActionVector []int `json:"action_vector"`
}

func NewArm(vector []int) Arm {
	return Arm{ActionVector: append([]int(nil), vector...)}
}

func (a Arm) Clone() Arm {
	return Arm{ActionVector: append([]int(nil), a.ActionVector...)}
}

func (a Arm) Equal(other Arm) bool {
	if len(a.ActionVector) != len(other.ActionVector) {
		return false
	}
	for i, v := range a.ActionVector {
		if other.ActionVector[i] != v {
			return false
		}
	}
	return true
}

// Key renders the action vector as a canonical string usable as a set or
// map key wherever vector identity matters.
func (a Arm) Key() string {
	parts := make([]string, len(a.ActionVector))
	for i, v := range a.ActionVector {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

type StudyRecord struct {
	VersionedRecord
	ID              string    `json:"id"`
	Objective       string    `json:"objective"`
	Dimension       int       `json:"dimension"`
	LowerBound      []int     `json:"lower_bound"`
	UpperBound      []int     `json:"upper_bound"`
	PopulationSize  int       `json:"population_size"`
	MaxSimulations  int       `json:"max_simulations"`
	MutationRate    float64   `json:"mutation_rate"`
	CrossoverRate   float64   `json:"crossover_rate"`
	MutationSpan    float64   `json:"mutation_span"`
	Seed            int64     `json:"seed"`
	BestArm         Arm       `json:"best_arm"`
	BestReward      float64   `json:"best_reward"`
	SimulationsUsed int       `json:"simulations_used"`
	Generations     int       `json:"generations"`
	CreatedAtUTC    string    `json:"created_at_utc"`
}

type ArmRecord struct {
	VersionedRecord
	ActionVector []int   `json:"action_vector"`
	Count        int     `json:"count"`
	MeanReward   float64 `json:"mean_reward"`
}

type GenerationRecord struct {
	Generation      int     `json:"generation"`
	PopulationSize  int     `json:"population_size"`
	BestReward      float64 `json:"best_reward"`
	MeanReward      float64 `json:"mean_reward"`
	SimulationsUsed int     `json:"simulations_used"`
}

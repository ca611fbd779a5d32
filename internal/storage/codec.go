package storage

import (
	"encoding/json"
	"errors"

	"gmab/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeStudy(s model.StudyRecord) ([]byte, error) {
	return json.Marshal(s)
}

func DecodeStudy(data []byte) (model.StudyRecord, error) {
	var study model.StudyRecord
	if err := json.Unmarshal(data, &study); err != nil {
		return model.StudyRecord{}, err
	}
	if err := checkVersion(study.VersionedRecord); err != nil {
		return model.StudyRecord{}, err
	}
	return study, nil
}

func EncodeArmStats(arms []model.ArmRecord) ([]byte, error) {
	return json.Marshal(arms)
}

func DecodeArmStats(data []byte) ([]model.ArmRecord, error) {
	var arms []model.ArmRecord
	if err := json.Unmarshal(data, &arms); err != nil {
		return nil, err
	}
	for _, arm := range arms {
		if err := checkVersion(arm.VersionedRecord); err != nil {
			return nil, err
		}
	}
	return arms, nil
}

func EncodeRewardHistory(history []float64) ([]byte, error) {
	return json.Marshal(history)
}

func DecodeRewardHistory(data []byte) ([]float64, error) {
	var history []float64
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func EncodeGenerations(generations []model.GenerationRecord) ([]byte, error) {
	return json.Marshal(generations)
}

func DecodeGenerations(data []byte) ([]model.GenerationRecord, error) {
	var generations []model.GenerationRecord
	if err := json.Unmarshal(data, &generations); err != nil {
		return nil, err
	}
	return generations, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}

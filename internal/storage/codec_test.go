package storage

import (
	"errors"
	"reflect"
	"testing"

	"gmab/internal/model"
)

func TestStudyCodecRoundTrip(t *testing.T) {
	study := testStudyRecord("study-1")

	data, err := EncodeStudy(study)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeStudy(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(decoded, study) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", decoded, study)
	}
}

func TestDecodeStudyRejectsVersionMismatch(t *testing.T) {
	study := testStudyRecord("study-1")
	study.SchemaVersion = CurrentSchemaVersion + 1

	data, err := EncodeStudy(study)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeStudy(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got %v", err)
	}
}

func TestDecodeArmStatsRejectsVersionMismatch(t *testing.T) {
	arms := []model.ArmRecord{{
		VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion + 1},
		ActionVector:    []int{1, 2},
	}}

	data, err := EncodeArmStats(arms)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeArmStats(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got %v", err)
	}
}

func TestDecodeStudyRejectsMalformedPayload(t *testing.T) {
	if _, err := DecodeStudy([]byte("{not json")); err == nil {
		t.Fatal("expected decode error")
	}
}

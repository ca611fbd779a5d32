package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	gmabapi "gmab/pkg/gmab"
)

func loadOrDefaultRunRequest(configPath string) (gmabapi.RunRequest, error) {
	if configPath == "" {
		return gmabapi.RunRequest{}, nil
	}
	req, err := loadRunRequestFromConfig(configPath)
	if err != nil {
		return gmabapi.RunRequest{}, fmt.Errorf("load config: %w", err)
	}
	return req, nil
}

func loadRunRequestFromConfig(path string) (gmabapi.RunRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return gmabapi.RunRequest{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return gmabapi.RunRequest{}, err
	}

	var req gmabapi.RunRequest
	if v, ok := asString(raw["run_id"]); ok {
		req.RunID = v
	}
	if v, ok := asString(raw["objective"]); ok {
		req.Objective = v
	}
	if v, ok := asInt(raw["dimension"]); ok {
		req.Dimension = v
	}
	if v, ok := asInt(raw["low"]); ok {
		req.Low = v
	}
	if v, ok := asInt(raw["high"]); ok {
		req.High = v
	}
	if v, ok := asIntSlice(raw["lower_bound"]); ok {
		req.LowerBound = v
	}
	if v, ok := asIntSlice(raw["upper_bound"]); ok {
		req.UpperBound = v
	}
	if v, ok := asInt(raw["max_simulations"]); ok {
		req.MaxSimulations = v
	}
	if v, ok := asInt(raw["population_size"]); ok {
		req.PopulationSize = v
	}
	if v, ok := asFloat64(raw["mutation_rate"]); ok {
		req.MutationRate = v
	}
	if v, ok := asFloat64(raw["crossover_rate"]); ok {
		req.CrossoverRate = v
	}
	if v, ok := asFloat64(raw["mutation_span"]); ok {
		req.MutationSpan = v
	}
	if v, ok := asInt64(raw["seed"]); ok {
		req.Seed = v
	}
	return req, nil
}

func overrideFromFlags(req *gmabapi.RunRequest, set map[string]bool, flagValue map[string]any) {
	for name := range set {
		v, ok := flagValue[name]
		if !ok {
			continue
		}
		switch name {
		case "run-id":
			req.RunID = v.(string)
		case "objective":
			req.Objective = v.(string)
		case "dim":
			req.Dimension = v.(int)
		case "low":
			req.Low = v.(int)
		case "high":
			req.High = v.(int)
		case "budget":
			req.MaxSimulations = v.(int)
		case "pop":
			req.PopulationSize = v.(int)
		case "mutation-rate":
			req.MutationRate = v.(float64)
		case "crossover-rate":
			req.CrossoverRate = v.(float64)
		case "mutation-span":
			req.MutationSpan = v.(float64)
		case "seed":
			req.Seed = v.(int64)
		}
	}
}

func parseIntList(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("list is empty")
	}
	parts := strings.Split(s, ",")
	values := make([]int, 0, len(parts))
	for _, part := range parts {
		value, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, nil
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case float64:
		return int(x), true
	default:
		return 0, false
	}
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		return int64(x), true
	default:
		return 0, false
	}
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	default:
		return 0, false
	}
}

func asIntSlice(v any) ([]int, bool) {
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	values := make([]int, 0, len(items))
	for _, item := range items {
		value, ok := asInt(item)
		if !ok {
			return nil, false
		}
		values = append(values, value)
	}
	return values, true
}

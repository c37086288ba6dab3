package utils

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/BartekS5/uncoupledetl/pkg/etlerrors"
)

// Lookup walks a dot-separated path into nested JSON objects.
// It reports false when any segment is missing or not an object.
func Lookup(m map[string]any, path string) (any, bool) {
	var current any = m
	for _, part := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func requireField(m map[string]any, path string) (any, error) {
	val, ok := Lookup(m, path)
	if !ok {
		return nil, etlerrors.NewValidationError(path, "field required")
	}
	if val == nil {
		return nil, etlerrors.NewValidationError(path, "must not be null")
	}
	return val, nil
}

// GetInt reads an integral number. Fractional values are rejected.
func GetInt(m map[string]any, path string) (int, error) {
	val, err := requireField(m, path)
	if err != nil {
		return 0, err
	}
	n, err := ConvertToInt(val)
	if err != nil {
		return 0, etlerrors.NewValidationError(path, err.Error())
	}
	return n, nil
}

// GetFloat reads any JSON number as a float64.
func GetFloat(m map[string]any, path string) (float64, error) {
	val, err := requireField(m, path)
	if err != nil {
		return 0, err
	}
	f, err := ConvertToFloat(val)
	if err != nil {
		return 0, etlerrors.NewValidationError(path, err.Error())
	}
	return f, nil
}

// GetString reads a string value. An empty string is returned as is;
// emptiness is a model constraint, not a type error.
func GetString(m map[string]any, path string) (string, error) {
	val, err := requireField(m, path)
	if err != nil {
		return "", err
	}
	s, ok := val.(string)
	if !ok {
		return "", etlerrors.NewValidationError(path, fmt.Sprintf("expected string, got %T", val))
	}
	return s, nil
}

func GetMap(m map[string]any, path string) (map[string]any, error) {
	val, err := requireField(m, path)
	if err != nil {
		return nil, err
	}
	obj, ok := val.(map[string]any)
	if !ok {
		return nil, etlerrors.NewValidationError(path, fmt.Sprintf("expected object, got %T", val))
	}
	return obj, nil
}

func GetSlice(m map[string]any, path string) ([]any, error) {
	val, err := requireField(m, path)
	if err != nil {
		return nil, err
	}
	list, ok := val.([]any)
	if !ok {
		return nil, etlerrors.NewValidationError(path, fmt.Sprintf("expected list, got %T", val))
	}
	return list, nil
}

// ConvertToInt converts a decoded JSON number to int.
func ConvertToInt(val any) (int, error) {
	switch v := val.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("expected integer, got %v", v)
		}
		return int(v), nil
	case json.Number:
		if n, err := strconv.ParseInt(string(v), 10, 64); err == nil {
			return int(n), nil
		}
		f, err := v.Float64()
		if err != nil || f != math.Trunc(f) {
			return 0, fmt.Errorf("expected integer, got %s", v)
		}
		return int(f), nil
	default:
		return 0, fmt.Errorf("cannot convert %T to int", val)
	}
}

// ConvertToFloat converts a decoded JSON number to float64.
func ConvertToFloat(val any) (float64, error) {
	switch v := val.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	default:
		return 0, fmt.Errorf("cannot convert %T to float", val)
	}
}

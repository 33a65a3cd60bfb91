package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mlmd-go/mlmd"
)

// parseProperty parses "name:kind:value" (kind one of int/double/str)
// into a (name, PropertyValue) pair for --property/--custom-property
// flags.
func parseProperty(spec string) (string, mlmd.PropertyValue, error) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) != 3 {
		return "", mlmd.PropertyValue{}, fmt.Errorf("mlmdctl: property %q must be name:kind:value", spec)
	}
	name, kind, raw := parts[0], parts[1], parts[2]

	switch kind {
	case "int":
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return "", mlmd.PropertyValue{}, fmt.Errorf("mlmdctl: property %q: %w", spec, err)
		}
		return name, mlmd.IntValue(int32(v)), nil
	case "double":
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return "", mlmd.PropertyValue{}, fmt.Errorf("mlmdctl: property %q: %w", spec, err)
		}
		return name, mlmd.DoubleValue(v), nil
	case "str":
		return name, mlmd.StringValue(raw), nil
	default:
		return "", mlmd.PropertyValue{}, fmt.Errorf("mlmdctl: property %q has unknown kind %q (want int/double/str)", spec, kind)
	}
}

// parseTypeDeclaration parses "name:TYPE" (TYPE one of INT/DOUBLE/STRING)
// for --property flags on put-type.
func parseTypeDeclaration(spec string) (string, mlmd.PropertyType, error) {
	name, kind, ok := strings.Cut(spec, ":")
	if !ok {
		return "", 0, fmt.Errorf("mlmdctl: type property %q must be name:TYPE", spec)
	}
	switch strings.ToUpper(kind) {
	case "INT":
		return name, mlmd.PropertyTypeInt, nil
	case "DOUBLE":
		return name, mlmd.PropertyTypeDouble, nil
	case "STRING":
		return name, mlmd.PropertyTypeString, nil
	default:
		return "", 0, fmt.Errorf("mlmdctl: type property %q has unknown TYPE %q", spec, kind)
	}
}

func parseIDList(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}
	var ids []int64
	for _, s := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("mlmdctl: id list %q: %w", raw, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseEventPath parses "idx:7,key:k,idx:2" into ordered EventSteps
// for --path on put-event.
func parseEventPath(raw string) ([]mlmd.EventStep, error) {
	if raw == "" {
		return nil, nil
	}
	var steps []mlmd.EventStep
	for _, part := range strings.Split(raw, ",") {
		kind, val, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("mlmdctl: path step %q must be idx:N or key:K", part)
		}
		switch kind {
		case "idx":
			n, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("mlmdctl: path step %q: %w", part, err)
			}
			steps = append(steps, mlmd.IndexStep(n))
		case "key":
			steps = append(steps, mlmd.KeyStep(val))
		default:
			return nil, fmt.Errorf("mlmdctl: path step %q has unknown kind %q (want idx/key)", part, kind)
		}
	}
	return steps, nil
}

// Copyright (c) 2025 specctl contributors.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"github.com/obskit/specctlgo/internal/attrs"
	"github.com/obskit/specctlgo/internal/driller"
)

// filterRegex parses a filter expression into key, operator, and target.
// The operator may carry a leading ! for negation.
var filterRegex = regexp.MustCompile(`^(.*?)(!?[=~^></@])(.*)$`)

// Filter is a single parsed --filter expression.
type Filter struct {
	Key     string
	Negate  bool
	Operand string
	Target  string
}

// BuildFilters parses a filter specification string into a slice of Filter.
// Invalid specs are logged and skipped.
func BuildFilters(spec string) []Filter {
	if spec == "" {
		return nil
	}

	// Default delimiter is ",", allow an override for targets that contain
	// commas (coordinate pairs, for example).
	delim := ","
	if d, ok := os.LookupEnv("SPECCTL_FILTER_DELIM"); ok {
		delim = d
	}

	var filters []Filter //nolint:prealloc
	for _, filterSpec := range strings.Split(spec, delim) {
		parts := filterRegex.FindStringSubmatch(filterSpec)
		if parts == nil {
			log.Error("invalid filter: " + filterSpec)
			continue
		}

		operand := parts[2]
		negate := strings.HasPrefix(operand, "!")
		operand = strings.TrimPrefix(operand, "!")

		filters = append(filters, Filter{
			Key:     parts[1],
			Negate:  negate,
			Operand: operand,
			Target:  parts[3],
		})
	}

	return filters
}

// FilterDataset projects the candidate rows through the attr list and keeps
// the rows matching every filter in the spec.
func FilterDataset(candidates gjson.Result, al attrs.AttrList, spec string) []map[string]interface{} {
	filters := BuildFilters(spec)

	var results []map[string]interface{} //nolint:prealloc
	for _, candidate := range candidates.Array() {
		if !matchesAll(candidate, al, filters) {
			continue
		}

		row := make(map[string]interface{}, len(al))
		for i := range al {
			row[al[i].OutputKey] = driller.Drill(candidate.Raw, al[i].Key).Value()
		}
		results = append(results, row)
	}

	return results
}

// matchesAll returns true if the candidate row satisfies every filter.
func matchesAll(candidate gjson.Result, al attrs.AttrList, filters []Filter) bool {
	for _, filter := range filters {
		key := filter.Key
		for _, attr := range al {
			if attr.OutputKey == filter.Key {
				key = attr.Key
				break
			}
		}

		value := driller.Drill(candidate.Raw, key)
		if !value.Exists() {
			return false
		}

		if !check(value, filter) {
			return false
		}
	}
	return true
}

// check evaluates one filter against a value. Ordering comparisons are
// numeric when both sides parse as numbers, so T_K>10000 does what a reader
// expects; everything else is string-wise.
func check(value gjson.Result, filter Filter) bool {
	v := value.String()

	var result bool
	switch filter.Operand {
	case "=":
		result = v == filter.Target
	case "~":
		result = strings.EqualFold(v, filter.Target)
	case "^":
		result = strings.HasPrefix(v, filter.Target)
	case ">", "<":
		result = compareOrdered(value, filter.Target, filter.Operand)
	case "@":
		result = strings.Contains(v, filter.Target)
	case "/":
		matched, err := regexp.MatchString(filter.Target, v)
		if err != nil {
			log.Error("invalid regex: " + filter.Target)
			return false
		}
		result = matched
	default:
		log.Error("unsupported filtering operand: " + filter.Operand)
		return false
	}

	return result == !filter.Negate
}

func compareOrdered(value gjson.Result, target, operand string) bool {
	if t, err := strconv.ParseFloat(target, 64); err == nil && value.Type == gjson.Number {
		if operand == ">" {
			return value.Num > t
		}
		return value.Num < t
	}

	if operand == ">" {
		return value.String() > target
	}
	return value.String() < target
}

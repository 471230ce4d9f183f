// Copyright (c) 2025 specctl contributors.
// SPDX-License-Identifier: Apache-2.0

// Package attrs models the --attrs flag: which dataset columns to emit,
// under what name, and with what display transformations.
package attrs

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/apex/log"
)

// Attr is one output column selected from a dataset row.
type Attr struct {
	// Key is the JSON key to extract from the row.
	Key string
	// Include marks whether the attr appears in output or is only carried
	// for filtering and sorting.
	Include bool
	// OutputKey is the emitted key, doubling as the column title.
	OutputKey string
	// TransformSpec is a compact string of display transforms:
	//   u/l   upper/lower case
	//   pN    fixed precision for numeric values (e.g. p2)
	//   N/-N  truncate to N chars; negative keeps both ends
	TransformSpec string
}

// Transform applies the attr's display transforms to a single value.
func (a *Attr) Transform(value interface{}) interface{} {
	if num, ok := value.(float64); ok {
		if prec, ok := precision(a.TransformSpec); ok {
			return strconv.FormatFloat(num, 'f', prec, 64)
		}
		return value
	}

	result, ok := value.(string)
	if !ok {
		return value
	}

	// The last case transform in the spec wins, so a per-attr setting can
	// override a prepended global one.
	lastL := strings.LastIndexAny(a.TransformSpec, "lL")
	lastU := strings.LastIndexAny(a.TransformSpec, "uU")
	if lastL > lastU {
		result = strings.ToLower(result)
	} else if lastU > lastL {
		result = strings.ToUpper(result)
	}

	if width, ok := truncation(a.TransformSpec); ok {
		abs := int(math.Abs(float64(width)))
		if len(result) > abs && abs > 3 {
			if width < 0 {
				half := abs/2 - 1
				result = result[:half] + ".." + result[len(result)-half:]
			} else {
				result = result[:width]
			}
		}
	}

	return result
}

// precision returns the pN directive value, if any.
func precision(spec string) (int, bool) {
	i := strings.IndexByte(spec, 'p')
	if i < 0 || i+1 >= len(spec) {
		return 0, false
	}
	j := i + 1
	for j < len(spec) && spec[j] >= '0' && spec[j] <= '9' {
		j++
	}
	if j == i+1 {
		return 0, false
	}
	n, err := strconv.Atoi(spec[i+1 : j])
	if err != nil {
		return 0, false
	}
	return n, true
}

// truncation returns the width directive, skipping pN digits. The last
// (most specific) directive wins.
func truncation(spec string) (int, bool) {
	// Blank out any pN directive so its digits are not mistaken for a width.
	if i := strings.IndexByte(spec, 'p'); i >= 0 {
		j := i + 1
		for j < len(spec) && spec[j] >= '0' && spec[j] <= '9' {
			j++
		}
		spec = spec[:i] + spec[j:]
	}

	found := false
	width := 0
	i := 0
	for i < len(spec) {
		neg := spec[i] == '-'
		j := i
		if neg {
			j++
		}
		k := j
		for k < len(spec) && spec[k] >= '0' && spec[k] <= '9' {
			k++
		}
		if k > j {
			n, _ := strconv.Atoi(spec[j:k])
			if neg {
				n = -n
			}
			width = n
			found = true
			i = k
			continue
		}
		i++
	}
	return width, found
}

// AttrList is the ordered set of selected attrs.
type AttrList []Attr

// String renders the list back into --attrs flag format.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		result = append(result, fmt.Sprintf("%s:%s:%s", attr.Key, attr.OutputKey, attr.TransformSpec))
	}
	return strings.Join(result, ",")
}

// Set parses one --attrs value and merges it into the list. Each comma
// separated spec is "key[:outputkey[:transform]]"; a leading '!' carries the
// attr for filtering/sorting without emitting it.
func (a *AttrList) Set(value string) error {
	if value == "" || value == "*" {
		return nil
	}

specloop:
	for _, spec := range strings.Split(value, ",") {
		attr := Attr{Include: true}

		fields := strings.Split(spec, ":")

		attr.Key = strings.TrimSpace(fields[0])
		if strings.HasPrefix(attr.Key, "!") {
			attr.Include = false
			attr.Key = attr.Key[1:]
		}
		if attr.Key == "" {
			log.Error("empty attr spec: " + spec)
			continue
		}

		// Default the output key to the last dotted segment of the JSON key.
		segments := strings.Split(attr.Key, ".")
		attr.OutputKey = segments[len(segments)-1]
		if len(fields) > 1 && strings.TrimSpace(fields[1]) != "" {
			attr.OutputKey = strings.TrimSpace(fields[1])
		}

		if len(fields) > 2 {
			attr.TransformSpec = strings.TrimSpace(fields[2])
		}

		// A respecified attr updates the existing entry in place so command
		// defaults can be overridden without changing column order.
		for i := range *a {
			if (*a)[i].Key == attr.Key || (*a)[i].OutputKey == attr.Key {
				(*a)[i].Include = attr.Include
				(*a)[i].OutputKey = attr.OutputKey
				(*a)[i].TransformSpec = attr.TransformSpec
				continue specloop
			}
		}

		*a = append(*a, attr)
	}

	return nil
}

// ApplyGlobalTransform prepends a transform spec to every attr. Per-attr
// specs still win because later directives override earlier ones.
func (a *AttrList) ApplyGlobalTransform(spec string) {
	if spec == "" {
		return
	}
	for i := range *a {
		(*a)[i].TransformSpec = spec + (*a)[i].TransformSpec
	}
}

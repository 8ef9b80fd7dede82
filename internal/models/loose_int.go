// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package models

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// LooseInt is an integer decoded leniently from JSON. Numbers and numeric
// strings are accepted; anything else (fractions, text, null, objects) decodes
// to an unset value instead of failing the whole request, so that row filters
// can drop the offending row.
type LooseInt struct {
	value int64
	set   bool
}

// Int returns a set LooseInt holding v.
func Int(v int64) LooseInt {
	return LooseInt{value: v, set: true}
}

// Int64 returns the value and whether it was set.
func (n LooseInt) Int64() (int64, bool) {
	return n.value, n.set
}

// Positive returns the value when it is set and greater than zero.
func (n LooseInt) Positive() (int64, bool) {
	if !n.set || n.value <= 0 {
		return 0, false
	}
	return n.value, true
}

// UnmarshalJSON implements json.Unmarshaler. It never returns an error.
func (n *LooseInt) UnmarshalJSON(data []byte) error {
	*n = LooseInt{}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	switch v := raw.(type) {
	case float64:
		n.setFloat(v)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			n.setFloat(f)
		}
	}
	return nil
}

func (n *LooseInt) setFloat(f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return
	}
	n.value = int64(f)
	n.set = true
}

// MarshalJSON implements json.Marshaler; unset values encode as null.
func (n LooseInt) MarshalJSON() ([]byte, error) {
	if !n.set {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(n.value, 10)), nil
}

// OneOrMany decodes either a single JSON object or an array of objects.
// Elements that do not decode into T (a string where a number belongs, a
// bare number instead of an object) are dropped, leaving the rest for the
// row filters.
type OneOrMany[T any] []T

// UnmarshalJSON implements json.Unmarshaler.
func (m *OneOrMany[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*m = nil
		return nil
	}

	elements := []json.RawMessage{trimmed}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &elements); err != nil {
			return err
		}
	}

	out := make(OneOrMany[T], 0, len(elements))
	for _, raw := range elements {
		var row T
		if err := json.Unmarshal(raw, &row); err != nil {
			continue
		}
		out = append(out, row)
	}
	*m = out
	return nil
}

// IDSelection names the records targeted by a delete. It accepts either
// {"ids": [...]} or {"id": n}; a list wins whenever "ids" is an array.
type IDSelection struct {
	ID     LooseInt
	IDs    []LooseInt
	IsList bool
}

// IDs builds a list selection.
func IDs(ids ...int64) IDSelection {
	sel := IDSelection{IsList: true, IDs: make([]LooseInt, 0, len(ids))}
	for _, id := range ids {
		sel.IDs = append(sel.IDs, Int(id))
	}
	return sel
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *IDSelection) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID  LooseInt        `json:"id"`
		IDs json.RawMessage `json:"ids"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = IDSelection{ID: raw.ID}
	ids := bytes.TrimSpace(raw.IDs)
	if len(ids) > 0 && ids[0] == '[' {
		if err := json.Unmarshal(ids, &s.IDs); err != nil {
			return err
		}
		s.IsList = true
	}
	return nil
}

// PositiveIDs returns the selected ids that are positive integers, in input
// order.
func (s IDSelection) PositiveIDs() []int64 {
	candidates := s.IDs
	if !s.IsList {
		candidates = []LooseInt{s.ID}
	}

	out := make([]int64, 0, len(candidates))
	for _, c := range candidates {
		if id, ok := c.Positive(); ok {
			out = append(out, id)
		}
	}
	return out
}

// Package validators gates every mutating request with ordered checks.
//
// A pipeline threads an immutable command value through its checks: each check
// receives the command built so far and returns an enriched copy, or an error
// that stops the run. Nothing downstream of a failed check is evaluated.
package validators

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/reservation-app/utils"
)

// Body is the `data` object of a request payload.
type Body map[string]any

// Check is one stage of a pipeline.
type Check[C any] struct {
	Name string
	Fn   func(ctx context.Context, cmd C) (C, error)
}

func check[C any](name string, fn func(ctx context.Context, cmd C) (C, error)) Check[C] {
	return Check[C]{Name: name, Fn: fn}
}

// Run applies checks in order and returns the command produced by the last one.
// A cancelled context aborts the run before the next check starts.
func Run[C any](ctx context.Context, cmd C, checks ...Check[C]) (C, error) {
	for _, ck := range checks {
		if err := ctx.Err(); err != nil {
			return cmd, err
		}
		next, err := ck.Fn(ctx, cmd)
		if err != nil {
			utils.InfoLogger.WithFields(logrus.Fields{
				"check": ck.Name,
				"valid": false,
			}).Debug(err.Error())
			return cmd, err
		}
		cmd = next
	}
	return cmd, nil
}

// DecodeBody extracts the `data` object from a raw JSON payload.
// A missing or null `data` yields an empty body so that presence checks report the first missing field.
func DecodeBody(raw []byte) (Body, error) {
	var envelope struct {
		Data Body `json:"data"`
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return Body{}, nil
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return Body{}, nil
	}
	return envelope.Data, nil
}

func (b Body) present(key string) bool {
	v, ok := b[key]
	if !ok || v == nil {
		return false
	}
	if s, isString := v.(string); isString {
		return strings.TrimSpace(s) != ""
	}
	return true
}

func (b Body) str(key string) (string, bool) {
	s, ok := b[key].(string)
	return strings.TrimSpace(s), ok
}

// positiveInt accepts JSON numbers with no fractional part that are greater than zero.
func (b Body) positiveInt(key string) (int, bool) {
	f, ok := b[key].(float64)
	if !ok || f != math.Trunc(f) || f < 1 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// id accepts a positive integer given either as a JSON number or a digit string.
func (b Body) id(key string) (uint, bool) {
	switch v := b[key].(type) {
	case float64:
		if v != math.Trunc(v) || v < 1 || v > math.MaxUint32 {
			return 0, false
		}
		return uint(v), true
	case string:
		n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 32)
		if err != nil || n == 0 {
			return 0, false
		}
		return uint(n), true
	}
	return 0, false
}

func (b Body) extraneous(allowed ...string) []string {
	var extra []string
	for key := range b {
		known := false
		for _, a := range allowed {
			if key == a {
				known = true
				break
			}
		}
		if !known {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	return extra
}

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type comparison struct {
	Target         target
	LegacyStatus   int
	GoStatus       int
	StatusMatch    bool
	BodyMatch      bool
	Diffs          []string
	Error          error
	DurationGo     time.Duration
	DurationLegacy time.Duration
}

func (c comparison) ok() bool {
	return c.Error == nil && c.StatusMatch && c.BodyMatch
}

func compareTarget(client *http.Client, goBase, legacyBase string, tgt target) comparison {
	comp := comparison{Target: tgt}
	goBody, goStatus, goDur, goErr := fetch(client, goBase, tgt)
	legacyBody, legacyStatus, legacyDur, legacyErr := fetch(client, legacyBase, tgt)
	comp.DurationGo = goDur
	comp.DurationLegacy = legacyDur

	if goErr != nil {
		comp.Error = fmt.Errorf("go request failed: %w", goErr)
		return comp
	}
	if legacyErr != nil {
		comp.Error = fmt.Errorf("legacy request failed: %w", legacyErr)
		return comp
	}

	comp.GoStatus = goStatus
	comp.LegacyStatus = legacyStatus
	comp.StatusMatch = goStatus == legacyStatus

	diffs, err := diffRecords(goBody, legacyBody)
	if err != nil {
		comp.Error = err
		return comp
	}
	comp.Diffs = diffs
	comp.BodyMatch = len(diffs) == 0
	return comp
}

func fetch(client *http.Client, base string, tgt target) ([]byte, int, time.Duration, error) {
	if client == nil {
		return nil, 0, 0, errors.New("nil client")
	}
	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := tgt.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequest(method, strings.TrimRight(base, "/")+path, nil)
	if err != nil {
		return nil, 0, 0, err
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("read body: %w", err)
	}
	return body, resp.StatusCode, time.Since(start), nil
}

// diffRecords compares two JSON arrays of records keyed by "id". Only fields
// present on both sides are compared; money and flags are normalised first.
func diffRecords(goBody, legacyBody []byte) ([]string, error) {
	var goRows, legacyRows []map[string]interface{}
	if err := json.Unmarshal(goBody, &goRows); err != nil {
		return nil, fmt.Errorf("decode go body: %w", err)
	}
	if err := json.Unmarshal(legacyBody, &legacyRows); err != nil {
		return nil, fmt.Errorf("decode legacy body: %w", err)
	}

	goByID := indexByID(goRows)
	legacyByID := indexByID(legacyRows)

	var diffs []string
	for _, id := range sortedKeys(legacyByID) {
		legacy := legacyByID[id]
		current, ok := goByID[id]
		if !ok {
			diffs = append(diffs, fmt.Sprintf("id %s missing from go response", id))
			continue
		}
		for _, field := range sortedKeys(legacy) {
			goValue, shared := current[field]
			if !shared {
				continue
			}
			if !sameValue(goValue, legacy[field]) {
				diffs = append(diffs, fmt.Sprintf("id %s field %s: go=%v legacy=%v", id, field, goValue, legacy[field]))
			}
		}
	}
	for _, id := range sortedKeys(goByID) {
		if _, ok := legacyByID[id]; !ok {
			diffs = append(diffs, fmt.Sprintf("id %s missing from legacy response", id))
		}
	}
	return diffs, nil
}

func indexByID(rows []map[string]interface{}) map[string]map[string]interface{} {
	out := make(map[string]map[string]interface{}, len(rows))
	for i, row := range rows {
		key := fmt.Sprintf("#%d", i)
		if id, ok := row["id"]; ok {
			key = fmt.Sprint(normalize(id))
		}
		out[key] = row
	}
	return out
}

func sameValue(a, b interface{}) bool {
	na, nb := normalize(a), normalize(b)
	da, okA := na.(decimal.Decimal)
	db, okB := nb.(decimal.Decimal)
	if okA && okB {
		return da.Sub(db).Abs().LessThan(decimal.New(5, -3))
	}
	return fmt.Sprint(na) == fmt.Sprint(nb)
}

// normalize maps numbers and numeric strings to decimals and booleans to 0/1,
// since the legacy app serialises SQLite values straight from pandas.
func normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case float64:
		return decimal.NewFromFloat(val)
	case bool:
		if val {
			return decimal.NewFromInt(1)
		}
		return decimal.Zero
	case string:
		trimmed := strings.TrimSpace(val)
		if d, err := decimal.NewFromString(trimmed); err == nil {
			return d
		}
		return trimmed
	case nil:
		return ""
	}
	return v
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package fixtures

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/goliatone/go-hr-auth/employees"
)

// Source tells where loaded records came from
type Source string

const (
	SourceFile      Source = "file"
	SourceGenerated Source = "generated"
)

// record is the on-disk shape. Older files store booleans as 0 or 1.
type record struct {
	employees.Employee
	SystemAssigned flexBool `json:"system_assigned"`
	IsActive       flexBool `json:"is_active"`
}

// Load reads records from path. A missing or unreadable file falls back to
// DefaultCount records from gen; the returned error then explains why.
func Load(path string, gen *Generator) ([]employees.Employee, Source, error) {
	records, err := ReadFile(path)
	if err == nil {
		return records, SourceFile, nil
	}
	return gen.Generate(DefaultCount), SourceGenerated, err
}

// ReadFile decodes a fixture file
func ReadFile(path string) ([]employees.Employee, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}

	var raw []record
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode fixtures %s: %w", path, err)
	}

	out := make([]employees.Employee, len(raw))
	for i, r := range raw {
		e := r.Employee
		e.SystemAssigned = bool(r.SystemAssigned)
		e.IsActive = bool(r.IsActive)
		out[i] = e
	}
	return out, nil
}

// Save writes records to path as indented JSON
func Save(path string, records []employees.Employee) error {
	if records == nil {
		records = []employees.Employee{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode fixtures: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write fixtures: %w", err)
	}
	return nil
}

// Remove deletes path, ignoring a missing file. It reports whether a file
// was removed.
func Remove(path string) (bool, error) {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// flexBool accepts true/false or 0/1
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "null":
		return nil
	case "true", "1", `"true"`, `"1"`:
		*b = true
		return nil
	case "false", "0", `"false"`, `"0"`:
		*b = false
		return nil
	}

	if n, err := strconv.ParseFloat(string(data), 64); err == nil {
		*b = n != 0
		return nil
	}

	return fmt.Errorf("invalid boolean %s", data)
}

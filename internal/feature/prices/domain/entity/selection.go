package entity

import (
	"fmt"
	"strings"
	"time"
)

// TidyRow is one (company, date) observation of the long-form table.
// Price is nil only under MissingNull when the company had no data that day.
type TidyRow struct {
	Date  time.Time `json:"date"`
	Label string    `json:"label"`
	Name  string    `json:"name"`
	Price *float64  `json:"price"`
}

// AxisRange is the y-axis domain of the chart. It never filters data.
type AxisRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// MissingPolicy decides how absent wide-table cells appear in the tidy rows.
type MissingPolicy int

const (
	// MissingOmit drops absent cells.
	MissingOmit MissingPolicy = iota
	// MissingNull emits a row with a nil price.
	MissingNull
)

// ParseMissingPolicy parses "omit" or "null"; an empty string means MissingOmit.
func ParseMissingPolicy(s string) (MissingPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "omit":
		return MissingOmit, nil
	case "null":
		return MissingNull, nil
	default:
		return MissingOmit, fmt.Errorf("unknown missing-value policy %q", s)
	}
}

func (p MissingPolicy) String() string {
	if p == MissingNull {
		return "null"
	}
	return "omit"
}

// Selection is the output of the selection and reshape step.
type Selection struct {
	Table *WideTable // Selected rows sorted by name
	Rows  []TidyRow  // Grouped by name, chronological within a name
	Axis  AxisRange  // Passed through to the chart
}

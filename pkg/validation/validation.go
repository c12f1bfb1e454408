// Package validation collects generation findings and checks finished maps
// against the generator's invariants.
package validation

import (
	"fmt"

	"github.com/graywick/mapforge/pkg/geo"
)

// Stage indicates which pipeline stage produced the result.
type Stage string

const (
	StageTerrain    Stage = "terrain"
	StageHydrology  Stage = "hydrology"
	StageForest     Stage = "forest"
	StageSettlement Stage = "settlement"
	StageRoad       Stage = "road"
	StageBridge     Stage = "bridge"
	StageGameplay   Stage = "gameplay"
	StageMap        Stage = "map"
)

// Severity indicates how critical a result is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Result is a single finding: a degraded placement search, a dropped
// entity, or an invariant violation.
type Result struct {
	Stage    Stage      `json:"stage"`
	Severity Severity   `json:"severity"`
	Message  string     `json:"message"`
	Position *geo.Point `json:"position,omitempty"`
	Count    int        `json:"count,omitempty"`
}

// Report is the complete output of a generation run or map check.
type Report struct {
	Valid    bool     `json:"valid"`
	Errors   []Result `json:"errors"`
	Warnings []Result `json:"warnings"`
	Info     []Result `json:"info"`
	Summary  string   `json:"summary"`
}

// NewReport creates an empty valid report.
func NewReport() *Report {
	return &Report{
		Valid:    true,
		Errors:   []Result{},
		Warnings: []Result{},
		Info:     []Result{},
	}
}

// AddError adds an error result and marks the report invalid.
func (r *Report) AddError(result Result) {
	result.Severity = SeverityError
	r.Errors = append(r.Errors, result)
	r.Valid = false
	r.updateSummary()
}

// AddWarning adds a warning result.
func (r *Report) AddWarning(result Result) {
	result.Severity = SeverityWarning
	r.Warnings = append(r.Warnings, result)
	r.updateSummary()
}

// AddInfo adds an informational result.
func (r *Report) AddInfo(result Result) {
	result.Severity = SeverityInfo
	r.Info = append(r.Info, result)
	r.updateSummary()
}

// Warnf adds a formatted warning for a stage.
func (r *Report) Warnf(stage Stage, format string, args ...any) {
	r.AddWarning(Result{Stage: stage, Message: fmt.Sprintf(format, args...)})
}

// Infof adds a formatted info result for a stage.
func (r *Report) Infof(stage Stage, format string, args ...any) {
	r.AddInfo(Result{Stage: stage, Message: fmt.Sprintf(format, args...)})
}

// Merge combines another report into this one.
func (r *Report) Merge(other *Report) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Info = append(r.Info, other.Info...)
	if !other.Valid {
		r.Valid = false
	}
	r.updateSummary()
}

func (r *Report) updateSummary() {
	r.Summary = fmt.Sprintf("%d errors, %d warnings, %d info",
		len(r.Errors), len(r.Warnings), len(r.Info))
}

// Package detect infers a skill template type and a set of answers from
// project evidence.
//
// Resolution runs in four steps:
//
//  1. Field extraction: assertions are applied in evidence order. The first
//     value for a field wins; later conflicting values are dropped and
//     reported as warnings.
//  2. Type inference: an ordered cascade of rules, each with a fixed
//     confidence.
//  3. Testing combination: a unit runner plus an E2E tool collapse into one
//     combined testing answer.
//  4. Field renaming for templates that expect different answer names.
package detect

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/skill-compiler/skillgen/internal/evidence"
)

// Template types.
const (
	TypeMicroservice = "microservice"
	TypeFullstack    = "fullstack"
	TypeFrontend     = "frontend"
	TypeAPI          = "api"
	TypeDevops       = "devops"
	TypeLibrary      = "library"
	TypeBasic        = "basic"
)

// Types lists every type Resolve can return.
var Types = []string{TypeMicroservice, TypeFullstack, TypeFrontend, TypeAPI, TypeDevops, TypeLibrary, TypeBasic}

// Confidence per resolution tier.
const (
	ConfidenceMicroservice = 0.95
	ConfidenceFullstack    = 0.9
	ConfidenceFrontend     = 0.85
	ConfidenceAPI          = 0.85
	ConfidenceDevops       = 0.8
	ConfidenceLibrary      = 0.6
	ConfidenceBasic        = 0.3
)

// Values of the reserved type and type-hint fields.
const (
	typeFullstackOrFrontend = "fullstack-or-frontend"
	hintDevops              = "devops"
	hintContainer           = "container"
	hintSource              = "source"
)

// Result is the outcome of one detection run.
type Result struct {
	Type       string              `json:"type"`
	Confidence float64             `json:"confidence"`
	Answers    map[string]any      `json:"answers"`
	Evidence   []evidence.Evidence `json:"evidence"`
	Warnings   []string            `json:"warnings"`
}

// Detector scans a directory and resolves the evidence it finds.
type Detector struct {
	scanner *evidence.Scanner
	logger  *zap.Logger
}

// NewDetector returns a Detector. A nil logger is replaced with a no-op one.
func NewDetector(logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{scanner: evidence.NewScanner(logger), logger: logger}
}

// Detect scans dir and resolves the result.
func (d *Detector) Detect(ctx context.Context, dir string) *Result {
	report := d.scanner.Scan(ctx, dir)
	r := Resolve(report.Evidence, report.HasManifest)
	d.logger.Debug("detection resolved",
		zap.String("dir", dir),
		zap.String("type", r.Type),
		zap.Float64("confidence", r.Confidence),
		zap.Int("warnings", len(r.Warnings)),
	)
	return r
}

type conflict struct {
	field string
	msg   string
}

// facts is the working state of one resolution.
type facts struct {
	answers   map[string]any
	origin    map[string]string // field -> source that set it
	conflicts []conflict
	types     map[string]bool
	hints     map[string]bool
	driver    string
	testing   []string // every testing value asserted, in order
}

// Resolve turns evidence into a Result. It never fails; no evidence yields
// the basic type.
func Resolve(ev []evidence.Evidence, hasManifest bool) *Result {
	f := extract(ev)

	r := &Result{
		Answers:  f.answers,
		Evidence: ev,
	}
	inferType(r, f, hasManifest)
	combineTesting(r, f)
	renameFields(r)

	r.Warnings = make([]string, 0, len(f.conflicts))
	for _, c := range f.conflicts {
		r.Warnings = append(r.Warnings, c.msg)
	}
	return r
}

func extract(ev []evidence.Evidence) *facts {
	f := &facts{
		answers: make(map[string]any),
		origin:  make(map[string]string),
		types:   make(map[string]bool),
		hints:   make(map[string]bool),
	}
	for _, e := range ev {
		for _, a := range e.Implies {
			switch a.Field {
			case evidence.FieldType:
				f.types[a.Value] = true
				continue
			case evidence.FieldTypeHint:
				f.hints[a.Value] = true
				continue
			case evidence.FieldDatabaseDriver:
				if f.driver == "" {
					f.driver = a.Value
				}
				continue
			case "testing":
				f.testing = append(f.testing, a.Value)
			}

			value := coerce(a.Value)
			existing, ok := f.answers[a.Field]
			if !ok {
				f.answers[a.Field] = value
				f.origin[a.Field] = e.Source
				continue
			}
			if existing != value {
				f.conflicts = append(f.conflicts, conflict{
					field: a.Field,
					msg: fmt.Sprintf("conflicting values for %q: kept %v (from %s), ignored %v (from %s)",
						a.Field, existing, f.origin[a.Field], value, e.Source),
				})
			}
		}
	}
	return f
}

func coerce(v string) any {
	switch v {
	case "true":
		return true
	case "false":
		return false
	}
	return v
}

func inferType(r *Result, f *facts, hasManifest bool) {
	orm, _ := f.answers["orm"].(string)

	switch {
	case f.types[TypeMicroservice]:
		r.Type, r.Confidence = TypeMicroservice, ConfidenceMicroservice
		if db := microserviceDatabase(orm, f.driver); db != "" {
			r.Answers["database"] = db
		}
		delete(r.Answers, "orm")

	case f.types[typeFullstackOrFrontend] && orm != "":
		r.Type, r.Confidence = TypeFullstack, ConfidenceFullstack
		r.Answers["database"] = appDatabase(orm, f.driver)

	case f.types[typeFullstackOrFrontend] || f.types[TypeFrontend]:
		r.Type, r.Confidence = TypeFrontend, ConfidenceFrontend

	case f.types[TypeAPI]:
		r.Type, r.Confidence = TypeAPI, ConfidenceAPI
		if orm != "" || f.driver != "" {
			r.Answers["database"] = appDatabase(orm, f.driver)
		}

	case f.hints[hintDevops] || (f.hints[hintContainer] && !hasManifest):
		r.Type, r.Confidence = TypeDevops, ConfidenceDevops

	case hasManifest && f.hints[hintSource]:
		r.Type, r.Confidence = TypeLibrary, ConfidenceLibrary
		if ts, _ := r.Answers["typescript"].(bool); ts {
			r.Answers["language"] = "typescript"
		}

	default:
		r.Type, r.Confidence = TypeBasic, ConfidenceBasic
	}
}

func isMongo(orm, driver string) bool {
	return orm == "mongoose" || driver == "mongo"
}

// microserviceDatabase combines ORM and driver into one identifier, e.g.
// "postgres-typeorm". TypeORM with no driver defaults to postgres.
func microserviceDatabase(orm, driver string) string {
	switch {
	case isMongo(orm, driver):
		return "mongodb"
	case orm != "" && driver != "":
		return driver + "-" + orm
	case orm != "":
		return "postgres-" + orm
	}
	return driver
}

// appDatabase resolves the database answer for fullstack and api templates.
func appDatabase(orm, driver string) string {
	switch {
	case isMongo(orm, driver):
		return "mongodb"
	case driver == "sqlite":
		return "sqlite"
	}
	return "postgres"
}

var (
	unitRunners = map[string]bool{"jest": true, "vitest": true, "mocha": true, "pytest": true}
	e2eTools    = map[string]bool{"playwright": true, "cypress": true}
)

func combineTesting(r *Result, f *facts) {
	var unit, e2e string
	for _, t := range f.testing {
		if unit == "" && unitRunners[t] {
			unit = t
		}
		if e2e == "" && e2eTools[t] {
			e2e = t
		}
	}
	if unit == "" || e2e == "" {
		return
	}
	r.Answers["testing"] = unit + "-" + e2e

	kept := f.conflicts[:0]
	for _, c := range f.conflicts {
		if c.field != "testing" {
			kept = append(kept, c)
		}
	}
	f.conflicts = kept
}

func renameFields(r *Result) {
	if r.Type != TypeFrontend {
		return
	}
	if v, ok := r.Answers["testing"]; ok {
		r.Answers["includeTesting"] = v
		delete(r.Answers, "testing")
	}
}

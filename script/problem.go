package script

import "github.com/akrol/geodebug/figure"

type RuleKind int8

const (
	RuleDist RuleKind = iota
	RuleAngle
)

// Rule is a resolved constraint over template point indices. Angle values are
// stored in degrees as written.
type Rule struct {
	Kind    RuleKind
	A, B, C int
	Value   float64
}

type TemplatePoint struct {
	Name     string
	Start    figure.Vec
	HasStart bool
	Fixed    bool
}

type TemplateLine struct {
	Kind  figure.LineKind
	A, B  int
	Label string
}

type TemplateCircle struct {
	Center int
	Radius float64
	Label  string
}

// Template is the loader's figure blueprint: which primitives exist and which
// constraints the optimizer should satisfy. Point positions in the template
// are starting hints, not results.
type Template struct {
	Points  []TemplatePoint
	Lines   []TemplateLine
	Circles []TemplateCircle
	Rules   []Rule
}

// Problem is the loader output: immutable flags plus the figure template.
type Problem struct {
	Flags    figure.Flags
	Template Template
}

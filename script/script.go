// Package script parses problem-definition text into the template and flags
// that seed a generation session.
package script

import (
	"fmt"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/akrol/geodebug/figure"
)

type Source struct {
	Directives []*Directive `parser:"@@*"`
	Statements []*Statement `parser:"@@*"`
}

type Directive struct {
	Name  string `parser:"'@' @Ident"`
	Value string `parser:"@(Ident|Number)"`
}

type Statement struct {
	Point  *PointDecl  `parser:"@@"`
	Line   *LineDecl   `parser:"| @@"`
	Circle *CircleDecl `parser:"| @@"`
	Rule   *RuleDecl   `parser:"| @@"`
}

type PointDecl struct {
	Name  string `parser:"'point' @Ident"`
	At    *Coord `parser:"('at' @@)?"`
	Fixed bool   `parser:"@'fixed'?"`
}

type Coord struct {
	X float64 `parser:"'(' @Number"`
	Y float64 `parser:"',' @Number ')'"`
}

type LineDecl struct {
	Kind string `parser:"@('line'|'segment'|'ray')"`
	Name string `parser:"(@Ident)? ':'"`
	A    string `parser:"@Ident"`
	B    string `parser:"@Ident"`
}

type CircleDecl struct {
	Name   string  `parser:"'circle' (@Ident)? ':'"`
	Center string  `parser:"@Ident"`
	Radius float64 `parser:"'radius' @Number"`
}

type RuleDecl struct {
	Dist  *DistRule  `parser:"'require' (@@"`
	Angle *AngleRule `parser:"| @@)"`
}

type DistRule struct {
	A     string  `parser:"'dist' '(' @Ident"`
	B     string  `parser:"',' @Ident ')'"`
	Value float64 `parser:"'=' @Number"`
}

// AngleRule constrains the angle at B, in degrees.
type AngleRule struct {
	A     string  `parser:"'angle' '(' @Ident"`
	B     string  `parser:"',' @Ident"`
	C     string  `parser:"',' @Ident ')'"`
	Value float64 `parser:"'=' @Number"`
}

var parser = participle.MustBuild[Source](
	participle.Lexer(lexer.MustSimple([]lexer.SimpleRule{
		{Name: "comment", Pattern: `#[^\n]*`},
		{Name: "whitespace", Pattern: `[\s]+`},
		{Name: "Number", Pattern: `-?\d+(\.\d+)?`},
		{Name: "Ident", Pattern: `[a-zA-Z]\w*`},
		{Name: "Punct", Pattern: `[-@:,()=.]`},
	})),
	participle.UseLookahead(2),
)

func Parse(src string) (*Source, error) {
	return parser.ParseString("", src)
}

// Load parses and resolves a problem definition. All name references must
// resolve and numeric parameters must be in range, otherwise the whole
// definition is rejected.
func Load(src string) (*Problem, error) {
	parsed, err := Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing problem definition: %w", err)
	}

	prob := &Problem{Flags: figure.DefaultFlags()}
	for _, d := range parsed.Directives {
		if err := prob.applyDirective(d); err != nil {
			return nil, err
		}
	}

	index := map[string]int{}
	for _, st := range parsed.Statements {
		if st.Point == nil {
			continue
		}
		p := st.Point
		if _, dup := index[p.Name]; dup {
			return nil, fmt.Errorf("point %q declared twice", p.Name)
		}
		tp := TemplatePoint{Name: p.Name, Fixed: p.Fixed}
		if p.At != nil {
			tp.Start = figure.Vec{X: p.At.X, Y: p.At.Y}
			tp.HasStart = true
		} else if p.Fixed {
			return nil, fmt.Errorf("fixed point %q needs a position", p.Name)
		}
		index[p.Name] = len(prob.Template.Points)
		prob.Template.Points = append(prob.Template.Points, tp)
	}

	resolve := func(name string) (int, error) {
		i, ok := index[name]
		if !ok {
			return 0, fmt.Errorf("unknown point %q", name)
		}
		return i, nil
	}

	for _, st := range parsed.Statements {
		switch {
		case st.Line != nil:
			a, err := resolve(st.Line.A)
			if err != nil {
				return nil, err
			}
			b, err := resolve(st.Line.B)
			if err != nil {
				return nil, err
			}
			if a == b {
				return nil, fmt.Errorf("%s %q needs two distinct points", st.Line.Kind, st.Line.Name)
			}
			prob.Template.Lines = append(prob.Template.Lines, TemplateLine{
				Kind:  lineKind(st.Line.Kind),
				A:     a,
				B:     b,
				Label: st.Line.Name,
			})
		case st.Circle != nil:
			c, err := resolve(st.Circle.Center)
			if err != nil {
				return nil, err
			}
			if st.Circle.Radius <= 0 {
				return nil, fmt.Errorf("circle %q: radius must be positive", st.Circle.Name)
			}
			prob.Template.Circles = append(prob.Template.Circles, TemplateCircle{
				Center: c,
				Radius: st.Circle.Radius,
				Label:  st.Circle.Name,
			})
		case st.Rule != nil:
			r, err := prob.resolveRule(st.Rule, resolve)
			if err != nil {
				return nil, err
			}
			prob.Template.Rules = append(prob.Template.Rules, r)
		}
	}

	if len(prob.Template.Points) == 0 {
		return nil, fmt.Errorf("problem defines no points")
	}
	return prob, nil
}

func (p *Problem) applyDirective(d *Directive) error {
	switch d.Name {
	case "dots":
		v, err := onOff(d.Value)
		if err != nil {
			return fmt.Errorf("@dots: %w", err)
		}
		p.Flags.ShowDots = v
	case "labels":
		v, err := onOff(d.Value)
		if err != nil {
			return fmt.Errorf("@labels: %w", err)
		}
		p.Flags.ShowLabels = v
	case "margin":
		v, err := strconv.ParseFloat(d.Value, 64)
		if err != nil || v < 0 || v >= 0.5 {
			return fmt.Errorf("@margin: must be in [0, 0.5), got %q", d.Value)
		}
		p.Flags.Margin = v
	default:
		return fmt.Errorf("unknown directive @%s", d.Name)
	}
	return nil
}

func (p *Problem) resolveRule(decl *RuleDecl, resolve func(string) (int, error)) (Rule, error) {
	switch {
	case decl.Dist != nil:
		a, err := resolve(decl.Dist.A)
		if err != nil {
			return Rule{}, err
		}
		b, err := resolve(decl.Dist.B)
		if err != nil {
			return Rule{}, err
		}
		if decl.Dist.Value <= 0 {
			return Rule{}, fmt.Errorf("dist(%s, %s): distance must be positive", decl.Dist.A, decl.Dist.B)
		}
		return Rule{Kind: RuleDist, A: a, B: b, Value: decl.Dist.Value}, nil
	case decl.Angle != nil:
		a, err := resolve(decl.Angle.A)
		if err != nil {
			return Rule{}, err
		}
		b, err := resolve(decl.Angle.B)
		if err != nil {
			return Rule{}, err
		}
		c, err := resolve(decl.Angle.C)
		if err != nil {
			return Rule{}, err
		}
		if decl.Angle.Value <= 0 || decl.Angle.Value >= 180 {
			return Rule{}, fmt.Errorf("angle at %s: must be in (0, 180) degrees", decl.Angle.B)
		}
		return Rule{Kind: RuleAngle, A: a, B: b, C: c, Value: decl.Angle.Value}, nil
	}
	return Rule{}, fmt.Errorf("empty rule")
}

func onOff(v string) (bool, error) {
	switch v {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", v)
}

func lineKind(word string) figure.LineKind {
	switch word {
	case "segment":
		return figure.Segment
	case "ray":
		return figure.Ray
	}
	return figure.FullLine
}

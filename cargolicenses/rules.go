package cargolicenses

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Action decides what a rule does with the licenses it lists.
type Action int

const (
	// AllowAction permits only the listed licenses.
	AllowAction Action = iota
	// DenyAction forbids the listed licenses.
	DenyAction
)

func (a Action) String() string {
	switch a {
	case AllowAction:
		return "allow"
	case DenyAction:
		return "deny"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Rules checks dependency licenses against an allow or deny list.
type Rules struct {
	Action    Action
	licenses  map[string]bool
	ignorePkg map[string]bool
}

// Violation describes a dependency whose license breaks the rules.
type Violation struct {
	Dependency Dependency
	Action     Action
}

func (v Violation) Error() string {
	license := v.Dependency.LicenseOrDefault()
	if v.Action == AllowAction {
		return fmt.Sprintf("%s %s: license %q is not permitted", v.Dependency.Name, v.Dependency.Version, license)
	}
	return fmt.Sprintf("%s %s: license %q is forbidden", v.Dependency.Name, v.Dependency.Version, license)
}

// NewRules creates the rules for action. Licenses are matched case-insensitively and
// "N/A" stands for dependencies without a declared license. Packages named in ignorePkg are never checked.
func NewRules(action Action, licenses []string, ignorePkg ...string) (*Rules, error) {
	if action != AllowAction && action != DenyAction {
		return nil, fmt.Errorf("unknown rule action: %v", action)
	}
	if len(licenses) == 0 {
		return nil, fmt.Errorf("no licenses given to %s", action)
	}
	r := &Rules{
		Action:    action,
		licenses:  make(map[string]bool),
		ignorePkg: make(map[string]bool),
	}
	for _, l := range licenses {
		l = strings.TrimSpace(l)
		if l == "" {
			return nil, fmt.Errorf("empty license in %s rules", action)
		}
		r.licenses[strings.ToLower(l)] = true
	}
	for _, p := range ignorePkg {
		r.ignorePkg[p] = true
	}
	return r, nil
}

// Evaluate returns a multierror holding one Violation per offending dependency, or nil.
func (r *Rules) Evaluate(deps []Dependency) error {
	var errs error
	for _, dep := range deps {
		if r.ignorePkg[dep.Name] {
			continue
		}
		if !r.Satisfied(dep) {
			errs = multierror.Append(errs, Violation{Dependency: dep, Action: r.Action})
		}
	}
	return errs
}

// Satisfied reports whether the license expression of dep is acceptable. The expression is expanded
// into OR alternatives of AND terms; it passes when every term of some alternative passes.
func (r *Rules) Satisfied(dep Dependency) bool {
	for _, terms := range alternatives(dep.LicenseOrDefault()) {
		ok := true
		for _, term := range terms {
			listed := r.licenses[strings.ToLower(term)]
			if listed != (r.Action == AllowAction) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// alternatives expands a license expression such as "(MIT OR Apache-2.0) AND Unicode-DFS-2016" into
// disjunctive normal form: a list of OR alternatives, each a list of AND terms. AND binds tighter
// than OR and parentheses group. The legacy "MIT/Apache-2.0" form is read as "(MIT OR Apache-2.0)".
// An expression that does not parse is a single term.
func alternatives(expr string) [][]string {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil
	}
	p := &exprParser{tokens: tokenize(expr)}
	out, err := p.or()
	if err != nil || p.pos != len(p.tokens) {
		return [][]string{{expr}}
	}
	return out
}

func tokenize(expr string) []string {
	var tokens []string
	for _, f := range strings.Fields(strings.NewReplacer("(", " ( ", ")", " ) ").Replace(expr)) {
		if !strings.Contains(f, "/") || strings.EqualFold(f, NoLicense) {
			tokens = append(tokens, f)
			continue
		}
		tokens = append(tokens, "(")
		for i, part := range strings.Split(f, "/") {
			if i > 0 {
				tokens = append(tokens, "OR")
			}
			tokens = append(tokens, part)
		}
		tokens = append(tokens, ")")
	}
	return tokens
}

type exprParser struct {
	tokens []string
	pos    int
}

func (p *exprParser) peek() string {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return ""
}

func (p *exprParser) or() ([][]string, error) {
	out, err := p.and()
	if err != nil {
		return nil, err
	}
	for strings.EqualFold(p.peek(), "OR") {
		p.pos++
		rhs, err := p.and()
		if err != nil {
			return nil, err
		}
		out = append(out, rhs...)
	}
	return out, nil
}

func (p *exprParser) and() ([][]string, error) {
	out, err := p.operand()
	if err != nil {
		return nil, err
	}
	for strings.EqualFold(p.peek(), "AND") {
		p.pos++
		rhs, err := p.operand()
		if err != nil {
			return nil, err
		}
		var product [][]string
		for _, l := range out {
			for _, r := range rhs {
				terms := append(append([]string(nil), l...), r...)
				product = append(product, terms)
			}
		}
		out = product
	}
	return out, nil
}

func (p *exprParser) operand() ([][]string, error) {
	tok := p.peek()
	switch {
	case tok == "":
		return nil, fmt.Errorf("unexpected end of license expression")
	case tok == "(":
		p.pos++
		out, err := p.or()
		if err != nil {
			return nil, err
		}
		if p.peek() != ")" {
			return nil, fmt.Errorf("missing ) in license expression")
		}
		p.pos++
		return out, nil
	case tok == ")" || isOperator(tok):
		return nil, fmt.Errorf("unexpected %q in license expression", tok)
	}
	p.pos++
	// "Apache-2.0 WITH LLVM-exception" is one term
	if strings.EqualFold(p.peek(), "WITH") && p.pos+1 < len(p.tokens) && !isOperator(p.tokens[p.pos+1]) {
		tok += " WITH " + p.tokens[p.pos+1]
		p.pos += 2
	}
	return [][]string{{tok}}, nil
}

func isOperator(tok string) bool {
	return strings.EqualFold(tok, "AND") || strings.EqualFold(tok, "OR") || strings.EqualFold(tok, "WITH") || tok == "(" || tok == ")"
}

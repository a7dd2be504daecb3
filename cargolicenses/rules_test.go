package cargolicenses

import (
	"errors"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRules_Invalid(t *testing.T) {
	_, err := NewRules(AllowAction, nil)
	assert.Error(t, err)

	_, err = NewRules(AllowAction, []string{"MIT", " "})
	assert.Error(t, err)

	_, err = NewRules(Action(7), []string{"MIT"})
	assert.Error(t, err)
}

func TestRules_Satisfied(t *testing.T) {
	allow, err := NewRules(AllowAction, []string{"mit", "Apache-2.0"})
	require.NoError(t, err)
	deny, err := NewRules(DenyAction, []string{"GPL-3.0", "N/A"})
	require.NoError(t, err)

	tests := []struct {
		license   string
		wantAllow bool
		wantDeny  bool
	}{
		{license: "MIT", wantAllow: true, wantDeny: true},
		{license: "MIT OR Apache-2.0", wantAllow: true, wantDeny: true},
		{license: "MIT/Apache-2.0", wantAllow: true, wantDeny: true},
		{license: "GPL-3.0 OR MIT", wantAllow: true, wantDeny: true},
		{license: "GPL-3.0", wantAllow: false, wantDeny: false},
		{license: "MIT AND GPL-3.0", wantAllow: false, wantDeny: false},
		{license: "(MIT OR Apache-2.0) AND Unicode-DFS-2016", wantAllow: false, wantDeny: true},
		{license: "MIT AND (GPL-3.0 OR Apache-2.0)", wantAllow: true, wantDeny: true},
		{license: "(MIT OR GPL-3.0) AND (Apache-2.0 OR GPL-3.0)", wantAllow: true, wantDeny: true},
		{license: "GPL-3.0/MIT AND Zlib", wantAllow: false, wantDeny: true},
		{license: "Apache-2.0 WITH LLVM-exception", wantAllow: false, wantDeny: true},
		{license: "", wantAllow: false, wantDeny: false},
		{license: "N/A", wantAllow: false, wantDeny: false},
		{license: "BSD-3-Clause", wantAllow: false, wantDeny: true},
		{license: "MIT OR", wantAllow: false, wantDeny: true},
	}
	for _, test := range tests {
		t.Run(test.license, func(t *testing.T) {
			dep := Dependency{Name: "x", Version: "1.0.0", License: test.license}
			assert.Equal(t, test.wantAllow, allow.Satisfied(dep), "allow")
			assert.Equal(t, test.wantDeny, deny.Satisfied(dep), "deny")
		})
	}
}

func TestAlternatives(t *testing.T) {
	tests := []struct {
		expr string
		want [][]string
	}{
		{expr: "MIT", want: [][]string{{"MIT"}}},
		{expr: "N/A", want: [][]string{{"N/A"}}},
		{expr: "MIT/Apache-2.0", want: [][]string{{"MIT"}, {"Apache-2.0"}}},
		{expr: "MIT OR Apache-2.0 AND Zlib", want: [][]string{{"MIT"}, {"Apache-2.0", "Zlib"}}},
		{expr: "(MIT OR Apache-2.0) AND Unicode-DFS-2016", want: [][]string{{"MIT", "Unicode-DFS-2016"}, {"Apache-2.0", "Unicode-DFS-2016"}}},
		{expr: "MIT/Apache-2.0 AND Zlib", want: [][]string{{"MIT", "Zlib"}, {"Apache-2.0", "Zlib"}}},
		{expr: "Apache-2.0 WITH LLVM-exception OR MIT", want: [][]string{{"Apache-2.0 WITH LLVM-exception"}, {"MIT"}}},
		{expr: "(MIT", want: [][]string{{"(MIT"}}},
		{expr: "", want: nil},
	}
	for _, test := range tests {
		t.Run(test.expr, func(t *testing.T) {
			assert.Equal(t, test.want, alternatives(test.expr))
		})
	}
}

func TestRules_MissingLicense(t *testing.T) {
	deps := []Dependency{
		{Name: "licensed", Version: "1.0.0", License: "MIT"},
		{Name: "nolicense", Version: "0.1.0"},
	}

	forbid, err := NewRules(DenyAction, []string{"N/A"})
	require.NoError(t, err)
	err = forbid.Evaluate(deps)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `nolicense 0.1.0: license "N/A" is forbidden`)

	permit, err := NewRules(AllowAction, []string{"MIT", "n/a"})
	require.NoError(t, err)
	assert.NoError(t, permit.Evaluate(deps))
}

func TestRules_Evaluate(t *testing.T) {
	rules, err := NewRules(AllowAction, []string{"MIT"}, "internal-tool")
	require.NoError(t, err)

	deps := []Dependency{
		{Name: "ok", Version: "1.0.0", License: "MIT"},
		{Name: "bad", Version: "2.0.0", License: "GPL-3.0"},
		{Name: "internal-tool", Version: "0.1.0"},
		{Name: "unlicensed", Version: "0.3.0"},
	}

	err = rules.Evaluate(deps)
	require.Error(t, err)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	require.Len(t, merr.Errors, 2)
	assert.Equal(t, `bad 2.0.0: license "GPL-3.0" is not permitted`, merr.Errors[0].Error())
	assert.Equal(t, `unlicensed 0.3.0: license "N/A" is not permitted`, merr.Errors[1].Error())

	assert.NoError(t, rules.Evaluate(deps[:1]))
}

func TestViolation_Deny(t *testing.T) {
	v := Violation{Dependency: Dependency{Name: "x", Version: "1.0.0", License: "GPL-3.0"}, Action: DenyAction}
	assert.Equal(t, `x 1.0.0: license "GPL-3.0" is forbidden`, v.Error())
}

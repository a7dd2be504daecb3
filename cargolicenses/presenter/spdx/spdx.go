package spdx

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khulnasoft/cargo-licenses/cargolicenses"
)

const noAssertion = "NOASSERTION"

// crates.io serves every published crate version at a fixed download URL.
const cratesIOSource = "registry+https://github.com/rust-lang/crates.io-index"

var licenseIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9.\-]*\+?$`)

// Presenter outputs license information in SPDX tag-value format.
// https://spdx.github.io/spdx-spec/v2.3/SPDX-tag-value-format/
type Presenter struct {
	deps []cargolicenses.Dependency
	now  func() time.Time
}

// NewPresenter creates a new SPDX presenter.
func NewPresenter(deps []cargolicenses.Dependency) *Presenter {
	return &Presenter{deps: deps, now: time.Now}
}

// Present writes the SPDX report to the given writer.
func (p *Presenter) Present(w io.Writer) error {
	var b strings.Builder

	// SPDX Document Creation Information
	fmt.Fprintf(&b, "SPDXVersion: SPDX-2.3\n")
	fmt.Fprintf(&b, "DataLicense: CC0-1.0\n")
	fmt.Fprintf(&b, "SPDXID: SPDXRef-DOCUMENT\n")
	fmt.Fprintf(&b, "DocumentName: cargo-licenses-report\n")
	fmt.Fprintf(&b, "DocumentNamespace: urn:uuid:%s\n", uuid.NewString())
	fmt.Fprintf(&b, "Creator: Tool: cargo-licenses (github.com/khulnasoft/cargo-licenses)\n")
	fmt.Fprintf(&b, "Created: %s\n", p.now().UTC().Format("2006-01-02T15:04:05Z"))
	fmt.Fprintf(&b, "\n")

	// Packages section
	ids := make(map[string]int)
	for _, dep := range p.deps {
		id := sanitizeSPDXID(dep.Name + "-" + dep.Version)
		// the same name and version from two sources
		ids[id]++
		if n := ids[id]; n > 1 {
			id = fmt.Sprintf("%s-%d", id, n)
		}
		fmt.Fprintf(&b, "##### Package: %s\n\n", dep.Name)
		fmt.Fprintf(&b, "PackageName: %s\n", dep.Name)
		fmt.Fprintf(&b, "SPDXID: SPDXRef-Package-%s\n", id)
		fmt.Fprintf(&b, "PackageVersion: %s\n", dep.Version)
		fmt.Fprintf(&b, "PackageDownloadLocation: %s\n", downloadLocation(dep))
		fmt.Fprintf(&b, "FilesAnalyzed: false\n")
		if len(dep.Authors) > 0 {
			fmt.Fprintf(&b, "PackageOriginator: Person: %s\n", strings.Join(dep.Authors, ", "))
		}
		declared := licenseExpression(dep.License)
		fmt.Fprintf(&b, "LicenseConcluded: %s\n", noAssertion)
		fmt.Fprintf(&b, "LicenseDeclared: %s\n", declared)
		if dep.LicenseFile != "" {
			fmt.Fprintf(&b, "PackageLicenseComments: License file: %s\n", dep.LicenseFile)
		}
		fmt.Fprintf(&b, "PackageCopyrightText: %s\n", noAssertion)
		fmt.Fprintf(&b, "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// downloadLocation prefers the crates.io download URL, then the declared repository.
func downloadLocation(dep cargolicenses.Dependency) string {
	switch {
	case dep.Source == cratesIOSource:
		return fmt.Sprintf("https://crates.io/api/v1/crates/%s/%s/download", dep.Name, dep.Version)
	case strings.HasPrefix(dep.Source, "git+"):
		return dep.Source
	case dep.Repository != "":
		location := dep.Repository
		isVCS := strings.Contains(location, "github.com") ||
			strings.Contains(location, "gitlab.com") ||
			strings.Contains(location, "bitbucket.org") ||
			strings.HasSuffix(location, ".git")
		if isVCS && !strings.HasPrefix(location, "git+") {
			location = "git+" + location
		}
		return location
	default:
		return noAssertion
	}
}

// sanitizeSPDXID replaces characters not allowed in SPDXID strings.
// SPDXID strings must be composed of letters, numbers, ".", and "-". Crate names never contain
// ".", so "_" maps to "." to keep serde_derive and serde-derive apart.
func sanitizeSPDXID(name string) string {
	r := strings.NewReplacer("/", "-", "@", "-at-", ":", "-col-", "_", ".", "+", "-plus-", " ", "-")
	return r.Replace(name)
}

// licenseExpression converts a cargo license field to an SPDX license expression.
// Cargo still accepts the legacy "MIT/Apache-2.0" form, which is rewritten with OR.
// Anything that does not look like an expression over license identifiers becomes NOASSERTION.
func licenseExpression(license string) string {
	license = strings.TrimSpace(license)
	if license == "" {
		return noAssertion
	}
	license = strings.Join(strings.Split(license, "/"), " OR ")

	tokens := strings.Fields(strings.NewReplacer("(", " ( ", ")", " ) ").Replace(license))
	depth := 0
	expectID := true
	for _, tok := range tokens {
		switch {
		case tok == "(":
			if !expectID {
				return noAssertion
			}
			depth++
		case tok == ")":
			if expectID || depth == 0 {
				return noAssertion
			}
			depth--
		case tok == "AND" || tok == "OR" || tok == "WITH":
			if expectID {
				return noAssertion
			}
			expectID = true
		default:
			if !expectID || !licenseIDPattern.MatchString(tok) {
				return noAssertion
			}
			expectID = false
		}
	}
	if expectID || depth != 0 {
		return noAssertion
	}

	var out strings.Builder
	for i, tok := range tokens {
		if i > 0 && tokens[i-1] != "(" && tok != ")" {
			out.WriteByte(' ')
		}
		out.WriteString(tok)
	}
	return out.String()
}

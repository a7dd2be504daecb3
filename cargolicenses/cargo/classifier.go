package cargo

import (
	"fmt"
	"os"

	"github.com/google/licenseclassifier"
)

// Classifier identifies the license contained in a file.
type Classifier interface {
	Identify(licensePath string) (name string, licenseType string, err error)
}

type licenseClassifier struct {
	*licenseclassifier.License
	threshold float64
}

// NewClassifier creates a Classifier backed by the google license database.
// Matches below threshold are rejected.
func NewClassifier(threshold float64, opts ...licenseclassifier.OptionFunc) (Classifier, error) {
	c, err := licenseclassifier.New(threshold, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load license database: %w", err)
	}
	return &licenseClassifier{License: c, threshold: threshold}, nil
}

// Identify returns the SPDX-style name and restriction type of the license in licensePath.
func (c *licenseClassifier) Identify(licensePath string) (string, string, error) {
	content, err := os.ReadFile(licensePath)
	if err != nil {
		return "", "", err
	}
	m := c.NearestMatch(string(content))
	if m == nil || m.Confidence < c.threshold {
		return "", "", fmt.Errorf("%s does not match any known license above %.2f confidence", licensePath, c.threshold)
	}
	return m.Name, licenseclassifier.LicenseType(m.Name), nil
}

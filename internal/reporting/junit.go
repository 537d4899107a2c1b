package reporting

import (
	"encoding/xml"
	"fmt"
	"os"
	"time"
)

// JUnit XML schema types

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one bootstrap run.
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Timestamp  string          `xml:"timestamp,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase maps to one disparity metric.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
}

// JUnitFailure represents a disparity whose interval excludes zero.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitProperty is a key-value metadata entry.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// ConvertToJUnit turns every bootstrapped disparity metric of r into a test
// case that fails when its interval excludes zero.
func ConvertToJUnit(r *Report) *JUnitTestSuites {
	suite := JUnitTestSuite{
		Name:      "fairci " + r.Input,
		Timestamp: r.CreatedAt.Format(time.RFC3339),
		Properties: []JUnitProperty{
			{Name: "run_id", Value: r.RunID},
			{Name: "samples", Value: fmt.Sprintf("%d", r.Samples)},
			{Name: "threshold", Value: fmt.Sprintf("%g", r.Threshold)},
		},
	}
	if r.Options != nil {
		suite.Properties = append(suite.Properties,
			JUnitProperty{Name: "k", Value: fmt.Sprintf("%d", r.Options.K)},
			JUnitProperty{Name: "confidence_pct", Value: fmt.Sprintf("%g", r.Options.ConfidencePct)},
			JUnitProperty{Name: "seed", Value: fmt.Sprintf("%d", r.Options.Seed)},
		)
	}

	for _, m := range r.Disparities() {
		tc := JUnitTestCase{
			Name:      m.Name,
			Classname: "fairci.disparity",
		}
		if m.Bootstrap.Significant {
			tc.Failure = &JUnitFailure{
				Message: fmt.Sprintf("%s: mean=%.4f", m.Name, m.Bootstrap.Mean),
				Type:    "SignificantDisparity",
				Body:    InterpretDisparity(m),
			}
			suite.Failures++
		}
		suite.TestCases = append(suite.TestCases, tc)
	}
	suite.Tests = len(suite.TestCases)

	return &JUnitTestSuites{
		Tests:      suite.Tests,
		Failures:   suite.Failures,
		TestSuites: []JUnitTestSuite{suite},
	}
}

// WriteJUnitXML writes JUnit XML to the specified file path.
func WriteJUnitXML(r *Report, path string) error {
	suites := ConvertToJUnit(r)

	data, err := xml.MarshalIndent(suites, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JUnit XML: %w", err)
	}

	output := append([]byte(xml.Header), data...)
	return os.WriteFile(path, output, 0644)
}

/**
 * Copyright 2025 Adobe. All rights reserved.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License. You may obtain a copy
 * of the License at http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software distributed under
 * the License is distributed on an "AS IS" BASIS, WITHOUT WARRANTIES OR REPRESENTATIONS
 * OF ANY KIND, either express or implied. See the License for the specific language
 * governing permissions and limitations under the License.
 */

package scenario

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// JUnitTestSuite is one scenario with its steps as test cases
type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Errors    int             `xml:"errors,attr"`
	Skipped   int             `xml:"skipped,attr"`
	Time      float64         `xml:"time,attr"`
	Timestamp string          `xml:"timestamp,attr,omitempty"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase is one step of the scenario
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Classname string        `xml:"classname,attr"`
	Name      string        `xml:"name,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
}

// JUnitFailure is the error of the failed step
type JUnitFailure struct {
	XMLName xml.Name `xml:"failure"`
	Message string   `xml:"message,attr"`
	Type    string   `xml:"type,attr"`
	Content string   `xml:",chardata"`
}

// JUnitSkipped marks the step which was not executed
type JUnitSkipped struct {
	XMLName xml.Name `xml:"skipped"`
	Message string   `xml:"message,attr,omitempty"`
}

// JUnitSuite converts the report, the errors of the setup (like the page visit) are reported as
// the suite error
func (r *Report) JUnitSuite(started time.Time) *JUnitTestSuite {
	suite := &JUnitTestSuite{
		Name:      r.Scenario,
		Tests:     len(r.Steps),
		Time:      r.Duration.Seconds(),
		TestCases: make([]JUnitTestCase, 0, len(r.Steps)),
	}
	if !started.IsZero() {
		suite.Timestamp = started.UTC().Format(time.RFC3339)
	}
	for i, s := range r.Steps {
		tc := JUnitTestCase{
			Classname: r.Scenario,
			Name:      fmt.Sprintf("%02d %s", i, s.Step),
			Time:      s.Duration.Seconds(),
		}
		switch s.Status {
		case StatusFailed:
			suite.Failures++
			tc.Failure = &JUnitFailure{Message: "step failed", Type: "failure"}
			if s.Err != nil {
				tc.Failure.Content = s.Err.Error()
			}
		case StatusSkipped:
			suite.Skipped++
			tc.Skipped = &JUnitSkipped{Message: r.Reason}
		}
		suite.TestCases = append(suite.TestCases, tc)
	}
	if r.Status == StatusFailed && suite.Failures == 0 {
		suite.Errors++
		suite.TestCases = append(suite.TestCases, JUnitTestCase{
			Classname: r.Scenario,
			Name:      "setup",
			Failure:   &JUnitFailure{Message: "scenario error", Type: "error", Content: errString(r.Err)},
		})
		suite.Tests++
	}
	return suite
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return strings.TrimSpace(err.Error())
}

// WriteJUnit writes the reports as the junit xml document
func WriteJUnit(w io.Writer, started time.Time, reports []*Report) error {
	writer := bufio.NewWriter(w)

	fmt.Fprintf(writer, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	fmt.Fprintf(writer, "<testsuites>\n")
	for _, r := range reports {
		suiteXML, err := xml.MarshalIndent(r.JUnitSuite(started), "  ", "    ")
		if err != nil {
			return err
		}
		writer.Write(suiteXML)
		fmt.Fprintf(writer, "\n")
	}
	fmt.Fprintf(writer, "</testsuites>\n")

	return writer.Flush()
}

// WriteJUnitFile writes the junit report into the file
func WriteJUnitFile(path string, started time.Time, reports []*Report) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("scenario: unable to create junit report: %w", err)
	}
	defer file.Close()
	return WriteJUnit(file, started, reports)
}

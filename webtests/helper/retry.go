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

package helper

import (
	"fmt"
	"runtime"
	"slices"
	"strings"
	"time"
)

// Default wait for the page to reach the expected state
var (
	EventuallyTimeout = 4 * time.Second
	EventuallyWait    = 100 * time.Millisecond
)

// Failer is an interface compatible with testing.T.
type Failer interface {
	Helper()

	// Log is called for the final test output
	Log(args ...any)

	// FailNow is called when the retrying is abandoned.
	FailNow()
}

// R is passed to the retried function to report the attempt failure
type R struct {
	fail   bool
	output []string
}

// Helper shows this struct as helper
func (*R) Helper() {}

var attemptFailed = struct{}{}

// FailNow stops the attempt, it will be retried until the retryer gives up
func (r *R) FailNow() {
	r.fail = true
	panic(attemptFailed)
}

// Fatalf logs and stops the attempt
func (r *R) Fatalf(format string, args ...any) {
	r.log(fmt.Sprintf(format, args...))
	r.FailNow()
}

// Errorf logs and marks the attempt failed
func (r *R) Errorf(format string, args ...any) {
	r.log(fmt.Sprintf(format, args...))
	r.fail = true
}

// Check stops the attempt on error
func (r *R) Check(err error) {
	if err != nil {
		r.log(err.Error())
		r.FailNow()
	}
}

func (r *R) log(s string) {
	_, file, line, ok := runtime.Caller(2)
	if ok {
		file = file[strings.LastIndex(file, "/")+1:]
	} else {
		file, line = "???", 1
	}
	r.output = append(r.output, fmt.Sprintf("%s:%d: %s", file, line, s))
}

// Retryer decides whether the failed attempt should be repeated
type Retryer interface {
	Continue() bool
}

// Timer repeats the attempts for a given amount of time and waits between them
type Timer struct {
	Timeout time.Duration
	Wait    time.Duration

	// Deadline, set on the first call
	stop time.Time
}

// Continue the timer
func (t *Timer) Continue() bool {
	if t.stop.IsZero() {
		t.stop = time.Now().Add(t.Timeout)
		return true
	}
	if time.Now().After(t.stop) {
		return false
	}
	time.Sleep(t.Wait)
	return true
}

// Retry runs the function until it passes or the retryer gives up, then the test fails with the
// output of the attempts
func Retry(r Retryer, t Failer, f func(r *R)) {
	t.Helper()
	var output []string
	for r.Continue() {
		rr := &R{}
		func() {
			defer func() {
				if p := recover(); p != nil && p != attemptFailed {
					panic(p)
				}
			}()
			f(rr)
		}()
		if !rr.fail {
			return
		}
		for _, line := range rr.output {
			if !slices.Contains(output, line) {
				output = append(output, line)
			}
		}
	}
	if len(output) > 0 {
		t.Log(strings.Join(output, "\n"))
	}
	t.FailNow()
}

// Eventually retries the function with the default timer, the page state like the text updated
// by the click handler could be applied with delay
func Eventually(t Failer, f func(r *R)) {
	t.Helper()
	Retry(&Timer{Timeout: EventuallyTimeout, Wait: EventuallyWait}, t, f)
}

// Equal checks the result of the driver getter
func Equal[T comparable](r *R, what string, got T, err error, want T) {
	r.Helper()
	r.Check(err)
	if got != want {
		r.Fatalf("%s = %v; want: %v", what, got, want)
	}
}

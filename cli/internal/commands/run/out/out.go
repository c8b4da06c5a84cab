/*
Copyright 2021 GramLabs, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package out

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"github.com/tarslab/tarsctl/internal/experiment"
)

type Style int

const (
	Starting Style = iota
	Running
	Completed
	Failure
	Instructions
	Result
)

var instructionsStyle = termenv.Style{}.Foreground(termenv.ColorProfile().Color("241"))

type statusOptions struct {
	Prefix string
	termenv.Style
}

var statusConfig = map[Style]statusOptions{
	Starting:     {Prefix: "🚢  "},
	Running:      {Prefix: ">> "},
	Completed:    {Prefix: "<< "},
	Failure:      {Prefix: "❌  ", Style: termenv.Style{}.Foreground(termenv.ColorProfile().Color("1"))},
	Instructions: {Style: instructionsStyle},
	Result:       {Prefix: "🍾  ", Style: termenv.Style{}.Bold()},
}

// View is used to render a view line by line.
type View struct {
	lines []string
}

// Newline adds an empty line to this view.
func (v *View) Newline() {
	v.lines = append(v.lines, "\n")
}

// Step adds a stylized line to the view.
func (v *View) Step(style Style, format string, args ...interface{}) {
	s := statusConfig[style]
	v.lines = append(v.lines, s.Prefix+s.Styled(fmt.Sprintf(format, args...)), "\n")
}

// Write allows this view to be used as a writer.
func (v *View) Write(p []byte) (int, error) {
	v.lines = append(v.lines, string(p))
	return len(p), nil
}

// String returns the rendered view.
func (v *View) String() string {
	return strings.Join(v.lines, "")
}

// Progress renders driver events as they arrive.
type Progress struct {
	Out io.Writer
}

// Observe writes a single line for the event.
func (p *Progress) Observe(e experiment.Event) {
	var v View
	switch {
	case !e.Done:
		v.Step(Running, "%s", e.Message)
	case e.Err != nil:
		v.Step(Failure, "%s failed: %s", e.Phase, e.Err.Error())
	case e.Message != "":
		v.Step(Completed, "%s", e.Message)
		v.Step(Instructions, "   %s", e.Elapsed.Round(time.Millisecond))
	default:
		return
	}
	_, _ = io.WriteString(p.Out, v.String())
}

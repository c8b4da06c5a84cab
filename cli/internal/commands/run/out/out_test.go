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
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tarslab/tarsctl/internal/experiment"
)

func TestProgress_Observe(t *testing.T) {
	cases := []struct {
		desc     string
		event    experiment.Event
		contains string
	}{
		{
			desc:     "Started",
			event:    experiment.Event{Phase: experiment.PhaseLoad, Message: "Loading dataset"},
			contains: ">> Loading dataset",
		},
		{
			desc:     "Finished",
			event:    experiment.Event{Phase: experiment.PhaseLoad, Done: true, Elapsed: 1500 * time.Millisecond, Message: "Loaded dataset"},
			contains: "<< Loaded dataset",
		},
		{
			desc:     "Failed",
			event:    experiment.Event{Phase: experiment.PhaseRun, Done: true, Err: errors.New("exit status 1")},
			contains: "run failed: exit status 1",
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			var buf bytes.Buffer
			p := &Progress{Out: &buf}
			p.Observe(c.event)
			assert.Contains(t, buf.String(), c.contains)
		})
	}
}

func TestProgress_SilentCompletion(t *testing.T) {
	var buf bytes.Buffer
	p := &Progress{Out: &buf}
	p.Observe(experiment.Event{Phase: experiment.PhaseSave, Done: true})
	assert.Empty(t, buf.String())
}

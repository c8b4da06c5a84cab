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

package experiment

import "time"

// Phase is a step of a driver invocation.
type Phase string

const (
	PhaseLoad     Phase = "load"
	PhaseSplit    Phase = "split"
	PhaseRegister Phase = "register"
	PhaseBuild    Phase = "build"
	PhaseRun      Phase = "run"
	PhaseSave     Phase = "save"
	PhaseTime     Phase = "time"
)

// Event reports the start or completion of a phase.
type Event struct {
	Phase   Phase
	Done    bool
	Elapsed time.Duration
	Message string
	Err     error
}

// Observer receives driver events.
type Observer interface {
	Observe(e Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }

// Observers returns an observer that forwards events to each of the non-nil observers.
func Observers(obs ...Observer) Observer {
	return ObserverFunc(func(e Event) {
		for _, o := range obs {
			if o != nil {
				o.Observe(e)
			}
		}
	})
}

// phase reports a phase start and returns a function reporting its completion.
func (d *Driver) phase(p Phase, msg string) func(string, error) {
	start := time.Now()
	d.observe(Event{Phase: p, Message: msg})
	return func(done string, err error) {
		d.observe(Event{Phase: p, Done: true, Elapsed: time.Since(start), Message: done, Err: err})
	}
}

func (d *Driver) observe(e Event) {
	if d.Observer != nil {
		d.Observer.Observe(e)
	}
}

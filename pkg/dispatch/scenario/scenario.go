/*
Copyright 2025 The Kubernetes Authors.

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

// Package scenario drives a dispatcher through a scripted sequence of steps and reports every result to a renderer.
//
// A `Scenario` is usually loaded from a YAML document:
//
//	name: emergency-room
//	steps:
//	  - op: admit
//	    label: Sita Sharma (Critical Injury)
//	    priority: 1
//	  - op: peek
//	  - op: serve
//	  - op: note
//	    note: A new, very critical patient arrives
//	  - op: log
package scenario

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"sigs.k8s.io/yaml"

	"github.com/812-pratha/Emergency-Room-Triage-System/pkg/dispatch/types"
)

// Op names the action performed by a single `Step`.
type Op string

const (
	// OpAdmit admits `Step.Label` with `Step.Priority`.
	OpAdmit Op = "admit"
	// OpServe serves the next waiting entity.
	OpServe Op = "serve"
	// OpPeek reports the waiting count and the entity that would be served next.
	OpPeek Op = "peek"
	// OpLog reports the served log.
	OpLog Op = "log"
	// OpNote reports `Step.Note` verbatim.
	OpNote Op = "note"
)

var knownOps = map[Op]struct{}{OpAdmit: {}, OpServe: {}, OpPeek: {}, OpLog: {}, OpNote: {}}

// Step is a single action of a `Scenario`.
type Step struct {
	Op       Op     `json:"op"`
	Label    string `json:"label,omitempty"`
	Priority int    `json:"priority,omitempty"`
	Note     string `json:"note,omitempty"`
}

// Scenario is a named, ordered list of steps.
type Scenario struct {
	Name  string `json:"name,omitempty"`
	Steps []Step `json:"steps"`
}

// Dispatcher is the set of operations a scenario exercises. `registry.Registry` satisfies it.
type Dispatcher interface {
	Admit(label string, priority int) (uint64, error)
	ServeNext() (*types.Entity, error)
	PeekWaiting() (int, *types.Entity, error)
	LogSnapshot() ([]types.Entity, error)
}

// Renderer receives the result of every step, in order.
type Renderer interface {
	Started(name string)
	// Admitted reports an admission attempt. err is non-nil when the admission was rejected.
	Admitted(id uint64, label string, priority int, err error)
	// Served reports a serve step. entity is nil when nothing was waiting.
	Served(entity *types.Entity)
	Waiting(count int, next *types.Entity)
	ServedLog(entries []types.Entity)
	Note(text string)
	Finished(name string)
}

// Load parses a YAML (or JSON) scenario document and validates it. Unknown fields are rejected.
func Load(data []byte) (*Scenario, error) {
	s := &Scenario{}
	if err := yaml.UnmarshalStrict(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %q: %w", s.Name, err)
	}
	return s, nil
}

// Validate reports every problem in the scenario at once.
func (s *Scenario) Validate() error {
	if len(s.Steps) == 0 {
		return errors.New("scenario has no steps")
	}
	var err error
	for i, step := range s.Steps {
		if _, ok := knownOps[step.Op]; !ok {
			err = multierr.Append(err, fmt.Errorf("step %d: unknown op %q", i, step.Op))
			continue
		}
		if step.Op == OpAdmit && step.Label == "" {
			err = multierr.Append(err, fmt.Errorf("step %d: admit requires a label", i))
		}
	}
	return err
}

// Run executes every step of s against d, reporting results to r.
//
// Rejected admissions are reported and do not stop the run. Any other error, such as operating on a disposed
// dispatcher, aborts the run and is returned together with the index of the failing step.
func Run(d Dispatcher, s *Scenario, r Renderer) error {
	r.Started(s.Name)
	for i, step := range s.Steps {
		if err := runStep(d, step, r); err != nil {
			return fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		}
	}
	r.Finished(s.Name)
	return nil
}

func runStep(d Dispatcher, step Step, r Renderer) error {
	switch step.Op {
	case OpAdmit:
		id, err := d.Admit(step.Label, step.Priority)
		if err != nil && !errors.Is(err, types.ErrRejected) {
			return err
		}
		r.Admitted(id, step.Label, step.Priority, err)
	case OpServe:
		entity, err := d.ServeNext()
		if err != nil {
			return err
		}
		r.Served(entity)
	case OpPeek:
		count, next, err := d.PeekWaiting()
		if err != nil {
			return err
		}
		r.Waiting(count, next)
	case OpLog:
		entries, err := d.LogSnapshot()
		if err != nil {
			return err
		}
		r.ServedLog(entries)
	case OpNote:
		r.Note(step.Note)
	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
	return nil
}

// Default returns the emergency-room scenario: four patients arrive out of priority order, two are treated, a new
// critical patient arrives and overtakes those still waiting, everyone is treated, and the treatment log is shown.
func Default() *Scenario {
	return &Scenario{
		Name: "emergency-room",
		Steps: []Step{
			{Op: OpAdmit, Label: "Ravi Kumar (Stable Condition)", Priority: 3},
			{Op: OpAdmit, Label: "Sita Sharma (Critical Injury)", Priority: 1},
			{Op: OpAdmit, Label: "Amit Patel (Urgent Care)", Priority: 2},
			{Op: OpAdmit, Label: "Priya Singh (Minor Issue)", Priority: 4},
			{Op: OpPeek},
			{Op: OpServe},
			{Op: OpServe},
			{Op: OpPeek},
			{Op: OpNote, Note: "A new, very critical patient arrives"},
			{Op: OpAdmit, Label: "John Doe (Head Trauma)", Priority: 1},
			{Op: OpPeek},
			{Op: OpServe},
			{Op: OpServe},
			{Op: OpServe},
			{Op: OpServe},
			{Op: OpLog},
		},
	}
}

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

package runner

import (
	"fmt"
	"io"

	"github.com/812-pratha/Emergency-Room-Triage-System/pkg/dispatch/scenario"
	"github.com/812-pratha/Emergency-Room-Triage-System/pkg/dispatch/types"
)

// textRenderer prints scenario events as console text. The first write error is kept and every later write is
// skipped.
type textRenderer struct {
	w   io.Writer
	err error
}

var _ scenario.Renderer = &textRenderer{}

func newTextRenderer(w io.Writer) *textRenderer {
	return &textRenderer{w: w}
}

func (r *textRenderer) printf(format string, args ...any) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

func (r *textRenderer) Started(name string) {
	r.printf("--- Simulation %q Started ---\n\n", name)
}

func (r *textRenderer) Admitted(id uint64, label string, priority int, err error) {
	if err != nil {
		r.printf("REJECTED: '%s' (ID: %d) was not added to the waiting list: %v\n", label, id, err)
		return
	}
	r.printf("NEW ENTITY: '%s' added to waiting list with priority %d.\n", label, priority)
}

func (r *textRenderer) Served(entity *types.Entity) {
	if entity == nil {
		r.printf("SYSTEM: No entities in the waiting list to serve.\n")
		return
	}
	r.printf("\nSERVING NEXT:\n  %s\n", entity)
}

func (r *textRenderer) Waiting(count int, next *types.Entity) {
	r.printf("\n--- Current Waiting List ---\n")
	if next == nil {
		r.printf("  (The waiting list is empty)\n")
	} else {
		r.printf("  Total waiting: %d\n", count)
		r.printf("  Next to be served: %s\n", next)
	}
	r.printf("----------------------------\n")
}

func (r *textRenderer) ServedLog(entries []types.Entity) {
	r.printf("\n--- Log of Served Entities ---\n")
	if len(entries) == 0 {
		r.printf("  (Nothing has been served yet)\n")
	}
	for _, e := range entries {
		r.printf("  %s\n", e)
	}
	r.printf("------------------------------\n")
}

func (r *textRenderer) Note(text string) {
	r.printf("\n--- %s ---\n", text)
}

func (r *textRenderer) Finished(name string) {
	r.printf("\n--- Simulation %q Finished ---\n", name)
}

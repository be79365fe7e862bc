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

package types

import "strconv"

// AdmitOutcome represents the final state of a single `Registry.Admit()` call.
// It is a low-cardinality value suited for metric labels; the accompanying error carries the details.
type AdmitOutcome int

const (
	// AdmitOutcomeAdmitted indicates the entity was placed in the waiting queue.
	AdmitOutcomeAdmitted AdmitOutcome = iota

	// AdmitOutcomeRejectedCapacity indicates the waiting queue was full.
	// The associated error wraps `framework.ErrCapacityExceeded` (and `ErrRejected`).
	AdmitOutcomeRejectedCapacity

	// AdmitOutcomeRejectedLabel indicates the label was longer than allowed.
	// The associated error wraps `ErrLabelTooLong` (and `ErrRejected`).
	AdmitOutcomeRejectedLabel

	// AdmitOutcomeRejectedOther indicates a rejection for any other reason.
	AdmitOutcomeRejectedOther
)

// String returns a human-readable string representation of the AdmitOutcome.
func (o AdmitOutcome) String() string {
	switch o {
	case AdmitOutcomeAdmitted:
		return "Admitted"
	case AdmitOutcomeRejectedCapacity:
		return "RejectedCapacity"
	case AdmitOutcomeRejectedLabel:
		return "RejectedLabel"
	case AdmitOutcomeRejectedOther:
		return "RejectedOther"
	default:
		return "UnknownOutcome(" + strconv.Itoa(int(o)) + ")"
	}
}

// ServeOutcome represents the final state of a single `Registry.ServeNext()` call.
type ServeOutcome int

const (
	// ServeOutcomeServed indicates an entity left the waiting queue and was recorded in the served log.
	ServeOutcomeServed ServeOutcome = iota

	// ServeOutcomeServedUnlogged indicates an entity left the waiting queue but the served log was full, so it was not
	// recorded. Service is not rolled back.
	ServeOutcomeServedUnlogged

	// ServeOutcomeIdle indicates there was nothing waiting to be served.
	ServeOutcomeIdle
)

// String returns a human-readable string representation of the ServeOutcome.
func (o ServeOutcome) String() string {
	switch o {
	case ServeOutcomeServed:
		return "Served"
	case ServeOutcomeServedUnlogged:
		return "ServedUnlogged"
	case ServeOutcomeIdle:
		return "Idle"
	default:
		return "UnknownOutcome(" + strconv.Itoa(int(o)) + ")"
	}
}

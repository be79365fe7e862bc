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

package registry

import (
	"fmt"

	"sigs.k8s.io/yaml"

	"github.com/812-pratha/Emergency-Room-Triage-System/pkg/dispatch/framework/plugins/queue"
)

// configFile is the on-disk representation of a `Config`. Pointer fields distinguish "unset" (system default) from an
// explicit zero value, which is rejected by validation.
type configFile struct {
	Name            *string `json:"name,omitempty"`
	InitialCapacity *int    `json:"initialCapacity,omitempty"`
	LogCapacity     *int    `json:"logCapacity,omitempty"`
	Queue           *string `json:"queue,omitempty"`
	MaxLabelLength  *int    `json:"maxLabelLength,omitempty"`
}

// LoadConfig parses a YAML (or JSON) registry configuration document and builds a validated `Config` from it.
// Unknown fields are rejected. Options are applied after the document, so they override values it sets.
func LoadConfig(data []byte, opts ...ConfigOption) (*Config, error) {
	var file configFile
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse registry config: %w", err)
	}

	var fileOpts []ConfigOption
	if file.Name != nil {
		fileOpts = append(fileOpts, WithName(*file.Name))
	}
	if file.InitialCapacity != nil {
		fileOpts = append(fileOpts, WithInitialCapacity(*file.InitialCapacity))
	}
	if file.LogCapacity != nil {
		fileOpts = append(fileOpts, WithLogCapacity(*file.LogCapacity))
	}
	if file.Queue != nil {
		fileOpts = append(fileOpts, WithQueue(queue.RegisteredQueueName(*file.Queue)))
	}
	if file.MaxLabelLength != nil {
		fileOpts = append(fileOpts, WithMaxLabelLength(*file.MaxLabelLength))
	}
	return NewConfig(append(fileOpts, opts...)...)
}

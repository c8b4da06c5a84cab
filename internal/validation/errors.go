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

package validation

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrUnknownExperiment   ErrorType = "unknown-experiment"
	ErrUnknownDataset      ErrorType = "unknown-dataset"
	ErrUnsupportedScenario ErrorType = "unsupported-scenario"
	ErrInvalidCatalog      ErrorType = "invalid-catalog"
	ErrInvalidRequest      ErrorType = "invalid-request"
)

// ConfigurationError is reported for problems in the experiment configuration that
// can be detected before any dataset is loaded or any algorithm is trained.
type ConfigurationError struct {
	Type    ErrorType
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Type)
}

// NewError returns a new configuration error of the specified type.
func NewError(t ErrorType, format string, args ...interface{}) error {
	return &ConfigurationError{Type: t, Message: fmt.Sprintf(format, args...)}
}

// IsConfigurationError checks to see if the error is (or wraps) a configuration error.
func IsConfigurationError(err error) bool {
	var cerr *ConfigurationError
	return errors.As(err, &cerr)
}

// IsType checks to see if the error is a configuration error of the specified type.
func IsType(err error, t ErrorType) bool {
	var cerr *ConfigurationError
	if errors.As(err, &cerr) {
		return cerr.Type == t
	}
	return false
}

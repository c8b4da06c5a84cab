/*
Copyright 2020 GramLabs, Inc.

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

package config

import (
	"os"
	"path/filepath"

	"sigs.k8s.io/yaml"
)

const (
	// https://specifications.freedesktop.org/basedir-spec/basedir-spec-latest.html

	homeEnv              = "HOME"
	xdgConfigHomeEnv     = "XDG_CONFIG_HOME"
	xdgConfigHomeDefault = ".config"
	xdgConfigDirsEnv     = "XDG_CONFIG_DIRS"
	xdgConfigDirsDefault = "/etc/xdg"
	xdgDataHomeEnv       = "XDG_DATA_HOME"
	xdgDataHomeDefault   = ".local/share"
	configFilename       = "tars/config"
	ledgerFilename       = "tars/ledger.db"
)

// fileLoader loads a configuration from the currently configured filename
func fileLoader(cfg *TarsConfig) error {
	f := &file{}

	// If we are using a configuration file, the filename _must_ be set
	filename := cfg.Filename
	if filename == "" {
		filename, cfg.Filename = f.filename()
	}

	if err := f.read(filename); err != nil {
		return err
	}

	cfg.Merge(&f.data)

	return nil
}

// file represents the data of a configuration file
type file struct {
	data Config
}

// read will decode YAML or JSON data from the specified file into this configuration file
func (l *file) read(filename string) error {
	b, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	return yaml.Unmarshal(b, &l.data)
}

// write will encode YAML data from this configuration into the specified file name
func (l *file) write(filename string) error {
	output, err := yaml.Marshal(l.data)
	if err != nil {
		return err
	}

	// The XDG Base Dir Spec says directories should be created with 0700
	if err := os.MkdirAll(filepath.Dir(filename), 0700); err != nil {
		return err
	}
	return os.WriteFile(filename, output, 0600)
}

// filename finds the configuration file and returns both the current file and where changes should be written
func (l *file) filename() (string, string) {
	xdgConfigHome := os.Getenv(xdgConfigHomeEnv)
	if xdgConfigHome == "" {
		xdgConfigHome = filepath.Join(home(), xdgConfigHomeDefault)
	}

	xdgConfigDirs := os.Getenv(xdgConfigDirsEnv)
	if xdgConfigDirs == "" {
		xdgConfigDirs = xdgConfigDirsDefault
	}

	userConfigFilename := filepath.Join(xdgConfigHome, configFilename)
	currentConfigFilename := userConfigFilename
	for _, dir := range append([]string{xdgConfigHome}, filepath.SplitList(xdgConfigDirs)...) {
		filename := filepath.Join(dir, configFilename)
		if _, err := os.Stat(filename); err == nil {
			currentConfigFilename = filename
			break
		}
	}

	return currentConfigFilename, userConfigFilename
}

// dataHome returns the XDG data directory
func dataHome() string {
	if dir := os.Getenv(xdgDataHomeEnv); dir != "" {
		return dir
	}
	return filepath.Join(home(), xdgDataHomeDefault)
}

func home() string {
	if h := os.Getenv(homeEnv); h != "" {
		return h
	}
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return "~"
}

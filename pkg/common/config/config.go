// --------------------------------------------------------------------------------
// Author: Thomas F McGeehan V
//
// This file is part of a software project developed by Thomas F McGeehan V.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//
// For more information about the MIT License, please visit:
// https://opensource.org/licenses/MIT
//
// Acknowledgment appreciated but not required.
// --------------------------------------------------------------------------------

// Package config loads declarative transfer job files.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// JobFile is the top-level YAML document: a named batch of transfer jobs
// plus shared settings.
type JobFile struct {
	Version  string   `yaml:"version"`
	Name     string   `yaml:"name"`
	Settings Settings `yaml:"settings"`
	Jobs     []Job    `yaml:"jobs"`
}

// Settings apply to every job in the file unless a job overrides them.
type Settings struct {
	ParallelJobs int    `yaml:"parallel_jobs"`
	LogLevel     string `yaml:"log_level"`
}

// Job describes a single query-to-Parquet transfer. DSNs may reference
// environment variables (e.g. "${PG_DSN}"); they are expanded at load
// time so credentials stay out of the file.
type Job struct {
	Name         string `yaml:"name"`
	Driver       string `yaml:"driver"`
	DSN          string `yaml:"dsn"`
	Query        string `yaml:"query"`
	Output       string `yaml:"output"`
	BatchSize    int    `yaml:"batch_size,omitempty"`
	RowGroupSize int    `yaml:"row_group_size,omitempty"`
	OnTruncation string `yaml:"on_truncation,omitempty"`
	MaxTextWidth int    `yaml:"max_text_width,omitempty"`
	Compression  string `yaml:"compression,omitempty"`
}

// Load parses and validates a job file.
func Load(path string) (*JobFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var jf JobFile
	if err := yaml.NewDecoder(f).Decode(&jf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if jf.Settings.ParallelJobs < 1 {
		jf.Settings.ParallelJobs = 1
	}
	for i := range jf.Jobs {
		jf.Jobs[i].DSN = os.ExpandEnv(jf.Jobs[i].DSN)
	}

	if err := jf.Validate(); err != nil {
		return nil, err
	}
	return &jf, nil
}

// Validate checks every job for the fields a transfer cannot run without.
func (jf *JobFile) Validate() error {
	if len(jf.Jobs) == 0 {
		return fmt.Errorf("job file declares no jobs")
	}
	seen := make(map[string]bool, len(jf.Jobs))
	for i, j := range jf.Jobs {
		name := j.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		if seen[j.Name] && j.Name != "" {
			return fmt.Errorf("job %q is declared twice", j.Name)
		}
		seen[j.Name] = true

		if j.Driver == "" {
			return fmt.Errorf("job %s: driver cannot be empty", name)
		}
		if j.DSN == "" {
			return fmt.Errorf("job %s: dsn cannot be empty", name)
		}
		if j.Query == "" {
			return fmt.Errorf("job %s: query cannot be empty", name)
		}
		if j.Output == "" {
			return fmt.Errorf("job %s: output cannot be empty", name)
		}
		switch j.OnTruncation {
		case "", "fail", "widen_and_retry":
		default:
			return fmt.Errorf("job %s: on_truncation must be \"fail\" or \"widen_and_retry\", got %q", name, j.OnTruncation)
		}
		if j.BatchSize < 0 || j.RowGroupSize < 0 || j.MaxTextWidth < 0 {
			return fmt.Errorf("job %s: sizes must not be negative", name)
		}
	}
	return nil
}

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

package main

import (
	"fmt"
	"log"

	"github.com/docopt/docopt-go"

	"github.com/sqlarc/sqlarc/internal/ui"
	"github.com/sqlarc/sqlarc/pkg/common/config"
)

func main() {
	usage := `sqlarc job file validator.

Usage:
  validate_config --jobs=<file>
  validate_config -h | --help

Options:
  -h --help        Show this screen.
  --jobs=<file>    Path to the YAML job file to validate.
`

	arguments, err := docopt.ParseDoc(usage)
	if err != nil {
		log.Fatalf("Error parsing arguments: %v", err)
	}

	jobsPath, _ := arguments.String("--jobs")

	jf, err := config.Load(jobsPath)
	if err != nil {
		fmt.Println(ui.ErrorStyle.Render(fmt.Sprintf("Invalid: %v", err)))
		log.Fatalf("Job file validation failed: %v", err)
	}

	fmt.Println(ui.TitleStyle.Render("Job file is valid"))
	fmt.Println(ui.SummaryStyle.Render(fmt.Sprintf("name=%s jobs=%d parallel=%d",
		jf.Name, len(jf.Jobs), jf.Settings.ParallelJobs)))
}

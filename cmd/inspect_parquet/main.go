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

// inspect_parquet prints the schema and row-group layout of a Parquet
// file. It deliberately uses a different Parquet implementation than the
// writer, so it doubles as an independent check on exported files.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/docopt/docopt-go"
	"github.com/parquet-go/parquet-go"

	"github.com/sqlarc/sqlarc/internal/ui"
)

const usage = `Parquet file inspector.

Usage:
  inspect_parquet --file=<parquet_file> [--schema]
  inspect_parquet -h | --help

Options:
  -h --help               Show this screen.
  --file=<parquet_file>   Path to the Parquet file.
  --schema                Print the full schema as well.
`

func main() {
	args, err := docopt.ParseDoc(usage)
	if err != nil {
		log.Fatalf("Error parsing arguments: %v", err)
	}

	path, _ := args.String("--file")
	showSchema, _ := args.Bool("--schema")

	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("Error opening file: %v", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		log.Fatalf("Error stating file: %v", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		log.Fatalf("Error reading Parquet footer: %v", err)
	}

	fmt.Println(ui.TitleStyle.Render("Parquet: " + path))
	fmt.Printf("created_by: %s\n", pf.Metadata().CreatedBy)
	fmt.Printf("rows:       %d\n", pf.NumRows())
	fmt.Printf("size:       %d bytes\n", pf.Size())
	fmt.Printf("row groups: %d\n", len(pf.RowGroups()))
	for i, rg := range pf.RowGroups() {
		fmt.Printf("  group %d: %d rows, %d columns\n", i, rg.NumRows(), len(rg.ColumnChunks()))
	}

	if showSchema {
		fmt.Println(ui.DocStyle.Render(pf.Schema().String()))
	}
}

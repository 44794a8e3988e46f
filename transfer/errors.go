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

package transfer

import "fmt"

// Stage names the orchestrator state a failure originated from. The state
// machine runs Connecting → Describing → Mapping → Allocating →
// (Fetching ⇄ Converting ⇄ Writing) → Finalizing → Done; every stage can
// move to Failed.
type Stage string

const (
	StageConnecting Stage = "connecting"
	StageDescribing Stage = "describing"
	StageMapping    Stage = "mapping"
	StageAllocating Stage = "allocating"
	StageFetching   Stage = "fetching"
	StageConverting Stage = "converting"
	StageWriting    Stage = "writing"
	StageFinalizing Stage = "finalizing"
)

// StageError is the terminal failure of a transfer, carrying the
// originating stage and cause. A partially written output file is left in
// place but is not promised to be valid or readable.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("transfer failed while %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func fail(stage Stage, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}

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

package convert

import (
	"fmt"
	"time"
)

// dateTime builds the UTC midnight instant for a civil date.
func dateTime(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// parseTimeOfDay decodes the driver's HH:MM:SS[.FFF...] text transport
// into nanoseconds since midnight. Fractional digits beyond nanosecond
// precision are dropped.
func parseTimeOfDay(b []byte) (int64, error) {
	if len(b) < 8 || b[2] != ':' || b[5] != ':' {
		return 0, fmt.Errorf("time text %q is not HH:MM:SS", b)
	}
	hour, err := twoDigits(b[0:2])
	if err != nil {
		return 0, fmt.Errorf("time text %q: %w", b, err)
	}
	min, err := twoDigits(b[3:5])
	if err != nil {
		return 0, fmt.Errorf("time text %q: %w", b, err)
	}
	sec, err := twoDigits(b[6:8])
	if err != nil {
		return 0, fmt.Errorf("time text %q: %w", b, err)
	}

	var nanos int64
	if len(b) > 8 {
		if b[8] != '.' || len(b) == 9 {
			return 0, fmt.Errorf("time text %q has a malformed fractional part", b)
		}
		frac := int64(0)
		digits := 0
		for _, c := range b[9:] {
			if c < '0' || c > '9' {
				return 0, fmt.Errorf("time text %q has a malformed fractional part", b)
			}
			if digits < 9 {
				frac = frac*10 + int64(c-'0')
				digits++
			}
		}
		for ; digits < 9; digits++ {
			frac *= 10
		}
		nanos = frac
	}

	return (int64(hour)*3600+int64(min)*60+int64(sec))*1_000_000_000 + nanos, nil
}

func twoDigits(b []byte) (int, error) {
	if b[0] < '0' || b[0] > '9' || b[1] < '0' || b[1] > '9' {
		return 0, fmt.Errorf("expected two digits, got %q", b)
	}
	return int(b[0]-'0')*10 + int(b[1]-'0'), nil
}

// floorDiv divides rounding toward negative infinity, so pre-epoch dates
// and timestamps land in the correct bucket.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

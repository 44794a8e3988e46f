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

package source

import (
	"encoding/binary"
	"math"
	"time"
)

// NullIndicator marks a row as NULL in an indicator array. Non-negative
// indicator values carry the full byte length of the value; for a
// variable-width column a length greater than the bound stride means the
// driver truncated the value to fit the buffer.
const NullIndicator = -1

// Binding is a borrowed, fixed-stride view over one column's batch buffer
// plus its parallel indicator array. The buffer pool owns the memory; the
// driver writes into it during Fetch, the converter reads from it
// afterwards. A Binding must not be retained past the next fetch call.
type Binding struct {
	Data   []byte
	Stride int
	Ind    []int64
}

// Capacity is the number of rows the binding can hold.
func (b Binding) Capacity() int { return len(b.Ind) }

func (b Binding) slot(row int) []byte {
	off := row * b.Stride
	return b.Data[off : off+b.Stride]
}

// SetNull marks the row NULL. The buffer slot is left as-is; its content
// is undefined for null rows and must not be read.
func (b Binding) SetNull(row int) { b.Ind[row] = NullIndicator }

// PutInt stores a signed integer at the binding's stride (1, 2, 4 or 8
// bytes, little endian).
func (b Binding) PutInt(row int, v int64) {
	s := b.slot(row)
	switch b.Stride {
	case 1:
		s[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(s, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(s, uint32(v))
	default:
		binary.LittleEndian.PutUint64(s, uint64(v))
	}
	b.Ind[row] = int64(b.Stride)
}

// PutFloat stores a float at the binding's stride (4 or 8 bytes).
func (b Binding) PutFloat(row int, v float64) {
	s := b.slot(row)
	if b.Stride == 4 {
		binary.LittleEndian.PutUint32(s, math.Float32bits(float32(v)))
	} else {
		binary.LittleEndian.PutUint64(s, math.Float64bits(v))
	}
	b.Ind[row] = int64(b.Stride)
}

// PutBool stores a single-byte boolean.
func (b Binding) PutBool(row int, v bool) {
	s := b.slot(row)
	if v {
		s[0] = 1
	} else {
		s[0] = 0
	}
	b.Ind[row] = 1
}

// PutBytes copies p into the slot, truncating to the stride if necessary.
// The indicator always carries the full length, so the reader can detect
// truncation by comparing it against the stride.
func (b Binding) PutBytes(row int, p []byte) {
	s := b.slot(row)
	copy(s, p)
	b.Ind[row] = int64(len(p))
}

// PutString is PutBytes for string values.
func (b Binding) PutString(row int, v string) {
	s := b.slot(row)
	copy(s, v)
	b.Ind[row] = int64(len(v))
}

// PutDate packs a civil date into the 4-byte date slot layout
// (int16 year, uint8 month, uint8 day).
func (b Binding) PutDate(row int, year, month, day int) {
	s := b.slot(row)
	binary.LittleEndian.PutUint16(s, uint16(int16(year)))
	s[2] = byte(month)
	s[3] = byte(day)
	b.Ind[row] = int64(b.Stride)
}

// PutTimestamp packs t (interpreted in UTC) into the 12-byte timestamp
// slot layout (int16 year, uint8 month/day/hour/minute/second, pad,
// uint32 fraction in nanoseconds).
func (b Binding) PutTimestamp(row int, t time.Time) {
	t = t.UTC()
	s := b.slot(row)
	binary.LittleEndian.PutUint16(s, uint16(int16(t.Year())))
	s[2] = byte(t.Month())
	s[3] = byte(t.Day())
	s[4] = byte(t.Hour())
	s[5] = byte(t.Minute())
	s[6] = byte(t.Second())
	s[7] = 0
	binary.LittleEndian.PutUint32(s[8:], uint32(t.Nanosecond()))
	b.Ind[row] = int64(b.Stride)
}

// IsNull reports whether the row is marked NULL.
func (b Binding) IsNull(row int) bool { return b.Ind[row] < 0 }

// Length returns the indicator-reported full byte length of the value.
func (b Binding) Length(row int) int { return int(b.Ind[row]) }

// Truncated reports whether the driver could not fit the row's value into
// the bound stride.
func (b Binding) Truncated(row int) bool { return b.Ind[row] > int64(b.Stride) }

// Int reads a signed integer of the binding's stride, sign-extended to 64
// bits.
func (b Binding) Int(row int) int64 {
	s := b.slot(row)
	switch b.Stride {
	case 1:
		return int64(int8(s[0]))
	case 2:
		return int64(int16(binary.LittleEndian.Uint16(s)))
	case 4:
		return int64(int32(binary.LittleEndian.Uint32(s)))
	default:
		return int64(binary.LittleEndian.Uint64(s))
	}
}

// Float reads a float of the binding's stride, widened to float64.
func (b Binding) Float(row int) float64 {
	s := b.slot(row)
	if b.Stride == 4 {
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(s)))
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(s))
}

// Float32 reads a 4-byte float without widening.
func (b Binding) Float32(row int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b.slot(row)))
}

// Bool reads a single-byte boolean.
func (b Binding) Bool(row int) bool { return b.slot(row)[0] != 0 }

// Bytes returns the valid byte span of the row's value: buffer start
// through the indicator-reported length, clamped at the stride.
func (b Binding) Bytes(row int) []byte {
	n := int(b.Ind[row])
	if n > b.Stride {
		n = b.Stride
	}
	if n < 0 {
		n = 0
	}
	return b.slot(row)[:n]
}

// Date unpacks the 4-byte date slot.
func (b Binding) Date(row int) (year, month, day int) {
	s := b.slot(row)
	return int(int16(binary.LittleEndian.Uint16(s))), int(s[2]), int(s[3])
}

// Timestamp unpacks the 12-byte timestamp slot into a UTC time.Time.
func (b Binding) Timestamp(row int) time.Time {
	s := b.slot(row)
	year := int(int16(binary.LittleEndian.Uint16(s)))
	frac := binary.LittleEndian.Uint32(s[8:])
	return time.Date(year, time.Month(s[2]), int(s[3]),
		int(s[4]), int(s[5]), int(s[6]), int(frac), time.UTC)
}

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

package generator

import (
	"context"
	"database/sql"
	"math/rand"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestSeedSQLite(t *testing.T) {
	t.Parallel()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	defer db.Close()

	const n = 40
	require.NoError(t, SeedSQLite(context.Background(), db, "people", n, rand.New(rand.NewSource(7))))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM people").Scan(&count))
	assert.Equal(t, n, count)

	var nullNotes, nullRatings int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM people WHERE note IS NULL").Scan(&nullNotes))
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM people WHERE rating IS NULL").Scan(&nullRatings))
	assert.Equal(t, n/8, nullNotes, "one row in eight has a null note")
	assert.Equal(t, n/10, nullRatings, "one row in ten has a null rating")

	// Seeding again replaces the table rather than appending.
	require.NoError(t, SeedSQLite(context.Background(), db, "people", 5, rand.New(rand.NewSource(7))))
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM people").Scan(&count))
	assert.Equal(t, 5, count)
}

func TestPriceFormat(t *testing.T) {
	t.Parallel()
	re := regexp.MustCompile(`^\d+\.\d{2}$`)
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		p := Price(rng)
		assert.Regexp(t, re, p, "price must be a plain digit string at scale 2")
	}
}

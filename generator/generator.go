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

// Package generator seeds SQL tables with synthetic data spanning the
// whole type surface the transfer engine supports. It exists for demos
// and integration tests: seed a table, transfer it to Parquet, read the
// file back.
package generator

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/go-faker/faker/v4"
)

// SeedSchema is the DDL column list used by SeedSQLite. Declared type
// names are chosen so column metadata round-trips through database/sql.
const SeedSchema = `(
	id        INTEGER PRIMARY KEY,
	name      VARCHAR(24),
	email     TEXT,
	active    BOOLEAN NOT NULL,
	rating    SMALLINT,
	hits      BIGINT,
	weight    DOUBLE,
	price     DECIMAL(9,2),
	born      DATE,
	wake_up   TIME,
	created   TIMESTAMP,
	payload   BLOB,
	note      TEXT
)`

// SeedSQLite creates table (dropping any previous one) and fills it with
// n synthetic rows. Roughly one row in eight carries a NULL note and one
// in ten a NULL rating, so nullability paths get exercised too. The rand
// source makes runs reproducible.
func SeedSQLite(ctx context.Context, db *sql.DB, table string, n int, rng *rand.Rand) error {
	if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return fmt.Errorf("generator: drop table: %w", err)
	}
	if _, err := db.ExecContext(ctx, "CREATE TABLE "+table+" "+SeedSchema); err != nil {
		return fmt.Errorf("generator: create table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("generator: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO `+table+
		` (id, name, email, active, rating, hits, weight, price, born, wake_up, created, payload, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("generator: prepare: %w", err)
	}
	defer stmt.Close()

	epoch := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		var rating any = int64(rng.Intn(11) - 5)
		if i%10 == 9 {
			rating = nil
		}
		var note any = faker.Sentence()
		if i%8 == 7 {
			note = nil
		}

		born := epoch.AddDate(rng.Intn(55), rng.Intn(12), rng.Intn(28))
		created := epoch.Add(time.Duration(rng.Int63n(int64(50 * 365 * 24 * time.Hour))))
		payload := make([]byte, 4+rng.Intn(12))
		rng.Read(payload)

		_, err := stmt.ExecContext(ctx,
			int64(i+1),
			faker.Name(),
			faker.Email(),
			i%2 == 0,
			rating,
			rng.Int63n(1_000_000_000),
			rng.Float64()*500,
			Price(rng),
			born.Format("2006-01-02"),
			fmt.Sprintf("%02d:%02d:%02d", rng.Intn(24), rng.Intn(60), rng.Intn(60)),
			created.Format("2006-01-02 15:04:05.000000"),
			payload,
			note,
		)
		if err != nil {
			return fmt.Errorf("generator: insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("generator: commit: %w", err)
	}
	return nil
}

// Price renders a random DECIMAL(9,2) literal as the digit string the
// engine expects on the wire.
func Price(rng *rand.Rand) string {
	cents := rng.Int63n(10_000_000)
	return strconv.FormatInt(cents/100, 10) + "." + fmt.Sprintf("%02d", cents%100)
}

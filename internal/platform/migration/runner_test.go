// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestConvertToPgx5DSN rewrites the postgres schemes and leaves others alone.
*/
func TestConvertToPgx5DSN(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@db:5432/shelter":   "pgx5://u:p@db:5432/shelter",
		"postgresql://u:p@db:5432/shelter": "pgx5://u:p@db:5432/shelter",
		"pgx5://u:p@db:5432/shelter":       "pgx5://u:p@db:5432/shelter",
		"host=db user=u":                   "host=db user=u",
	}

	for in, want := range tests {
		assert.Equal(t, want, convertToPgx5DSN(in), in)
	}
}

/*
TestEmbeddedMigrations ships an up and down file for every version.
*/
func TestEmbeddedMigrations(t *testing.T) {
	ups, err := fs.Glob(migrationFiles, "sql/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(migrationFiles, "sql/*.down.sql")
	require.NoError(t, err)

	assert.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))
}

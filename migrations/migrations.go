package migrations

import "embed"

// FS holds the SQL migrations applied by golang-migrate through the iofs
// source driver.
//
//go:embed *.sql
var FS embed.FS

const Version = 2

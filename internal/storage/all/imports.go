// Package all wires the built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) runs the init functions of each backend, which register their
// factories and DDL bootstrappers with the storage package. After
//
//	import _ "datatrust/internal/storage/all"
//
// the kinds "postgres" and "sqlite" are available to storage.New and
// storage.Mirror, and the trust job stays backend-agnostic.
package all

import (
	_ "datatrust/internal/storage/postgres"
	_ "datatrust/internal/storage/sqlite"
)

// Package all wires every built-in storage backend into the storage factory.
//
// Importing it for side effects makes these storage kinds available:
//
//   - "postgres" (profileload/internal/storage/postgres)
//   - "sqlite"   (profileload/internal/storage/sqlite)
//   - "mysql"    (profileload/internal/storage/mysql)
//   - "mssql"    (profileload/internal/storage/mssql)
//
// Typical usage:
//
//	import _ "profileload/internal/storage/all"
//
//	repo, err := storage.New(ctx, storage.Config{Kind: cfg.Storage.Kind, ...})
//	if err != nil { ... }
//	defer repo.Close()
package all

import (
	_ "profileload/internal/storage/mssql"
	_ "profileload/internal/storage/mysql"
	_ "profileload/internal/storage/postgres"
	_ "profileload/internal/storage/sqlite"
)

// Package recipes содержит SQL-миграции хранилища рецептов для драйвера postgres.
package recipes

import "embed"

// FS - встроенные файлы миграций.
//
//go:embed *.sql
var FS embed.FS

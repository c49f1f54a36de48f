package assets

import (
	"embed"
)

//go:embed catalog.yaml
var FS embed.FS

// CatalogYAML returns the built-in level catalog.
func CatalogYAML() ([]byte, error) {
	return FS.ReadFile("catalog.yaml")
}

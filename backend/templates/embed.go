// Package templates holds the server-rendered HTML pages.
package templates

import "embed"

//go:embed layouts pages auth cooks dishes catalog partials
var FS embed.FS

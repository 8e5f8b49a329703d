// Package schemas holds the JSON Schema documents describing the artifacts produced by cv-templater.
package schemas

import "embed"

// ParsedCVFile is the file name of the ParsedCV schema inside FS.
const ParsedCVFile = "parsed_cv.schema.json"

// FS contains every *.schema.json document of this directory.
//
//go:embed *.schema.json
var FS embed.FS

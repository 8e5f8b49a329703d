package schemas

import (
	"encoding/json"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaFiles_ValidJSON(t *testing.T) {
	files, err := fs.Glob(FS, "*.schema.json")
	require.NoError(t, err)
	require.Contains(t, files, ParsedCVFile)

	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			data, err := FS.ReadFile(file)
			require.NoError(t, err)

			var schemaObj map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &schemaObj), "schema file should be valid JSON")

			assert.Equal(t, "http://json-schema.org/draft-07/schema#", schemaObj["$schema"])
			assert.Equal(t, "object", schemaObj["type"])
		})
	}
}

func TestParsedCVSchema_RequiresEveryField(t *testing.T) {
	data, err := FS.ReadFile(ParsedCVFile)
	require.NoError(t, err)

	var schemaObj struct {
		Required   []string               `json:"required"`
		Properties map[string]interface{} `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(data, &schemaObj))

	assert.Len(t, schemaObj.Required, 13)
	for _, field := range schemaObj.Required {
		assert.Contains(t, schemaObj.Properties, field)
	}
}

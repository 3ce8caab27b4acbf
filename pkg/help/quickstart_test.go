package help

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestQuickstartYAMLParses(t *testing.T) {
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(QuickstartYAML), &doc))

	for _, key := range []string{"setup", "commands", "output_files", "runs_commands", "error_behavior"} {
		assert.Contains(t, doc, key)
	}
}

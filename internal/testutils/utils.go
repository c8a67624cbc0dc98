package testutils

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertEqualJSON compares two JSON documents structurally, so key order
// and whitespace do not matter.
func AssertEqualJSON(t *testing.T, expected string, actual []byte) {
	t.Helper()

	var want, got interface{}
	require.NoError(t, json.Unmarshal([]byte(expected), &want), "expected is not valid json")
	require.NoError(t, json.Unmarshal(actual, &got), "actual is not valid json: %s", actual)

	if diff := cmp.Diff(want, got); diff != "" {
		msg := fmt.Sprintf(
			"Not equal:\n"+
				"expected:\n\t'%s'\n"+
				"actual:\n\t'%s'\n"+
				"diff (-expected +actual):\n%s",
			expected, actual, diff,
		)
		assert.Fail(t, msg)
	}
}

package sqlinline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"interiorai/internal/infra"
)

func TestQueriesCarryMarkers(t *testing.T) {
	seen := map[string]string{}
	for name, q := range map[string]string{
		"QSelectKVEntry":   QSelectKVEntry,
		"QUpsertKVEntry":   QUpsertKVEntry,
		"QDeleteKVEntries": QDeleteKVEntries,
		"QListKVKeys":      QListKVKeys,
	} {
		marker, body, err := infra.ExtractMarker(q)
		require.NoError(t, err, name)
		require.NotEmpty(t, body, name)
		prev, dup := seen[marker]
		require.False(t, dup, "%s reuses marker of %s", name, prev)
		seen[marker] = name
	}
}

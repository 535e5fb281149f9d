package services

import (
	"encoding/json"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateInputColumns(t *testing.T) {
	name := "Managed Backup"
	price := 149.0
	features := []string{"Daily snapshots", "Offsite replication"}

	in := UpdateInput{Name: &name, Price: &price, Features: &features}
	cols := in.Columns()

	assert.Equal(t, map[string]any{
		"name":     "Managed Backup",
		"price":    149.0,
		"features": pq.StringArray{"Daily snapshots", "Offsite replication"},
	}, cols)
}

func TestUpdateInputAbsentFieldsStayAbsent(t *testing.T) {
	// A field set to its zero value updates; an absent field does not.
	var in UpdateInput
	require.NoError(t, json.Unmarshal([]byte(`{"description":""}`), &in))

	cols := in.Columns()
	assert.Equal(t, map[string]any{"description": ""}, cols)

	var empty UpdateInput
	require.NoError(t, json.Unmarshal([]byte(`{}`), &empty))
	assert.Empty(t, empty.Columns())
}

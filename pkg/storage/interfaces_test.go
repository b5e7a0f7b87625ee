package storage

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicBot_JSONShape(t *testing.T) {
	pub := &PublicBot{ID: "b1", Name: "Support", CreatedAt: time.Now()}

	data, err := json.Marshal(pub)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))

	assert.Len(t, fields, 3)
	assert.Contains(t, fields, "id")
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "created_at")
	assert.NotContains(t, fields, "instructions")
	assert.NotContains(t, fields, "user_id")
}

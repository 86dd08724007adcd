package copying

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/eduside/lms-api/pkg/errors"
)

func TestRewriteExerciseReferences(t *testing.T) {
	content := json.RawMessage(`[
		{"name": "course-material/exercise", "attributes": {"id": "old-1"}},
		{"name": "core/paragraph", "attributes": {"content": "hello"}},
		{"name": "course-material/exercise", "attributes": {"id": "old-2"}}
	]`)
	oldToNew := map[string]string{"old-1": "new-1", "old-2": "new-2"}

	rewritten, changed, err := rewriteExerciseReferences(content, oldToNew)
	require.NoError(t, err)
	assert.True(t, changed)

	var blocks []map[string]interface{}
	require.NoError(t, json.Unmarshal(rewritten, &blocks))
	require.Len(t, blocks, 3)
	assert.Equal(t, "new-1", blocks[0]["attributes"].(map[string]interface{})["id"])
	assert.Equal(t, "hello", blocks[1]["attributes"].(map[string]interface{})["content"])
	assert.Equal(t, "new-2", blocks[2]["attributes"].(map[string]interface{})["id"])
}

func TestRewriteLeavesOtherBlocksAlone(t *testing.T) {
	content := json.RawMessage(`[{"name": "core/heading", "attributes": {"level": 2}}]`)

	rewritten, changed, err := rewriteExerciseReferences(content, map[string]string{})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.JSONEq(t, string(content), string(rewritten))
}

func TestRewriteIgnoresNonArrayContent(t *testing.T) {
	content := json.RawMessage(`{"legacy": "document"}`)

	rewritten, changed, err := rewriteExerciseReferences(content, map[string]string{})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, content, rewritten)
}

func TestRewriteFailsOnUnknownExerciseID(t *testing.T) {
	content := json.RawMessage(`[{"name": "course-material/exercise", "attributes": {"id": "dangling"}}]`)

	_, _, err := rewriteExerciseReferences(content, map[string]string{"other": "new"})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrConflict, "a dangling reference means the source data is corrupt")
}

func TestRewriteKeepsNonObjectElements(t *testing.T) {
	content := json.RawMessage(`[
		{"name": "course-material/exercise", "attributes": {"id": "old-1"}},
		"stray-string-element",
		null,
		42
	]`)

	rewritten, changed, err := rewriteExerciseReferences(content, map[string]string{"old-1": "new-1"})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.JSONEq(t, `[
		{"name": "course-material/exercise", "attributes": {"id": "new-1"}},
		"stray-string-element",
		null,
		42
	]`, string(rewritten))
}

func TestRewriteSkipsMalformedExerciseBlocks(t *testing.T) {
	// blocks without attributes or without a string id are passed through
	content := json.RawMessage(`[
		{"name": "course-material/exercise"},
		{"name": "course-material/exercise", "attributes": {"id": 7}}
	]`)

	_, changed, err := rewriteExerciseReferences(content, map[string]string{})
	require.NoError(t, err)
	assert.False(t, changed)
}

package copying

import (
	"encoding/json"

	appErrors "github.com/eduside/lms-api/pkg/errors"

	"github.com/eduside/lms-api/internal/models"
)

// rewriteExerciseReferences replaces exercise ids embedded in a page's
// content blocks using the old→new id map. Content that is not a block
// array is returned untouched; exercise references are not expected
// outside that encoding. Array elements that are not objects (editors
// can leave stray scalars between blocks) are kept as-is; only object
// blocks can carry a reference. A reference missing from the map means
// the source data is corrupt and fails the whole copy.
func rewriteExerciseReferences(content json.RawMessage, oldToNew map[string]string) (json.RawMessage, bool, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(content, &elements); err != nil {
		return content, false, nil
	}

	changed := false
	for i, element := range elements {
		var block map[string]interface{}
		if err := json.Unmarshal(element, &block); err != nil {
			continue
		}
		name, ok := block["name"].(string)
		if !ok || name != models.BlockTypeExercise {
			continue
		}
		attributes, ok := block["attributes"].(map[string]interface{})
		if !ok {
			continue
		}
		oldID, ok := attributes["id"].(string)
		if !ok {
			continue
		}
		newID, ok := oldToNew[oldID]
		if !ok {
			return nil, false, appErrors.Clone(appErrors.ErrConflict, "invalid exercise id in content")
		}
		attributes["id"] = newID
		rewritten, err := json.Marshal(block)
		if err != nil {
			return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode rewritten content")
		}
		elements[i] = rewritten
		changed = true
	}

	if !changed {
		return content, false, nil
	}

	rewritten, err := json.Marshal(elements)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode rewritten content")
	}
	return rewritten, true, nil
}

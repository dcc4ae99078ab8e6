package workspace

import (
	"strings"

	strongmotion "github.com/smcore/go-strongmotion"
)

// AddEvent writes one event's QuakeML XML block into the /QuakeML
// array, keyed by event id within the blob. Multiple events
// share the same array; each call appends its <event>...</event> block
// if the id is not already present, or replaces it in place when
// overwrite is true.
func (w *Workspace) AddEvent(event strongmotion.Event, quakeMLXML string, overwrite bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkOpen("workspace.AddEvent"); err != nil {
		return err
	}

	uri := w.path(groupQuakeML)
	existing := ""
	if w.blobExists(uri) {
		data, err := w.readBlob(uri)
		if err != nil {
			return err
		}
		existing = string(data)
	}

	merged, changed := mergeQuakeMLBlock(existing, event.ID, quakeMLXML, overwrite)
	if changed {
		if err := w.writeBlob(uri, []byte(merged), true); err != nil {
			return err
		}
	} else if !overwrite {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.AddEvent", strongmotion.ErrWorkspaceExists)
	}

	w.addEventID(event.ID)
	return w.persistCatalog()
}

// mergeQuakeMLBlock inserts or replaces the block attributed to
// eventID inside a concatenated "/QuakeML" byte string. Blocks are
// delimited by an event-id comment marker rather than parsing the full
// XML document, matching the "byte string, XML" storage contract
// literally instead of round-tripping through an XML decoder for a
// write-mostly blob.
func mergeQuakeMLBlock(existing, eventID, block string, overwrite bool) (merged string, changed bool) {
	marker := "<!-- event_id=" + eventID + " -->"
	entry := marker + "\n" + block + "\n"

	if idx := strings.Index(existing, marker); idx >= 0 {
		if !overwrite {
			return existing, false
		}
		end := strings.Index(existing[idx:], marker+"\n")
		_ = end
		next := strings.Index(existing[idx+len(marker):], "<!-- event_id=")
		if next < 0 {
			return existing[:idx] + entry, true
		}
		return existing[:idx] + entry + existing[idx+len(marker)+next:], true
	}
	return existing + entry, true
}

// GetQuakeML returns the stored QuakeML bytes, or an empty string if
// no event has been written yet.
func (w *Workspace) GetQuakeML() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkOpen("workspace.GetQuakeML"); err != nil {
		return "", err
	}
	uri := w.path(groupQuakeML)
	if !w.blobExists(uri) {
		return "", nil
	}
	data, err := w.readBlob(uri)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

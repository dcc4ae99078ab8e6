package workspace

import (
	"sort"
	"sync"

	tiledb "github.com/TileDB-Inc/TileDB-Go"

	strongmotion "github.com/smcore/go-strongmotion"
)

// Workspace is one event's portable container: a
// directory of TileDB arrays addressed by the path helpers in path.go,
// plus an in-memory catalog of what has been written so get_labels and
// get_event_ids don't need to guess at a directory-listing API this
// module's verified TileDB usage never exercises (see DESIGN.md).
type Workspace struct {
	ctx  *tiledb.Context
	root string

	mu      sync.Mutex
	closed  bool
	catalog catalog
}

type catalog struct {
	EventIDs  []string               `json:"event_ids"`
	Labels    []string               `json:"labels"`
	Waveforms []waveformCatalogEntry `json:"waveforms"`
}

type waveformCatalogEntry struct {
	Network  string `json:"network"`
	Station  string `json:"station"`
	Location string `json:"location"`
	Channel  string `json:"channel"`
	EventID  string `json:"event_id"`
	Label    string `json:"label"`
	Dataset  string `json:"dataset"`
	Npts     int    `json:"npts"`
}

const catalogBlobPath = "_catalog"

// Create initializes a new, empty workspace rooted at path. path is a
// TileDB-compatible URI (a local directory path, or an object-store
// URI for any VFS backend TileDB was built with).
func Create(path string) (*Workspace, error) {
	ctx, err := tiledb.NewContext(nil)
	if err != nil {
		return nil, strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.Create", err)
	}
	ws := &Workspace{ctx: ctx, root: path}
	if err := ws.writeCatalog(catalog{}); err != nil {
		return nil, err
	}
	return ws, nil
}

// Open opens an existing workspace at path.
func Open(path string) (*Workspace, error) {
	ctx, err := tiledb.NewContext(nil)
	if err != nil {
		return nil, strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.Open", err)
	}
	ws := &Workspace{ctx: ctx, root: path}
	cat, err := ws.readCatalog()
	if err != nil {
		return nil, err
	}
	ws.catalog = cat
	return ws, nil
}

// Close releases the TileDB context. Further operations on a closed
// Workspace return ErrWorkspaceClosed.
func (w *Workspace) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	w.ctx.Free()
	return nil
}

func (w *Workspace) checkOpen(op string) error {
	if w.closed {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, op, strongmotion.ErrWorkspaceClosed)
	}
	return nil
}

func (w *Workspace) path(segments ...string) string {
	return groupPath(append([]string{w.root}, segments...)...)
}

// GetLabels returns every processing label present in the workspace
//.
func (w *Workspace) GetLabels() ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkOpen("workspace.GetLabels"); err != nil {
		return nil, err
	}
	out := append([]string(nil), w.catalog.Labels...)
	sort.Strings(out)
	return out, nil
}

// GetEventIDs returns every event id present in the workspace.
func (w *Workspace) GetEventIDs() ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkOpen("workspace.GetEventIDs"); err != nil {
		return nil, err
	}
	out := append([]string(nil), w.catalog.EventIDs...)
	sort.Strings(out)
	return out, nil
}

func (w *Workspace) addEventID(id string) {
	for _, e := range w.catalog.EventIDs {
		if e == id {
			return
		}
	}
	w.catalog.EventIDs = append(w.catalog.EventIDs, id)
}

func (w *Workspace) addLabel(label string) {
	for _, l := range w.catalog.Labels {
		if l == label {
			return
		}
	}
	w.catalog.Labels = append(w.catalog.Labels, label)
}

package workspace

import (
	"encoding/json"

	tiledb "github.com/TileDB-Inc/TileDB-Go"

	strongmotion "github.com/smcore/go-strongmotion"
)

// blobExists reports whether a single-cell blob array already exists
// at uri by attempting to open it for reading. TileDB has no cheap
// existence check in the verified API surface
// (tiledb.go/schema.go never probe for array presence before
// creating), so this treats open failure as "does not exist".
func (w *Workspace) blobExists(uri string) bool {
	array, err := tiledb.NewArray(w.ctx, uri)
	if err != nil {
		return false
	}
	defer array.Free()
	if err := array.Open(tiledb.TILEDB_READ); err != nil {
		return false
	}
	array.Close()
	return true
}

// writeBlob creates (or overwrites, if overwrite is true and the array
// already exists) a single-cell TileDB array holding an arbitrary byte
// string: a "one attribute, one cell" shape used throughout this
// package for small metadata records.
func (w *Workspace) writeBlob(uri string, data []byte, overwrite bool) error {
	exists := w.blobExists(uri)
	if exists && !overwrite {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.writeBlob", strongmotion.ErrWorkspaceExists)
	}

	if !exists {
		if err := w.createBlobArray(uri); err != nil {
			return err
		}
	}

	array, err := tiledb.NewArray(w.ctx, uri)
	if err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.writeBlob", err)
	}
	defer array.Free()

	if err := array.Open(tiledb.TILEDB_WRITE); err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.writeBlob", err)
	}
	defer array.Close()

	query, err := tiledb.NewQuery(w.ctx, array)
	if err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.writeBlob", err)
	}
	defer query.Free()

	if err := query.SetLayout(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.writeBlob", err)
	}

	offsets := []uint64{0}
	if _, err := query.SetOffsetsBuffer("blob", offsets); err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.writeBlob", err)
	}
	if _, err := query.SetDataBuffer("blob", data); err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.writeBlob", err)
	}

	if err := query.Submit(); err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.writeBlob", err)
	}
	return nil
}

func (w *Workspace) createBlobArray(uri string) error {
	domain, err := tiledb.NewDomain(w.ctx)
	if err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.createBlobArray", err)
	}
	defer domain.Free()

	dim, err := tiledb.NewDimension(w.ctx, "__tiledb_rows", tiledb.TILEDB_UINT64, []uint64{0, 0}, uint64(1))
	if err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.createBlobArray", err)
	}
	defer dim.Free()

	if err := domain.AddDimensions(dim); err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.createBlobArray", err)
	}

	schema, err := tiledb.NewArraySchema(w.ctx, tiledb.TILEDB_DENSE)
	if err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.createBlobArray", err)
	}
	defer schema.Free()

	if err := schema.SetDomain(domain); err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.createBlobArray", err)
	}

	attr, err := tiledb.NewAttribute(w.ctx, "blob", tiledb.TILEDB_STRING_UTF8)
	if err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.createBlobArray", err)
	}
	defer attr.Free()

	if err := attr.SetCellValNum(tiledb.TILEDB_VAR_NUM); err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.createBlobArray", err)
	}

	zstd, err := ZstdFilter(w.ctx, 16)
	if err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.createBlobArray", err)
	}
	defer zstd.Free()

	filters, err := tiledb.NewFilterList(w.ctx)
	if err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.createBlobArray", err)
	}
	defer filters.Free()
	if err := filters.AddFilter(zstd); err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.createBlobArray", err)
	}
	if err := attr.SetFilterList(filters); err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.createBlobArray", err)
	}

	if err := schema.AddAttributes(attr); err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.createBlobArray", err)
	}

	array, err := tiledb.NewArray(w.ctx, uri)
	if err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.createBlobArray", err)
	}
	defer array.Free()

	if err := array.Create(schema); err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.createBlobArray", err)
	}
	return nil
}

// readBlob reads back a blob previously written by writeBlob.
func (w *Workspace) readBlob(uri string) ([]byte, error) {
	array, err := tiledb.NewArray(w.ctx, uri)
	if err != nil {
		return nil, strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.readBlob", err)
	}
	defer array.Free()

	if err := array.Open(tiledb.TILEDB_READ); err != nil {
		return nil, strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.readBlob", err)
	}
	defer array.Close()

	query, err := tiledb.NewQuery(w.ctx, array)
	if err != nil {
		return nil, strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.readBlob", err)
	}
	defer query.Free()

	if err := query.SetLayout(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return nil, strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.readBlob", err)
	}

	const maxBlobBytes = 64 << 20
	data := make([]byte, maxBlobBytes)
	offsets := make([]uint64, 1)

	if _, err := query.SetOffsetsBuffer("blob", offsets); err != nil {
		return nil, strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.readBlob", err)
	}
	if _, err := query.SetDataBuffer("blob", data); err != nil {
		return nil, strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.readBlob", err)
	}

	if err := query.Submit(); err != nil {
		return nil, strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.readBlob", err)
	}

	resultSize, err := query.ResultBufferElements()
	if err != nil {
		return nil, strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.readBlob", err)
	}
	n := resultSize["blob"][1]
	return data[:n], nil
}

func (w *Workspace) writeCatalog(cat catalog) error {
	data, err := json.Marshal(cat)
	if err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.writeCatalog", err)
	}
	return w.writeBlob(w.path(catalogBlobPath), data, true)
}

func (w *Workspace) readCatalog() (catalog, error) {
	data, err := w.readBlob(w.path(catalogBlobPath))
	if err != nil {
		return catalog{}, err
	}
	var cat catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return catalog{}, strongmotion.NewClassifiedError(strongmotion.ClassWorkspaceIO, "workspace.readCatalog", err)
	}
	return cat, nil
}

// persistCatalog writes the in-memory catalog back to disk; callers
// hold w.mu.
func (w *Workspace) persistCatalog() error {
	return w.writeCatalog(w.catalog)
}

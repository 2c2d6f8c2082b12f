// Package settings is the persistent settings store for tonsave.
//
// A Store is built once at startup and passed to whatever needs settings:
//
//	store, err := settings.NewStore(ctx, settings.Options{DataDir: dataDir})
//	if err != nil {
//	    return err
//	}
//	if store.Current().PlayAudio {
//	    // ...
//	}
//	store.Current().AutoCopy = true
//	_ = store.Export(ctx)
//
// # Files
//
// The canonical file is <dataDir>/Settings.json. Older releases wrote
// settings.json, and later Settings.json, to the working directory. On
// construction the store renames settings.json to Settings.json, then
// copies Settings.json to the data directory if no canonical file exists
// yet and archives the original as Settings.json.old. After that only the
// canonical file is used.
//
// # Failure handling
//
// Loading never fails: a missing, unreadable or corrupt file yields
// Defaults, and the cause is kept in Store.LoadResult. Export returns an
// *ExportError and tells the configured Notifier; the in-memory record is
// left as it was.
package settings

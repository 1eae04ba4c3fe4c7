// Package store persists project bundles as directory packages on
// disk. A package named "website.bundle" holds a metadata file, one
// blob per input under assets/, and one JSON snapshot per version
// under versions/. Every save rewrites metadata and appends new
// snapshots; existing version files are never modified.
package store

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/felixgeelhaar/planweave/internal/errors"
	"github.com/felixgeelhaar/planweave/internal/ledger"
	"github.com/felixgeelhaar/planweave/internal/log"
	"github.com/felixgeelhaar/planweave/internal/project"
)

const (
	// PackageExtension is appended to the project name to form the
	// package directory name.
	PackageExtension = ".bundle"

	metadataFile = "metadata"
	assetsDir    = "assets"
	versionsDir  = "versions"
)

// PackageStore reads and writes project bundles under a root directory
type PackageStore struct {
	root   string
	logger *log.Logger
}

// NewPackageStore creates a store rooted at dir
func NewPackageStore(dir string, logger *log.Logger) *PackageStore {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &PackageStore{root: dir, logger: logger}
}

// Path returns the package directory for a project name
func (s *PackageStore) Path(name string) string {
	return filepath.Join(s.root, name+PackageExtension)
}

// Exists reports whether a package for the project name is present
func (s *PackageStore) Exists(name string) bool {
	info, err := os.Stat(s.Path(name))
	return err == nil && info.IsDir()
}

// List returns the project names of all packages under the root,
// sorted alphabetically.
func (s *PackageStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewPersistenceError("read", s.root, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != PackageExtension {
			continue
		}
		names = append(names, entry.Name()[:len(entry.Name())-len(ext)])
	}
	sort.Strings(names)
	return names, nil
}

// Save writes the bundle's metadata, staged assets, and every ledger
// snapshot. On success the bundle's staged assets are cleared.
func (s *PackageStore) Save(bundle *project.Bundle) error {
	meta := bundle.Metadata()
	pkg := s.Path(meta.Name)

	if err := os.MkdirAll(filepath.Join(pkg, assetsDir), 0o755); err != nil {
		return errors.NewPersistenceError("write", pkg, err)
	}
	if err := os.MkdirAll(filepath.Join(pkg, versionsDir), 0o755); err != nil {
		return errors.NewPersistenceError("write", pkg, err)
	}

	for id, content := range bundle.StagedAssets() {
		path := filepath.Join(pkg, assetsDir, id)
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return errors.NewPersistenceError("write", path, err)
		}
	}

	// Every in-memory snapshot is written, existing files included, so
	// a version file damaged on disk is healed by the next save.
	for _, snapshot := range bundle.Ledger().Snapshots() {
		path := s.versionPath(pkg, snapshot.VersionNumber)
		data, err := json.MarshalIndent(snapshot, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode version %d: %w", snapshot.VersionNumber, err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return errors.NewPersistenceError("write", path, err)
		}
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(pkg, metadataFile), data, 0o644); err != nil {
		return errors.NewPersistenceError("write", filepath.Join(pkg, metadataFile), err)
	}

	bundle.ClearStaged()
	s.logger.Debug("saved project bundle",
		"project", meta.Name,
		"versions", bundle.Ledger().Len(),
	)
	return nil
}

// Load reads a package back into a bundle. Version files that cannot
// be decoded are skipped with a warning so one corrupt snapshot does
// not take the whole project down; a missing or unreadable metadata
// file is fatal.
func (s *PackageStore) Load(name string) (*project.Bundle, error) {
	pkg := s.Path(name)

	data, err := os.ReadFile(filepath.Join(pkg, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewBundleNotFoundError(pkg)
		}
		return nil, errors.NewPersistenceError("read", pkg, err)
	}

	var meta project.Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.NewBundleCorruptError(pkg, err)
	}

	bundle := project.Rehydrate(meta, ledger.FromSnapshots(s.loadSnapshots(pkg)))
	return bundle, nil
}

// ReadAsset returns the content of one input blob
func (s *PackageStore) ReadAsset(name, id string) ([]byte, error) {
	path := filepath.Join(s.Path(name), assetsDir, id)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewPersistenceError("read", path, err)
	}
	return data, nil
}

// Delete removes a package directory and everything in it
func (s *PackageStore) Delete(name string) error {
	pkg := s.Path(name)
	if _, err := os.Stat(pkg); err != nil {
		if os.IsNotExist(err) {
			return errors.NewBundleNotFoundError(pkg)
		}
		return errors.NewPersistenceError("read", pkg, err)
	}
	if err := os.RemoveAll(pkg); err != nil {
		return errors.NewPersistenceError("write", pkg, err)
	}
	return nil
}

// loadSnapshots reads back whatever version history is salvageable.
// Version data is lossy-tolerant: an absent or unreadable versions
// directory yields an empty ledger, and a version file that cannot be
// read or decoded is skipped. Only metadata is load-critical.
func (s *PackageStore) loadSnapshots(pkg string) []ledger.Snapshot {
	dir := filepath.Join(pkg, versionsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !stderrors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("versions directory unreadable, starting with an empty ledger",
				"path", dir,
				"error", err.Error(),
			)
		}
		return nil
	}

	var snapshots []ledger.Snapshot
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("skipping unreadable version file",
				"path", path,
				"error", err.Error(),
			)
			continue
		}
		var snapshot ledger.Snapshot
		if err := json.Unmarshal(data, &snapshot); err != nil {
			s.logger.Warn("skipping undecodable version file",
				"path", path,
				"error", err.Error(),
			)
			continue
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots
}

func (s *PackageStore) versionPath(pkg string, version int) string {
	return filepath.Join(pkg, versionsDir, fmt.Sprintf("v%03d", version))
}

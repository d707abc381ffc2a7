// Key database implementation for filesystems.
//
// Every key is stored as up to two files in a flat directory, named after
// the key:
//
//   - <name>.pub holds the public half in the text key format.
//
//   - <name>.priv holds the private half in the same format and is written
//     with owner-only permissions.
//
// On Open, both halves are read back and joined, so a key whose files
// disagree on bit length or modulus makes the whole database fail to open.
// Other files in the directory are ignored.
//
// This package also provides an in-memory file system abstraction for testing.
package filesystem

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing/fstest"
	"time"

	"github.com/agilira/go-timecache"

	"github.com/wokdav/gorsa/engine/keystore"
	"github.com/wokdav/gorsa/engine/rsa"
	"github.com/wokdav/gorsa/logging"
)

const (
	publicSuffix  = ".pub"
	privateSuffix = ".priv"

	publicPermissions  fs.FileMode = 0644
	privatePermissions fs.FileMode = 0600
)

// Wrappers for fs.FS with some write functionality.
// If go adds this feature to fs.Fs, we can remove this code.
// It is also a superset of the fs.StatFs interface.
type Filesystem interface {
	FS() fs.FS
	WriteFile(name string, content []byte, perm fs.FileMode) error
	Stat(name string) (os.FileInfo, error)
}

type mapfs struct {
	fsobj fs.FS
	m     map[string]*fstest.MapFile
}

func (m mapfs) FS() fs.FS {
	return m.fsobj
}

func (m mapfs) Stat(name string) (os.FileInfo, error) {
	return fstest.MapFS(m.m).Stat(name)
}

func (m mapfs) WriteFile(name string, content []byte, perm fs.FileMode) error {
	m.m[name] = &fstest.MapFile{
		Data:    content,
		Mode:    perm,
		ModTime: timecache.CachedTime(),
	}
	return nil
}

// Generates a new [filesystem.Filesystem] based on [fstest.MapFS]. It always adds a working directory "."
func NewMapFs(m fstest.MapFS) Filesystem {
	if m == nil {
		m = fstest.MapFS{}
	}
	if _, ok := m["."]; !ok {
		m["."] = &fstest.MapFile{Mode: 0777 | fs.ModeDir}
	}
	return mapfs{m: m, fsobj: m}
}

type nativefs struct {
	basepath string
	fsObj    fs.FS
}

func (n nativefs) FS() fs.FS {
	return n.fsObj
}

func (n nativefs) Stat(name string) (os.FileInfo, error) {
	return os.Stat(filepath.Join(n.basepath, name))
}

func (n nativefs) WriteFile(name string, content []byte, perm fs.FileMode) error {
	if filepath.IsAbs(name) {
		return fmt.Errorf("filesystem: '%s' is an absolute path, rather than a part relative to the provided basename", name)
	}

	path := filepath.Join(n.basepath, name)
	if err := os.WriteFile(path, content, perm); err != nil {
		return err
	}
	// WriteFile keeps the mode of an existing file
	return os.Chmod(path, perm)
}

// Generates a new [filesystem.Filesystem] based on [os.DirFS], plus some write
// functionality taken from the [os] package.
func NewNativeFs(path string) Filesystem {
	return nativefs{basepath: path, fsObj: os.DirFS(path)}
}

type FsDb struct {
	filesystem Filesystem
	entries    map[string]*keystore.Entry
	importOpts []rsa.Option
}

// Create a new file system database based on the provided implementation.
// The options are passed to [rsa.ImportKey] when keys are read on Open.
func NewFilesystemDatabase(filesystem Filesystem, opts ...rsa.Option) keystore.Database {
	return &FsDb{
		filesystem: filesystem,
		entries:    make(map[string]*keystore.Entry, 16),
		importOpts: opts,
	}
}

func (fsdb *FsDb) Get(name string) *keystore.Entry {
	e, ok := fsdb.entries[name]
	if !ok {
		return nil
	}
	out := *e
	return &out
}

func (fsdb *FsDb) Names() []string {
	out := make([]string, 0, len(fsdb.entries))
	for name := range fsdb.entries {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Put writes the halves the key carries and replaces any previous entry of
// the same name. A stale half of an older key is not removed.
func (fsdb *FsDb) Put(entry keystore.Entry) error {
	if err := keystore.ValidName(entry.Name); err != nil {
		return err
	}
	if entry.Key == nil {
		return fmt.Errorf("filesystem: cannot store '%s' without a key", entry.Name)
	}

	var pub, priv *bytes.Buffer
	if entry.Key.IsPublic() {
		pub = &bytes.Buffer{}
	}
	if entry.Key.IsPrivate() {
		priv = &bytes.Buffer{}
	}

	if pub == nil && priv == nil {
		return fmt.Errorf("filesystem: key '%s' has neither a public nor a private exponent", entry.Name)
	}

	var err error
	switch {
	case pub != nil && priv != nil:
		err = rsa.ExportKey(entry.Key, pub, priv)
	case pub != nil:
		err = rsa.ExportKey(entry.Key, pub, nil)
	default:
		err = rsa.ExportKey(entry.Key, nil, priv)
	}
	if err != nil {
		return fmt.Errorf("filesystem: exporting '%s': %w", entry.Name, err)
	}

	if pub != nil {
		if err := fsdb.filesystem.WriteFile(entry.Name+publicSuffix, pub.Bytes(), publicPermissions); err != nil {
			return err
		}
	}
	if priv != nil {
		if err := fsdb.filesystem.WriteFile(entry.Name+privateSuffix, priv.Bytes(), privatePermissions); err != nil {
			return err
		}
	}

	entry.LastWrite = timecache.CachedTime()
	fsdb.entries[entry.Name] = &entry
	logging.Debugf("filesystem: stored key '%s'", entry.Name)

	return nil
}

// openHalf returns nil, nil if the file does not exist.
func (fsdb *FsDb) openHalf(name string) ([]byte, time.Time, error) {
	f, err := fsdb.filesystem.FS().Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, err
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, time.Time{}, err
	}

	var modTime time.Time
	fi, err := fsdb.filesystem.Stat(name)
	if err != nil {
		logging.Warningf("could not get modtime for %v: %v", name, err)
	} else {
		modTime = fi.ModTime()
	}

	return content, modTime, nil
}

func (fsdb *FsDb) importKey(name string) error {
	logging.Debugf("importing key '%s'", name)

	pubContent, pubTime, err := fsdb.openHalf(name + publicSuffix)
	if err != nil {
		return err
	}
	privContent, privTime, err := fsdb.openHalf(name + privateSuffix)
	if err != nil {
		return err
	}

	// nil readers skip the half
	var pub, priv io.Reader
	if pubContent != nil {
		pub = bytes.NewReader(pubContent)
	}
	if privContent != nil {
		priv = bytes.NewReader(privContent)
	}

	key, err := rsa.ImportKey(pub, priv, fsdb.importOpts...)
	if err != nil {
		return fmt.Errorf("filesystem: importing key '%s': %w", name, err)
	}

	lastWrite := pubTime
	if privTime.After(lastWrite) {
		lastWrite = privTime
	}

	fsdb.entries[name] = &keystore.Entry{
		Name:      name,
		Key:       key,
		LastWrite: lastWrite,
	}
	return nil
}

// Open reads every key found in the top level of the filesystem.
func (fsdb *FsDb) Open() error {
	logging.Debug("scanning folder for key files")

	dirEntries, err := fs.ReadDir(fsdb.filesystem.FS(), ".")
	if err != nil {
		return fmt.Errorf("filesystem: %w", err)
	}

	names := make(map[string]struct{}, len(dirEntries))
	for _, d := range dirEntries {
		if d.IsDir() {
			continue
		}

		var base string
		switch {
		case strings.HasSuffix(d.Name(), publicSuffix):
			base = strings.TrimSuffix(d.Name(), publicSuffix)
		case strings.HasSuffix(d.Name(), privateSuffix):
			base = strings.TrimSuffix(d.Name(), privateSuffix)
		default:
			logging.Debugf("skipping '%v'. reason: not a key file", d.Name())
			continue
		}

		if err := keystore.ValidName(base); err != nil {
			logging.Infof("skipping '%v': %v", d.Name(), err)
			continue
		}
		names[base] = struct{}{}
	}

	for name := range names {
		if err := fsdb.importKey(name); err != nil {
			return err
		}
	}

	logging.Infof("found %v keys", len(fsdb.entries))
	return nil
}

func (fsdb *FsDb) Close() error {
	return nil
}

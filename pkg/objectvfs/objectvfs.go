// Package objectvfs is a VFS backend that stores each file as one object in
// an S3 compatible bucket. A file is loaded into memory when first opened
// and written back, s2 compressed, on sync and on its last close.
package objectvfs

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hashicorp/go-multierror"
	"github.com/klauspost/compress/s2"
	"github.com/litebase/sqliteplugin/pkg/config"
	"github.com/litebase/sqliteplugin/pkg/flags"
	"github.com/litebase/sqliteplugin/pkg/memvfs"
	"github.com/litebase/sqliteplugin/pkg/sqlite3"
	"github.com/litebase/sqliteplugin/pkg/vfs"
	"github.com/rs/zerolog"
)

type Options struct {
	Bucket string
	// Prefix is prepended to every file name to form its object key.
	Prefix  string
	Timeout time.Duration
}

// OptionsFromConfig returns the options described by c.
func OptionsFromConfig(c *config.Config) Options {
	return Options{
		Bucket:  c.StorageBucket,
		Prefix:  c.StoragePrefix,
		Timeout: c.RequestTimeout,
	}
}

// object is the in-memory image of a stored file, shared by every handle
// opened on it.
type object struct {
	mutex    sync.Mutex
	key      string
	buffer   *memvfs.Buffer
	checksum [sha256.Size]byte
	// stored is false until the object exists in the bucket.
	stored  bool
	deleted bool
	// deleteOnClose is set when any handle asked for it. The object is then
	// never uploaded and is removed when its last handle closes.
	deleteOnClose atomic.Bool
	refs          int
}

// File is an open handle. Anonymous and temporary files never leave memory.
type File struct {
	name       string
	object     *object
	readOnly   bool
	persistent bool
	opts       flags.OpenOpts
}

func (f *File) ReadOnly() bool {
	return f.readOnly
}

func (f *File) InMemory() bool {
	return !f.persistent
}

func (f *File) Name() string {
	return f.name
}

type VFS struct {
	client  ObjectClient
	options Options
	logger  zerolog.Logger
	mutex   sync.Mutex
	objects map[string]*object
}

func New(client ObjectClient, options Options) *VFS {
	if options.Timeout <= 0 {
		options.Timeout = config.DefaultRequestTimeout
	}

	return &VFS{
		client:  client,
		options: options,
		logger:  zerolog.Nop(),
		objects: make(map[string]*object),
	}
}

// Register registers a new object storage VFS with the SQLite linked into
// the binary.
func Register(name string, client ObjectClient, options Options, opts vfs.RegisterOpts) (*VFS, error) {
	o := New(client, options)

	if err := vfs.Register[*File](name, o, opts); err != nil {
		return nil, err
	}

	return o, nil
}

func (o *VFS) RegisterLogger(logger *vfs.Logger) {
	o.logger = logger.Zerolog().With().Str("vfs", "objectvfs").Str("bucket", o.options.Bucket).Logger()
}

func (o *VFS) key(name string) string {
	return o.options.Prefix + name
}

func (o *VFS) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), o.options.Timeout)
}

func (o *VFS) Open(path *string, opts flags.OpenOpts) (*File, error) {
	mode := opts.Mode()

	if path == nil || opts.Kind().IsTemp() {
		f := &File{
			object:   &object{buffer: memvfs.NewBuffer(nil), refs: 1},
			readOnly: mode.IsReadOnly(),
			opts:     opts,
		}

		if path != nil {
			f.name = *path
		}

		o.logger.Debug().Str("file", f.name).Str("opts", opts.String()).Msg("open in memory")

		return f, nil
	}

	name := *path

	o.logger.Debug().Str("file", name).Str("opts", opts.String()).Msg("open")

	o.mutex.Lock()
	defer o.mutex.Unlock()

	obj, ok := o.objects[name]

	if ok {
		if mode.MustCreate() {
			return nil, sqlite3.ErrCantOpen
		}
	} else {
		var err error

		obj, err = o.load(name, mode)

		if err != nil {
			return nil, err
		}

		o.objects[name] = obj
	}

	obj.refs++

	if opts.DeleteOnClose() {
		obj.deleteOnClose.Store(true)
	}

	return &File{
		name:       name,
		object:     obj,
		readOnly:   mode.IsReadOnly(),
		persistent: true,
		opts:       opts,
	}, nil
}

// load fetches a file from the bucket. A missing object becomes an empty
// file when mode allows creating it.
func (o *VFS) load(name string, mode flags.OpenMode) (*object, error) {
	ctx, cancel := o.requestContext()
	defer cancel()

	key := o.key(name)

	output, err := o.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &o.options.Bucket,
		Key:    &key,
	})

	if err != nil {
		if !isNotFound(err) {
			return nil, fmt.Errorf("get object %s: %w: %w", key, err, sqlite3.ErrCantOpen)
		}

		if !mode.CanCreate() {
			return nil, sqlite3.ErrCantOpen
		}

		return &object{key: key, buffer: memvfs.NewBuffer(nil)}, nil
	}

	defer output.Body.Close()

	if mode.MustCreate() {
		return nil, sqlite3.ErrCantOpen
	}

	body, err := io.ReadAll(output.Body)

	if err != nil {
		return nil, fmt.Errorf("read object %s: %w: %w", key, err, sqlite3.ErrIORead)
	}

	data, err := s2.Decode(nil, body)

	if err != nil {
		return nil, fmt.Errorf("decode object %s: %w: %w", key, err, sqlite3.ErrIORead)
	}

	return &object{
		key:      key,
		buffer:   memvfs.NewBuffer(data),
		checksum: sha256.Sum256(data),
		stored:   true,
	}, nil
}

// upload writes the object back when its contents changed since it was
// loaded or last uploaded.
func (o *VFS) upload(obj *object) error {
	obj.mutex.Lock()
	defer obj.mutex.Unlock()

	if obj.deleted || obj.deleteOnClose.Load() {
		return nil
	}

	data := obj.buffer.Bytes()
	checksum := sha256.Sum256(data)

	if obj.stored && checksum == obj.checksum {
		return nil
	}

	ctx, cancel := o.requestContext()
	defer cancel()

	_, err := o.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &o.options.Bucket,
		Key:    &obj.key,
		Body:   bytes.NewReader(s2.Encode(nil, data)),
	})

	if err != nil {
		return fmt.Errorf("put object %s: %w", obj.key, err)
	}

	obj.checksum = checksum
	obj.stored = true

	o.logger.Debug().Str("key", obj.key).Int("size", len(data)).Msg("uploaded")

	return nil
}

// Flush uploads every open file that changed since its last upload.
func (o *VFS) Flush() error {
	o.mutex.Lock()

	objects := make([]*object, 0, len(o.objects))

	for _, obj := range o.objects {
		objects = append(objects, obj)
	}

	o.mutex.Unlock()

	var result *multierror.Error

	for _, obj := range objects {
		if err := o.upload(obj); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

func (o *VFS) Delete(path string) error {
	o.logger.Debug().Str("file", path).Msg("delete")

	cached := false

	o.mutex.Lock()

	if obj, ok := o.objects[path]; ok {
		cached = true

		o.forget(path, obj)
	}

	o.mutex.Unlock()

	return o.deleteObject(o.key(path), cached)
}

// forget drops obj from the open files and stops it from being uploaded.
// The caller holds o.mutex.
func (o *VFS) forget(name string, obj *object) {
	obj.mutex.Lock()
	obj.deleted = true
	obj.mutex.Unlock()

	delete(o.objects, name)
}

// deleteObject removes key from the bucket. A missing key is only an error
// for files that were not open.
func (o *VFS) deleteObject(key string, cached bool) error {
	ctx, cancel := o.requestContext()
	defer cancel()

	if _, err := o.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &o.options.Bucket, Key: &key}); err != nil {
		if !isNotFound(err) {
			return fmt.Errorf("head object %s: %w: %w", key, err, sqlite3.ErrIODelete)
		}

		if cached {
			return nil
		}

		return sqlite3.ErrIODeleteNoEnt
	}

	if _, err := o.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &o.options.Bucket, Key: &key}); err != nil {
		return fmt.Errorf("delete object %s: %w: %w", key, err, sqlite3.ErrIODelete)
	}

	return nil
}

func (o *VFS) Access(path string, access flags.AccessFlags) (bool, error) {
	o.mutex.Lock()
	_, cached := o.objects[path]
	o.mutex.Unlock()

	if cached {
		return true, nil
	}

	ctx, cancel := o.requestContext()
	defer cancel()

	key := o.key(path)

	_, err := o.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &o.options.Bucket, Key: &key})

	if err != nil {
		if isNotFound(err) {
			return false, nil
		}

		return false, fmt.Errorf("head object %s: %w: %w", key, err, sqlite3.ErrIOAccess)
	}

	return true, nil
}

func (o *VFS) FileSize(f *File) (int64, error) {
	return f.object.buffer.Len(), nil
}

func (o *VFS) Truncate(f *File, size int64) error {
	if f.readOnly {
		return sqlite3.ErrReadOnly
	}

	f.object.buffer.Truncate(size)

	return nil
}

func (o *VFS) Write(f *File, p []byte, off int64) (int, error) {
	if f.readOnly {
		return 0, sqlite3.ErrReadOnly
	}

	return f.object.buffer.WriteAt(p, off), nil
}

func (o *VFS) Read(f *File, p []byte, off int64) (int, error) {
	return f.object.buffer.ReadAt(p, off), nil
}

func (o *VFS) Sync(f *File) error {
	if !f.persistent || f.readOnly {
		return nil
	}

	return o.upload(f.object)
}

// Close uploads the file when the last handle on it closes, or deletes it
// when it was opened with delete-on-close. The object stays open until the
// upload finishes, so an Open racing with Close shares it instead of reading
// the previous contents from the bucket.
func (o *VFS) Close(f *File) error {
	o.logger.Debug().Str("file", f.name).Msg("close")

	if !f.persistent {
		return nil
	}

	obj := f.object

	o.mutex.Lock()
	obj.refs--
	last := obj.refs == 0
	o.mutex.Unlock()

	if !last {
		return nil
	}

	var err error

	if obj.deleteOnClose.Load() {
		err = o.release(f.name, obj, func() error {
			return o.deleteObject(obj.key, true)
		})
	} else {
		err = o.upload(obj)

		o.release(f.name, obj, nil)
	}

	if err != nil {
		o.logger.Error().Err(err).Str("file", f.name).Msg("close failed")

		return fmt.Errorf("close %s: %w", f.name, err)
	}

	return nil
}

// release forgets obj unless it was opened again since its last handle
// closed, then runs then for a forgotten object.
func (o *VFS) release(name string, obj *object, then func() error) error {
	o.mutex.Lock()

	if obj.refs > 0 || o.objects[name] != obj {
		o.mutex.Unlock()

		return nil
	}

	o.forget(name, obj)
	o.mutex.Unlock()

	if then == nil {
		return nil
	}

	return then()
}

func (o *VFS) Pragma(f *File, pragma vfs.Pragma) (string, error) {
	switch pragma.Name {
	case "objectvfs_sync":
		if !f.persistent || f.readOnly {
			return "", &vfs.PragmaError{Message: "file is not stored in the bucket"}
		}

		if err := o.upload(f.object); err != nil {
			return "", &vfs.PragmaError{Message: err.Error()}
		}

		return "ok", nil
	case "objectvfs_bucket":
		return o.options.Bucket, nil
	case "objectvfs_key":
		if !f.persistent {
			return "", nil
		}

		return f.object.key, nil
	}

	return "", vfs.ErrPragmaNotFound
}

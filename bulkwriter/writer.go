package bulkwriter

import (
	"context"
	"errors"
	"fmt"
	"path"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/vecwire/blobstore"
	"github.com/hupe1980/vecwire/internal/compress"
	"github.com/hupe1980/vecwire/internal/hash"
	"github.com/hupe1980/vecwire/row"
	"github.com/hupe1980/vecwire/schema"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ErrClosed is returned by Append and Commit after Commit or Discard.
var ErrClosed = errors.New("bulk writer closed")

// FileInfo describes one uploaded import file.
type FileInfo struct {
	Name   string
	Rows   int
	Bytes  int
	CRC32C uint32

	seq int
}

// Writer buffers validated rows and uploads them as import files.
// It is safe for concurrent use.
type Writer struct {
	schema  *schema.Schema
	store   blobstore.Store
	opts    options
	batch   string
	limiter *rate.Limiter
	group   *errgroup.Group

	mu       sync.Mutex
	buf      [][]byte
	bufBytes int
	seq      int
	closed   bool

	filesMu sync.Mutex
	files   []FileInfo
}

// New creates a Writer for s that uploads to store.
func New(s *schema.Schema, store blobstore.Store, optFns ...Option) (*Writer, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil schema", schema.ErrInvalidField)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.New("bulkwriter: nil store")
	}

	opts := applyOptions(optFns)
	if opts.cfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("bulkwriter: chunk size must be positive, got %d", opts.cfg.ChunkSize)
	}
	switch opts.cfg.Compression {
	case CompressionNone, CompressionLZ4, CompressionZSTD:
	default:
		return nil, fmt.Errorf("bulkwriter: unknown compression %s", opts.cfg.Compression)
	}

	w := &Writer{
		schema: s,
		store:  store,
		opts:   opts,
		batch:  uuid.NewString(),
		group:  new(errgroup.Group),
	}
	if opts.cfg.MaxConcurrentUploads > 0 {
		w.group.SetLimit(opts.cfg.MaxConcurrentUploads)
	}
	w.opts.logger = w.opts.logger.WithBatch(w.Batch())
	if opts.cfg.UploadBytesPerSec > 0 {
		w.limiter = rate.NewLimiter(rate.Limit(opts.cfg.UploadBytesPerSec), opts.cfg.UploadBytesPerSec)
	}
	return w, nil
}

// Batch returns the directory all files of this writer are placed in.
func (w *Writer) Batch() string {
	return path.Join(w.opts.cfg.Prefix, w.batch)
}

// Append validates r against the schema and buffers it. A row that fails
// validation is rejected here and never reaches a file. When the buffer
// reaches the chunk size its rows are uploaded in the background with ctx,
// so ctx must stay valid until Commit returns.
func (w *Writer) Append(ctx context.Context, r map[string]any) error {
	obj, err := w.encode(r)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}

	w.buf = append(w.buf, obj)
	w.bufBytes += len(obj) + 1
	if w.bufBytes >= w.opts.cfg.ChunkSize {
		w.flushLocked(ctx)
	}
	return nil
}

func (w *Writer) encode(r map[string]any) ([]byte, error) {
	splitOpts := []row.SplitOption{row.WithJSONCodec(w.opts.codec)}
	if w.opts.upsert {
		splitOpts = append(splitOpts, row.ForUpsert())
	}

	cols, err := row.Split(w.schema, []map[string]any{r}, splitOpts...)
	if err != nil {
		return nil, err
	}
	records, err := row.Assemble(cols, 1, nil)
	if err != nil {
		return nil, err
	}
	return encodeRecord(w.opts.codec, records[0])
}

// flushLocked hands the buffered rows to an upload goroutine.
// The caller must hold w.mu.
func (w *Writer) flushLocked(ctx context.Context) {
	if len(w.buf) == 0 {
		return
	}

	rows, size := w.buf, w.bufBytes
	w.buf, w.bufBytes = nil, 0

	seq := w.seq
	w.seq++

	name := path.Join(w.Batch(), strconv.Itoa(seq)+".json"+w.opts.cfg.Compression.Suffix())

	w.group.Go(func() error {
		return w.upload(ctx, seq, name, rows, size)
	})
}

func (w *Writer) upload(ctx context.Context, seq int, name string, rows [][]byte, size int) (err error) {
	start := time.Now()

	var data []byte
	defer func() {
		w.opts.metricsCollector.RecordFlush(len(rows), len(data), time.Since(start), err)
		w.opts.logger.LogFlush(ctx, name, len(rows), len(data), err)
	}()

	data, err = compress.Compress(w.opts.cfg.Compression, buildBody(rows, size))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	if err = w.wait(ctx, len(data)); err != nil {
		return err
	}
	if err = w.store.Put(ctx, name, data); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	w.filesMu.Lock()
	w.files = append(w.files, FileInfo{
		Name:   name,
		Rows:   len(rows),
		Bytes:  len(data),
		CRC32C: hash.CRC32C(data),
		seq:    seq,
	})
	w.filesMu.Unlock()
	return nil
}

// wait blocks until the rate limiter admits n bytes.
func (w *Writer) wait(ctx context.Context, n int) error {
	if w.limiter == nil {
		return nil
	}
	burst := w.limiter.Burst()
	for n > 0 {
		step := min(n, burst)
		if err := w.limiter.WaitN(ctx, step); err != nil {
			return err
		}
		n -= step
	}
	return nil
}

// Commit uploads the remaining rows and waits for every upload to finish.
// It returns the first upload error. The writer cannot be used afterwards.
func (w *Writer) Commit(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	w.closed = true
	w.flushLocked(ctx)
	w.mu.Unlock()

	return w.group.Wait()
}

// Discard stops the writer, waits for in-flight uploads and deletes every
// file it uploaded.
func (w *Writer) Discard(ctx context.Context) error {
	w.mu.Lock()
	w.closed = true
	w.buf, w.bufBytes = nil, 0
	w.mu.Unlock()

	waitErr := w.group.Wait()

	var errs []error
	for _, f := range w.Files() {
		if err := w.store.Delete(ctx, f.Name); err != nil {
			errs = append(errs, err)
		}
	}

	w.filesMu.Lock()
	w.files = nil
	w.filesMu.Unlock()

	return errors.Join(append([]error{waitErr}, errs...)...)
}

// Files returns the uploaded files in write order.
func (w *Writer) Files() []FileInfo {
	w.filesMu.Lock()
	defer w.filesMu.Unlock()

	files := slices.Clone(w.files)
	slices.SortFunc(files, func(a, b FileInfo) int { return a.seq - b.seq })
	return files
}

// Rows returns the number of rows in uploaded files.
func (w *Writer) Rows() int {
	var n int
	for _, f := range w.Files() {
		n += f.Rows
	}
	return n
}

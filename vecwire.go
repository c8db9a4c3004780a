package vecwire

import (
	"context"
	"errors"
	"time"

	"github.com/hupe1980/vecwire/column"
	"github.com/hupe1980/vecwire/row"
	"github.com/hupe1980/vecwire/schema"
)

// Codec encodes insert payloads and decodes query results.
// A Codec is safe for concurrent use.
type Codec struct {
	opts options
}

// New creates a Codec.
func New(optFns ...Option) *Codec {
	return &Codec{opts: applyOptions(optFns)}
}

// Logger returns the configured logger.
func (c *Codec) Logger() *Logger { return c.opts.logger }

// Encode converts rows into one wire column per schema field, plus the
// dynamic field when the schema enables it.
//
// Options are passed to row.Split. The codec's JSON codec applies unless an
// option overrides it.
func (c *Codec) Encode(ctx context.Context, s *schema.Schema, rows []map[string]any, opts ...row.SplitOption) ([]*column.Column, error) {
	start := time.Now()

	splitOpts := make([]row.SplitOption, 0, len(opts)+1)
	splitOpts = append(splitOpts, row.WithJSONCodec(c.opts.codec))
	splitOpts = append(splitOpts, opts...)

	cols, err := row.Split(s, rows, splitOpts...)

	c.opts.metricsCollector.RecordEncode(len(rows), time.Since(start), err)
	logger := c.opts.logger
	var fe *FieldError
	if errors.As(err, &fe) {
		logger = logger.WithField(fe.Field)
	}
	logger.LogEncode(ctx, len(rows), len(cols), err)
	if err != nil {
		return nil, err
	}
	return cols, nil
}

// Decode assembles the columns of a response into a result set of rowCount
// rows. outputFields, when given, selects and orders the fields of every
// record.
//
// Decode either returns every row or an error; it never returns a partial
// result.
func (c *Codec) Decode(ctx context.Context, cols []*column.Column, rowCount int, outputFields []string) (*ResultSet, error) {
	start := time.Now()

	records, err := row.Assemble(cols, rowCount, outputFields)

	c.opts.metricsCollector.RecordDecode(rowCount, time.Since(start), err)
	c.opts.logger.LogDecode(ctx, rowCount, len(cols), err)
	if err != nil {
		return nil, err
	}
	return newResultSet(cols, records), nil
}

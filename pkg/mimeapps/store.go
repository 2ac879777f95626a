package mimeapps

import (
	"context"
	"os"

	"github.com/arthur-debert/mimer/pkg/errors"
	"github.com/arthur-debert/mimer/pkg/logging"
	"github.com/arthur-debert/mimer/pkg/types"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds concurrent file reads
const DefaultWorkers = 4

// Store reads association layers
type Store struct {
	fs      types.FS
	workers int
	logger  zerolog.Logger
}

// NewStore creates a Store reading through fsys
func NewStore(fsys types.FS, workers int) *Store {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Store{
		fs:      fsys,
		workers: workers,
		logger:  logging.GetLogger("mimeapps"),
	}
}

// ReadDocument reads and parses path. A missing file is an empty document.
// Read failures are IO_ERROR, invalid content PARSE_ERROR; both carry the
// path detail.
func (s *Store) ReadDocument(path string) (*Document, error) {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewDocument(), nil
		}
		return nil, errors.Wrap(err, errors.ErrIO, "cannot read association file").WithDetail("path", path)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrParse, "invalid association file").WithDetail("path", path)
	}
	return doc, nil
}

// Load reads every file of layerPath in parallel and returns one Layer per
// slot, in the same order. It only fails when ctx is cancelled.
func (s *Store) Load(ctx context.Context, layerPath []string) ([]Layer, []types.Diagnostic, error) {
	layers := make([]Layer, len(layerPath))
	perFile := make([][]types.Diagnostic, len(layerPath))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, path := range layerPath {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			layers[i], perFile[i] = s.loadOne(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var diags []types.Diagnostic
	for _, d := range perFile {
		diags = append(diags, d...)
	}

	s.logger.Debug().
		Int("layers", len(layers)).
		Int("diagnostics", len(diags)).
		Msg("association layers loaded")

	return layers, diags, nil
}

func (s *Store) loadOne(path string) (Layer, []types.Diagnostic) {
	doc, err := s.ReadDocument(path)
	if err != nil {
		code := types.DiagReadError
		if errors.IsErrorCode(err, errors.ErrParse) {
			code = types.DiagParseError
		}
		return EmptyLayer(path), []types.Diagnostic{{
			Severity: types.SeverityError,
			Code:     code,
			Message:  "association file ignored",
			Path:     path,
			Cause:    err,
		}}
	}

	layer, diags := doc.Layer(path)
	if !layer.IsEmpty() {
		s.logger.Trace().Str("path", path).Msg("layer loaded")
	}
	return layer, diags
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"managerof/internal/application"
	"managerof/internal/domain"
	"managerof/internal/ports"
)

// ExportResult contains the result of an export run
type ExportResult struct {
	// Document is the in-memory graph. Nil when the query matched nothing
	// and empty documents are not written.
	Document *domain.GraphDocument
	Stats    application.BuildStats
	Path     string // where the document was written, empty if nothing was
	Empty    bool   // the query matched no records
	Message  string
}

// ExportCommand enumerates users with a manager and writes the ManagerOf graph
type ExportCommand struct {
	source ports.RecordSource
	lookup ports.ManagerLookup
	writer ports.GraphWriter
	index  ports.EdgeIndex

	OutputDir  string
	FileName   string
	WriteEmpty bool
	RunID      string
}

// ExportOption configures an ExportCommand
type ExportOption func(*ExportCommand)

// WithIndex also stores the exported edges in idx
func WithIndex(idx ports.EdgeIndex) ExportOption {
	return func(c *ExportCommand) {
		c.index = idx
	}
}

// WithWriteEmpty writes an empty graph document when the query matches
// nothing, instead of skipping the write
func WithWriteEmpty(writeEmpty bool) ExportOption {
	return func(c *ExportCommand) {
		c.WriteEmpty = writeEmpty
	}
}

// WithRunID tags index rows with id
func WithRunID(id string) ExportOption {
	return func(c *ExportCommand) {
		c.RunID = id
	}
}

// NewExportCommand creates a new ExportCommand
func NewExportCommand(
	source ports.RecordSource,
	lookup ports.ManagerLookup,
	writer ports.GraphWriter,
	outputDir, fileName string,
	opts ...ExportOption,
) *ExportCommand {
	c := &ExportCommand{
		source:    source,
		lookup:    lookup,
		writer:    writer,
		OutputDir: outputDir,
		FileName:  fileName,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Validate checks the output target before any directory work happens
func (c *ExportCommand) Validate() error {
	if err := application.ValidateOutputDir(c.OutputDir); err != nil {
		return err
	}
	return application.ValidateFileName(c.FileName)
}

// OutputPath returns the path the document is written to
func (c *ExportCommand) OutputPath() string {
	return filepath.Join(c.OutputDir, c.FileName)
}

// Execute runs the export
func (c *ExportCommand) Execute(ctx context.Context) (*ExportResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	log := zerolog.Ctx(ctx)

	it, err := c.source.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query directory: %w", err)
	}
	defer func() {
		if err := it.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to release record enumeration")
		}
	}()

	builder := application.NewBuilder(application.NewResolver(c.lookup))
	doc, stats, err := builder.Build(ctx, it)

	switch {
	case errors.Is(err, application.ErrEmptyResultSet):
		if !c.WriteEmpty {
			return &ExportResult{
				Stats:   stats,
				Empty:   true,
				Message: "No users with a manager were found; no file written",
			}, nil
		}
		doc = domain.NewGraphDocument(nil)
	case err != nil:
		return nil, fmt.Errorf("failed to build graph: %w", err)
	}

	log.Info().
		Int("records", stats.Records).
		Int("edges", stats.Edges).
		Int("skipped", stats.Skipped()).
		Int("lookups", stats.Lookups).
		Msg("graph built")

	path := c.OutputPath()
	if err := c.writer.Write(path, doc); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}

	if c.index != nil {
		if err := c.index.ReplaceEdges(c.RunID, doc.Graph.Edges); err != nil {
			return nil, fmt.Errorf("failed to update edge index: %w", err)
		}
	}

	return &ExportResult{
		Document: doc,
		Stats:    stats,
		Path:     path,
		Empty:    stats.Records == 0,
		Message:  fmt.Sprintf("Wrote %d ManagerOf edges to %s", len(doc.Graph.Edges), path),
	}, nil
}

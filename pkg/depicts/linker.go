// Package depicts resolves the knowledge-base entities that files are
// tagged as depicting in their structured data.
package depicts

import (
	"context"
	"fmt"
	"log/slog"

	"commonsmeta/pkg/commons"
	"commonsmeta/pkg/dedupe"
	"commonsmeta/pkg/model"
)

// DefaultProperty is the "depicts" property.
const DefaultProperty = "P180"

// Source is the subset of the Commons client the linker needs.
type Source interface {
	CategoryFiles(ctx context.Context, category, lang string) ([]model.Page, error)
	MediaInfo(ctx context.Context, mediaID, lang string) (*commons.MediaInfo, error)
	EntityLabel(ctx context.Context, id, labelLang, lang string) (string, error)
}

// Linker collects depicted entities for files and categories.
type Linker struct {
	source        Source
	Property      string
	LabelLanguage string
	Logger        *slog.Logger
}

// NewLinker creates a Linker reading the depicts property with English labels.
func NewLinker(src Source, logger *slog.Logger) *Linker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Linker{
		source:        src,
		Property:      DefaultProperty,
		LabelLanguage: "en",
		Logger:        logger,
	}
}

// FileEntities returns the labelled entities a file depicts, in statement order.
// Statements that cannot be resolved are skipped; failing to fetch the
// file's structured data is an error.
func (l *Linker) FileEntities(ctx context.Context, file model.Page, lang string) ([]model.Depiction, error) {
	info, err := l.source.MediaInfo(ctx, file.MediaID(), lang)
	if err != nil {
		return nil, fmt.Errorf("structured data of %s: %w", file.Title, err)
	}

	statements := info.Statements[l.Property]
	if len(statements) == 0 {
		return nil, nil
	}

	var out []model.Depiction
	for i := range statements {
		d, err := l.resolve(ctx, &statements[i], lang)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			l.Logger.Debug("Skipping statement", "file", file.Title, "property", l.Property, "index", i, "reason", err)
			continue
		}
		out = append(out, d)
	}
	return dedupe.OrderedBy(out, depictionID), nil
}

func (l *Linker) resolve(ctx context.Context, s *commons.Statement, lang string) (model.Depiction, error) {
	id, err := s.TargetID()
	if err != nil {
		return model.Depiction{}, err
	}
	label, err := l.source.EntityLabel(ctx, id, l.LabelLanguage, lang)
	if err != nil {
		return model.Depiction{}, err
	}
	return model.Depiction{ID: id, Label: label}, nil
}

// CategoryEntities returns the entities depicted by any file directly in
// category, without duplicates, in first-seen order.
func (l *Linker) CategoryEntities(ctx context.Context, category, lang string) ([]model.Depiction, error) {
	files, err := l.source.CategoryFiles(ctx, category, lang)
	if err != nil {
		return nil, err
	}

	var all []model.Depiction
	for _, f := range files {
		ds, err := l.FileEntities(ctx, f, lang)
		if err != nil {
			return nil, err
		}
		all = append(all, ds...)
	}

	out := dedupe.OrderedBy(all, depictionID)
	l.Logger.Debug("Linked category entities", "category", category, "files", len(files), "entities", len(out))
	return out, nil
}

func depictionID(d model.Depiction) string { return d.ID }

// Package harvest drives the category walk and prints the metadata report.
package harvest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/paulmach/orb/encoding/wkt"

	"commonsmeta/pkg/commons"
	"commonsmeta/pkg/dedupe"
	"commonsmeta/pkg/metadata"
	"commonsmeta/pkg/model"
	"commonsmeta/pkg/wikidata"
)

// Commons is the subset of the Commons client the harvester needs.
type Commons interface {
	CategoryFiles(ctx context.Context, category, lang string) ([]model.Page, error)
	Subcategories(ctx context.Context, category, lang string) ([]model.Page, error)
	VisibleCategories(ctx context.Context, file, lang string) ([]string, error)
	HiddenCategories(ctx context.Context, file, lang string) ([]string, error)
	AllCategories(ctx context.Context, file, lang string) ([]string, error)
	ImageInfo(ctx context.Context, file, lang string, props ...string) ([]json.RawMessage, error)
}

// Linker finds the entities depicted by the files of a category.
type Linker interface {
	CategoryEntities(ctx context.Context, category, lang string) ([]model.Depiction, error)
}

// Describer queries the knowledge base about one entity.
type Describer interface {
	Describe(ctx context.Context, id string) ([]wikidata.Binding, error)
}

// DefaultSkipCategories are categories known to have no linked entities.
var DefaultSkipCategories = []string{"Category:Pages with maps"}

// Harvester runs the extractors against one language edition.
type Harvester struct {
	commons   Commons
	linker    Linker
	describer Describer
	out       *Printer

	Lang           string
	SkipCategories []string
	Logger         *slog.Logger
}

// New creates a Harvester printing to out.
func New(c Commons, l Linker, d Describer, out *Printer, logger *slog.Logger) *Harvester {
	if logger == nil {
		logger = slog.Default()
	}
	return &Harvester{
		commons:        c,
		linker:         l,
		describer:      d,
		out:            out,
		Lang:           commons.DefaultLang,
		SkipCategories: DefaultSkipCategories,
		Logger:         logger,
	}
}

// WalkFiles lists the files of every direct subcategory of category,
// subcategory by subcategory, in response order.
func (h *Harvester) WalkFiles(ctx context.Context, category string) ([]model.Page, error) {
	subs, err := h.commons.Subcategories(ctx, category, h.Lang)
	if err != nil {
		return nil, err
	}

	var files []model.Page
	for _, sub := range subs {
		pages, err := h.commons.CategoryFiles(ctx, sub.Title, h.Lang)
		if err != nil {
			return nil, err
		}
		h.Logger.Debug("Listed subcategory", "category", sub.Title, "files", len(pages))
		files = append(files, pages...)
	}
	return files, nil
}

// PrintTitles prints one title per line.
func (h *Harvester) PrintTitles(pages []model.Page) error {
	for _, p := range pages {
		h.out.Heading(p.Title)
	}
	return h.out.Err()
}

// PrintVisibleCategories prints "file -> [categories]".
func (h *Harvester) PrintVisibleCategories(ctx context.Context, file string) error {
	cats, err := h.commons.VisibleCategories(ctx, file, h.Lang)
	if err != nil {
		return err
	}
	h.out.List(file, cats)
	h.out.Blank()
	return h.out.Err()
}

// PrintHiddenCategories prints "file -> [hidden categories]".
func (h *Harvester) PrintHiddenCategories(ctx context.Context, file string) error {
	cats, err := h.commons.HiddenCategories(ctx, file, h.Lang)
	if err != nil {
		return err
	}
	h.out.List(file, cats)
	h.out.Blank()
	return h.out.Err()
}

// PrintAllCategories prints "file -> [visible..., hidden...]" without
// duplicates and returns the list.
func (h *Harvester) PrintAllCategories(ctx context.Context, file string) ([]string, error) {
	all, err := h.commons.AllCategories(ctx, file, h.Lang)
	if err != nil {
		return nil, err
	}
	h.out.List(file, all)
	h.out.Blank()
	return all, h.out.Err()
}

// PrintEmbedded prints the flattened embedded (EXIF) metadata of a file.
func (h *Harvester) PrintEmbedded(ctx context.Context, file string) error {
	entries, err := h.commons.ImageInfo(ctx, file, h.Lang, commons.PropMetadata)
	if err != nil {
		return err
	}
	lines, err := metadata.FlattenEmbedded(entries)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	h.out.Heading(file)
	h.out.Lines(lines)
	h.out.Blank()
	return h.out.Err()
}

// PrintSummary prints the curated extended metadata of a file.
func (h *Harvester) PrintSummary(ctx context.Context, file string) error {
	entries, err := h.commons.ImageInfo(ctx, file, h.Lang, commons.PropExtMetadata)
	if err != nil {
		return err
	}
	summaries, err := metadata.Summarize(file, entries)
	if err != nil {
		return err
	}
	for _, s := range summaries {
		for _, note := range s.Notes() {
			h.Logger.Debug("Summary field skipped or raw", "file", file, "reason", note)
		}
		if s.GPS.Present {
			if pt, err := s.GPS.Value.Point(); err != nil {
				h.Logger.Warn("Implausible camera location", "file", file, "error", err)
			} else {
				h.Logger.Debug("Camera location", "file", file, "point", wkt.MarshalString(pt))
			}
		}
		h.out.Heading(s.Title)
		h.out.Lines(s.Lines())
	}
	h.out.Blank()
	return h.out.Err()
}

// PrintFull prints every extended, common and file property of a file.
func (h *Harvester) PrintFull(ctx context.Context, file string) error {
	entries, err := h.commons.ImageInfo(ctx, file, h.Lang, commons.FullProps...)
	if err != nil {
		return err
	}
	lines, err := metadata.FlattenAll(entries)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	h.out.Heading(file)
	h.out.Lines(lines)
	h.out.Blank()
	return h.out.Err()
}

// PrintDepicts prints "id -> label" for the entities depicted in a category.
func (h *Harvester) PrintDepicts(ctx context.Context, category string) error {
	ds, err := h.linker.CategoryEntities(ctx, category, h.Lang)
	if err != nil {
		return err
	}
	h.out.Heading(category)
	for _, d := range ds {
		h.out.Pair(d.ID, d.Label)
	}
	h.out.Blank()
	return h.out.Err()
}

// DescribeCategory prints, for each direct subcategory of category, the
// knowledge-base description of every entity its files depict. Entities
// without a match print nothing.
func (h *Harvester) DescribeCategory(ctx context.Context, category string) error {
	subs, err := h.commons.Subcategories(ctx, category, h.Lang)
	if err != nil {
		return err
	}

	for _, sub := range subs {
		ds, err := h.linker.CategoryEntities(ctx, sub.Title, h.Lang)
		if err != nil {
			return err
		}
		h.out.Blank()
		h.out.Heading(sub.Title)

		for _, d := range ds {
			if !wikidata.ValidItemID(d.ID) {
				h.Logger.Debug("Skipping non-item id", "id", d.ID, "category", sub.Title)
				continue
			}
			rows, err := h.describer.Describe(ctx, d.ID)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				h.Logger.Debug("No knowledge-base match", "qid", d.ID, "category", sub.Title)
			}
			for _, row := range rows {
				for _, term := range row {
					h.out.Pair(term.Name, term.Value)
				}
			}
		}
	}
	return h.out.Err()
}

// skipped reports whether a category is on the skip list (substring match).
func (h *Harvester) skipped(category string) bool {
	for _, s := range h.SkipCategories {
		if s != "" && strings.Contains(category, s) {
			return true
		}
	}
	return false
}

// Run walks category once, prints every report for every file, then
// describes the entities behind each category the files belong to.
// Failures abort the run except in the final describe loop, where a failing
// category is logged and skipped.
func (h *Harvester) Run(ctx context.Context, category string) error {
	runID := uuid.NewString()
	log := h.Logger.With("run_id", runID)
	log.Info("Harvest started", "category", category, "lang", h.Lang)

	files, err := h.WalkFiles(ctx, category)
	if err != nil {
		return fmt.Errorf("walk %s: %w", category, err)
	}
	log.Info("Category walked", "files", len(files))
	titles := model.Titles(files)

	steps := []struct {
		name string
		fn   func(context.Context, string) error
	}{
		{"Categories", h.PrintVisibleCategories},
		{"Hidden categories", h.PrintHiddenCategories},
		{"Full metadata", h.PrintFull},
		{"Summary", h.PrintSummary},
		{"Embedded metadata", h.PrintEmbedded},
	}
	for _, step := range steps {
		h.out.Section(step.name)
		for _, title := range titles {
			if err := step.fn(ctx, title); err != nil {
				return fmt.Errorf("%s: %w", strings.ToLower(step.name), err)
			}
		}
	}

	h.out.Section("All categories")
	var aggregate []string
	for _, title := range titles {
		all, err := h.PrintAllCategories(ctx, title)
		if err != nil {
			return fmt.Errorf("all categories: %w", err)
		}
		aggregate = append(aggregate, all...)
	}
	aggregate = dedupe.Ordered(aggregate)

	h.out.Section("Linked entities")
	described, failed := 0, 0
	for _, cat := range aggregate {
		if h.skipped(cat) {
			log.Debug("Skipping category", "category", cat)
			continue
		}
		if err := h.DescribeCategory(ctx, cat); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			failed++
			log.Warn("Describe failed, continuing", "category", cat, "error", err)
			continue
		}
		described++
	}

	log.Info("Harvest finished", "files", len(files), "categories", len(aggregate), "described", described, "failed", failed)
	return h.out.Err()
}

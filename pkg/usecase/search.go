package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/selene-notes/selene/pkg/domain/model"
	"github.com/selene-notes/selene/pkg/domain/types"
	"github.com/selene-notes/selene/pkg/utils/errutil"
	"golang.org/x/sync/errgroup"
)

const (
	minPageSize = 1
	maxPageSize = 50
)

const searchWarning = "Search is unavailable (the store is likely missing its composite indexes; run the migrate command). Showing no results."

// Search returns one page of the note library.
//
// With an empty query this is a plain offset scan ordered by creation time
// descending; one extra row is fetched to compute HasMore without a count
// query, and store errors propagate.
//
// With a non-empty query two prefix-range queries run concurrently: one over
// the lowercase text mirror with the lowercased query, one over the analysis
// strategy with the query as typed (trimmed). The two result sets are merged
// by note id, tagged with their match provenance, sorted by creation time
// descending, and truncated to the page size. HasMore is an estimate; merged
// search has no keyset continuation past the first page. A store failure in
// this mode (typically missing indexes) degrades to an empty page with a
// Warning instead of an error, so the library view stays usable.
func (uc *UseCases) Search(ctx context.Context, page, pageSize int, query string) (*model.NotePage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < minPageSize {
		pageSize = minPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	if strings.TrimSpace(query) == "" {
		return uc.listPage(ctx, page, pageSize)
	}

	return uc.searchPage(ctx, page, pageSize, query)
}

func (uc *UseCases) listPage(ctx context.Context, page, pageSize int) (*model.NotePage, error) {
	offset := (page - 1) * pageSize

	notes, err := uc.repo.Note().List(ctx, pageSize+1, offset)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list notes",
			goerr.V("page", page),
			goerr.V("page_size", pageSize),
		)
	}

	hasMore := len(notes) > pageSize
	if hasMore {
		notes = notes[:pageSize]
	}

	items := make([]*model.NoteHit, 0, len(notes))
	for _, n := range notes {
		items = append(items, &model.NoteHit{Note: n})
	}

	return &model.NotePage{
		Items:    items,
		HasMore:  hasMore,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (uc *UseCases) searchPage(ctx context.Context, page, pageSize int, query string) (*model.NotePage, error) {
	textPrefix := strings.ToLower(query)
	analysisPrefix := strings.TrimSpace(query)

	var textHits, analysisHits []*model.Note
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		textHits, err = uc.repo.Note().SearchText(egCtx, textPrefix, pageSize)
		return err
	})
	eg.Go(func() error {
		var err error
		analysisHits, err = uc.repo.Note().SearchAnalysis(egCtx, analysisPrefix, pageSize)
		return err
	})

	if err := eg.Wait(); err != nil {
		errutil.Handle(ctx, err, "search query failed, degrading to empty result")
		return &model.NotePage{
			Items:    []*model.NoteHit{},
			Page:     page,
			PageSize: pageSize,
			Warning:  searchWarning,
		}, nil
	}

	merged := make(map[model.NoteID]*model.NoteHit, len(textHits)+len(analysisHits))
	for _, n := range textHits {
		merged[n.ID] = &model.NoteHit{Note: n, MatchType: types.MatchTypeText}
	}
	for _, n := range analysisHits {
		if hit, ok := merged[n.ID]; ok {
			hit.MatchType = types.MatchTypeBoth
			continue
		}
		merged[n.ID] = &model.NoteHit{Note: n, MatchType: types.MatchTypeAnalysis}
	}

	items := make([]*model.NoteHit, 0, len(merged))
	for _, hit := range merged {
		items = append(items, hit)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Note.Timestamp.After(items[j].Note.Timestamp)
	})

	unique := len(items)
	if len(items) > pageSize {
		items = items[:pageSize]
	}

	return &model.NotePage{
		Items:    items,
		HasMore:  unique > page*pageSize,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

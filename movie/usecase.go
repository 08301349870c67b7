package movie

import "context"

type Service interface {
	BestMatch(ctx context.Context, title string) (Movie, error)
	AddFavorite(ctx context.Context, m Movie) error
	ListFavorites(ctx context.Context) ([]Movie, error)
	RemoveFavorite(ctx context.Context, title string) error
	RemoveAllFavorites(ctx context.Context) error
}

// Searcher queries the external movie metadata API. Candidates come back in
// the API's ranking order.
type Searcher interface {
	Search(ctx context.Context, title string) ([]Movie, error)
}

// Repository is the favorites store. DeleteByTitle removes at most one record
// and reports success when nothing matched.
type Repository interface {
	Insert(ctx context.Context, m Movie) error
	All(ctx context.Context) ([]Movie, error)
	DeleteByTitle(ctx context.Context, title string) error
	DeleteAll(ctx context.Context) error
}

type Usecase struct {
	s Searcher
	r Repository
}

func NewUsecase(s Searcher, r Repository) *Usecase {
	return &Usecase{s: s, r: r}
}

// BestMatch returns the top ranked candidate only; the rest are discarded.
func (uc *Usecase) BestMatch(ctx context.Context, title string) (Movie, error) {
	movies, err := uc.s.Search(ctx, title)
	if err != nil {
		return Movie{}, err
	}
	if len(movies) == 0 {
		return Movie{}, ErrNoResults
	}
	return movies[0], nil
}

func (uc *Usecase) AddFavorite(ctx context.Context, m Movie) error {
	return uc.r.Insert(ctx, m)
}

func (uc *Usecase) ListFavorites(ctx context.Context) ([]Movie, error) {
	movies, err := uc.r.All(ctx)
	if err != nil {
		return nil, err
	}
	if movies == nil {
		movies = []Movie{}
	}
	return movies, nil
}

func (uc *Usecase) RemoveFavorite(ctx context.Context, title string) error {
	return uc.r.DeleteByTitle(ctx, title)
}

func (uc *Usecase) RemoveAllFavorites(ctx context.Context) error {
	return uc.r.DeleteAll(ctx)
}

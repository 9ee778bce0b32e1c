package docrepo

import (
	"context"
	"slices"
	"sync"

	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/fsdevblog/groph-eats/internal/repository/repoargs"
	"github.com/fsdevblog/groph-eats/internal/storage/jsonstore"
)

type ReviewRepository struct {
	mu      sync.RWMutex
	store   *jsonstore.Store
	reviews []domain.Review
}

func NewReviewRepository(ctx context.Context, store *jsonstore.Store) *ReviewRepository {
	return &ReviewRepository{
		store:   store,
		reviews: jsonstore.Load(ctx, store, repoargs.ReviewsResource, func() []domain.Review { return []domain.Review{} }),
	}
}

func (r *ReviewRepository) CreateReview(ctx context.Context, review domain.Review) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if review.ID == "" {
		review.ID = newID()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = now()
	}
	r.reviews = append(r.reviews, review)
	persist(ctx, r.store, repoargs.ReviewsResource, r.reviews)

	return &review, nil
}

// GetByRestaurantID отзывы ресторана, новые первыми.
func (r *ReviewRepository) GetByRestaurantID(_ context.Context, restaurantID string) ([]domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var reviews = make([]domain.Review, 0)
	for _, review := range r.reviews {
		if review.RestaurantID == restaurantID {
			reviews = append(reviews, review)
		}
	}
	slices.SortStableFunc(reviews, func(a, b domain.Review) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return reviews, nil
}

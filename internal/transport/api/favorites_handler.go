package api

import (
	"context"
	"net/http"

	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/gin-gonic/gin"
)

type FavoritesHandler struct {
	favorites FavoriteServicer
}

func NewFavoritesHandler(favorites FavoriteServicer) *FavoritesHandler {
	return &FavoritesHandler{
		favorites: favorites,
	}
}

// Index GET RouteGroup + FavoritesRoute.
func (h *FavoritesHandler) Index(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	restaurants, err := h.favorites.List(ctx, getUserIDFromContext(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	if restaurants == nil {
		restaurants = []domain.Restaurant{}
	}
	respond(c, http.StatusOK, restaurants)
}

type FavoriteParams struct {
	RestaurantID string `binding:"required" json:"restaurantId"`
}

// Create POST RouteGroup + FavoritesRoute. Повторное добавление не ошибка.
func (h *FavoritesHandler) Create(c *gin.Context) {
	var params FavoriteParams
	if !bindJSON(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	restaurant, err := h.favorites.Add(ctx, getUserIDFromContext(c), params.RestaurantID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, restaurant)
}

// Delete DELETE RouteGroup + FavoriteRoute.
func (h *FavoritesHandler) Delete(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.favorites.Remove(ctx, getUserIDFromContext(c), c.Param("id")); err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"restaurantId": c.Param("id")})
}

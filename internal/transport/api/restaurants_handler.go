package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/fsdevblog/groph-eats/internal/service"
	"github.com/gin-gonic/gin"
)

type RestaurantsHandler struct {
	catalog CatalogServicer
}

func NewRestaurantsHandler(catalog CatalogServicer) *RestaurantsHandler {
	return &RestaurantsHandler{
		catalog: catalog,
	}
}

type CatalogParams struct {
	Category   string   `binding:"omitempty,max=100"                                        form:"category"`
	Cuisine    string   `binding:"omitempty,max=100"                                        form:"cuisine"`
	Query      string   `binding:"omitempty,max=200"                                        form:"q"`
	PriceRange string   `binding:"omitempty,max=64"                                         form:"priceRange"`
	MinRating  float64  `binding:"omitempty,min=0,max=5"                                    form:"minRating"`
	Latitude   *float64 `binding:"omitempty,latitude"                                       form:"lat"`
	Longitude  *float64 `binding:"omitempty,longitude"                                      form:"lng"`
	RadiusKm   float64  `binding:"omitempty,gt=0"                                           form:"radius"`
	SortBy     string   `binding:"omitempty,oneof=rating distance deliveryTime popularity" form:"sortBy"`
	Page       int      `binding:"omitempty,min=1"                                          form:"page"`
	Limit      int      `binding:"omitempty,min=1"                                          form:"limit"`
}

func (p CatalogParams) toQuery() service.CatalogQuery {
	var priceRanges []string
	for _, pr := range strings.Split(p.PriceRange, ",") {
		if pr = strings.TrimSpace(pr); pr != "" {
			priceRanges = append(priceRanges, pr)
		}
	}
	return service.CatalogQuery{
		Category:    p.Category,
		Cuisine:     p.Cuisine,
		Query:       p.Query,
		PriceRanges: priceRanges,
		MinRating:   p.MinRating,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		RadiusKm:    p.RadiusKm,
		SortBy:      service.SortKey(p.SortBy),
		Page:        p.Page,
		Limit:       p.Limit,
	}
}

// Index GET RouteGroup + RestaurantsRoute. Поиск по каталогу, для авторизованного юзера с пометкой избранных.
func (h *RestaurantsHandler) Index(c *gin.Context) {
	var params CatalogParams
	if !bindQuery(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	page, err := h.catalog.Search(ctx, getUserIDFromContext(c), params.toQuery())
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, page)
}

// Show GET RouteGroup + RestaurantRoute.
func (h *RestaurantsHandler) Show(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	restaurant, err := h.catalog.GetRestaurant(ctx, getUserIDFromContext(c), c.Param("id"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, restaurant)
}

// Menu GET RouteGroup + MenuRoute.
func (h *RestaurantsHandler) Menu(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	menu, err := h.catalog.GetMenu(ctx, c.Param("id"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, menu)
}

// Dish GET RouteGroup + DishRoute.
func (h *RestaurantsHandler) Dish(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	dish, err := h.catalog.GetDish(ctx, c.Param("id"), c.Param("dishId"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, dish)
}

// Reviews GET RouteGroup + ReviewsRoute. Новые первыми.
func (h *RestaurantsHandler) Reviews(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	reviews, err := h.catalog.GetReviews(ctx, c.Param("id"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, reviews)
}

type ReviewParams struct {
	Rating  int    `binding:"required,min=1,max=5"       json:"rating"`
	Comment string `binding:"omitempty,max_bytes=2000"   json:"comment"`
}

// AddReview POST RouteGroup + ReviewsRoute. Требует авторизации.
func (h *RestaurantsHandler) AddReview(c *gin.Context) {
	var params ReviewParams
	if !bindJSON(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	review, err := h.catalog.AddReview(ctx, getUserIDFromContext(c), c.Param("id"), service.AddReviewArgs{
		Rating:  params.Rating,
		Comment: params.Comment,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, review)
}

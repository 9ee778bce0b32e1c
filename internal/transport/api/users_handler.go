package api

import (
	"context"
	"net/http"

	"github.com/fsdevblog/groph-eats/internal/service"
	"github.com/gin-gonic/gin"
)

type UsersHandler struct {
	userService    UserServicer
	addressService AddressServicer
}

func NewUsersHandler(userService UserServicer, addressService AddressServicer) *UsersHandler {
	return &UsersHandler{
		userService:    userService,
		addressService: addressService,
	}
}

// Profile GET RouteGroup + ProfileRoute.
func (h *UsersHandler) Profile(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, err := h.userService.GetProfile(ctx, getUserIDFromContext(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, newUserResponse(user))
}

// UpdateProfileParams незаданные поля не меняются.
type UpdateProfileParams struct {
	Name   *string `binding:"omitempty,min=1,max=100" json:"name"`
	Phone  *string `binding:"omitempty,max=32"        json:"phone"`
	Avatar *string `binding:"omitempty,max=2048"      json:"avatar"`
}

// UpdateProfile PUT RouteGroup + ProfileRoute.
func (h *UsersHandler) UpdateProfile(c *gin.Context) {
	var params UpdateProfileParams
	if !bindJSON(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, err := h.userService.UpdateProfile(ctx, getUserIDFromContext(c), service.UpdateProfileArgs{
		Name:   params.Name,
		Phone:  params.Phone,
		Avatar: params.Avatar,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, newUserResponse(user))
}

type AddressParams struct {
	Label        string  `binding:"required,max=50"            json:"label"`
	Street       string  `binding:"required,max=255"           json:"street"`
	Apartment    string  `binding:"omitempty,max=50"           json:"apartment"`
	City         string  `binding:"required,max=100"           json:"city"`
	State        string  `binding:"omitempty,max=100"          json:"state"`
	ZipCode      string  `binding:"omitempty,max=20"           json:"zipCode"`
	Latitude     float64 `binding:"latitude"                   json:"latitude"`
	Longitude    float64 `binding:"longitude"                  json:"longitude"`
	Instructions string  `binding:"omitempty,max_bytes=500"    json:"instructions"`
	IsDefault    bool    `json:"isDefault"`
}

func (p AddressParams) toArgs() service.AddressArgs {
	return service.AddressArgs{
		Label:        p.Label,
		Street:       p.Street,
		Apartment:    p.Apartment,
		City:         p.City,
		State:        p.State,
		ZipCode:      p.ZipCode,
		Latitude:     p.Latitude,
		Longitude:    p.Longitude,
		Instructions: p.Instructions,
		IsDefault:    p.IsDefault,
	}
}

// Addresses GET RouteGroup + AddressesRoute.
func (h *UsersHandler) Addresses(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	addresses, err := h.addressService.List(ctx, getUserIDFromContext(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, addresses)
}

// AddAddress POST RouteGroup + AddressesRoute.
func (h *UsersHandler) AddAddress(c *gin.Context) {
	var params AddressParams
	if !bindJSON(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	address, err := h.addressService.Add(ctx, getUserIDFromContext(c), params.toArgs())
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, address)
}

// UpdateAddress PUT RouteGroup + AddressRoute.
func (h *UsersHandler) UpdateAddress(c *gin.Context) {
	var params AddressParams
	if !bindJSON(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	address, err := h.addressService.Update(ctx, getUserIDFromContext(c), c.Param("id"), params.toArgs())
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, address)
}

// DeleteAddress DELETE RouteGroup + AddressRoute.
func (h *UsersHandler) DeleteAddress(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.addressService.Delete(ctx, getUserIDFromContext(c), c.Param("id")); err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": c.Param("id")})
}

// SetDefaultAddress PATCH RouteGroup + DefaultAddressRoute.
func (h *UsersHandler) SetDefaultAddress(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	address, err := h.addressService.SetDefault(ctx, getUserIDFromContext(c), c.Param("id"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, address)
}

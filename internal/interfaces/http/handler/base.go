// Package handler contains the HTTP resources of the storefront API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/erp/storefront/internal/domain/access"
	"github.com/erp/storefront/internal/domain/shared"
	"github.com/erp/storefront/internal/infrastructure/logger"
	"github.com/erp/storefront/internal/interfaces/http/dto"
	"github.com/erp/storefront/internal/interfaces/http/middleware"
	"github.com/erp/storefront/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Resource is an HTTP resource: a named route group guarded by access rules.
// Validation lives in the request DTOs, persistence in the application
// services and serialization in their response converters.
type Resource interface {
	// Name names the route group, e.g. "customers"
	Name() string
	// Prefix is the mount path below the API base
	Prefix() string
	// Rules is the access policy for each action of the resource
	Rules() access.Rules
	// RegisterRoutes adds the resource routes to its group
	RegisterRoutes(g *router.DomainGroup)
}

// Mount registers each resource as its own domain group
func Mount(r *router.Router, resources ...Resource) []*router.DomainGroup {
	groups := make([]*router.DomainGroup, 0, len(resources))
	for _, res := range resources {
		g := router.NewDomainGroup(res.Name(), res.Prefix())
		res.RegisterRoutes(g)
		r.Register(g)
		groups = append(groups, g)
	}
	return groups
}

// guard returns the authorization middleware for one action of a resource
func guard(res Resource, action access.Action) gin.HandlerFunc {
	return middleware.Authorize(res.Rules(), action)
}

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	return c.GetString(middleware.RequestIDKey)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// ValidationError sends a 400 validation error response with details
func (h *BaseHandler) ValidationError(c *gin.Context, message string, details []dto.ValidationDetail) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(message, getRequestID(c), details))
}

// HandleError converts an application error into a response.
// Domain errors keep their message; anything else is logged and hidden behind a 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		if domainErr.Field != "" {
			h.ValidationError(c, domainErr.Message, []dto.ValidationDetail{
				{Field: domainErr.Field, Message: domainErr.Message},
			})
			return
		}
		code := dto.NormalizeErrorCode(domainErr.Code)
		h.Error(c, dto.GetHTTPStatus(code), code, domainErr.Message)
		return
	}

	logger.FromContext(c.Request.Context()).Error("Unhandled error",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	_ = c.Error(err)
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
}

// bindJSON decodes the body into req and writes the 400 response when it cannot
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.rejectInput(c, err)
		return false
	}
	return true
}

// bindQuery decodes query parameters into req and writes the 400 response when it cannot
func (h *BaseHandler) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		h.rejectInput(c, err)
		return false
	}
	return true
}

func (h *BaseHandler) rejectInput(c *gin.Context, err error) {
	if details := middleware.ValidationDetails(err); details != nil {
		h.ValidationError(c, "Request validation failed", details)
		return
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		h.ValidationError(c, "Request validation failed", []dto.ValidationDetail{
			{Field: typeErr.Field, Message: "Must be of type " + typeErr.Type.String()},
		})
		return
	}

	h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Malformed request body")
}

// pathID parses a UUID path parameter, answering 404 when it is not one
func (h *BaseHandler) pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, "Not found")
		return uuid.Nil, false
	}
	return id, true
}

// page mirrors the defaults the application services apply
func page(p, size int) (int, int) {
	if p <= 0 {
		p = 1
	}
	if size <= 0 {
		size = 10
	}
	return p, size
}

package controllers

import (
	"context"

	"github.com/go-chi/chi/v5"
)

func routeCtxWithParam(ctx context.Context, key, value string) context.Context {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
}

package router

import (
	"go-auth-api/handler"
	"go-auth-api/model"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "go-auth-api/docs"
)

func NewRouter(authHandler *handler.AuthHandler, userHandler *handler.UserHandler, authMW *handler.AuthMiddleware) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /swagger/", httpSwagger.Handler())

	mux.Handle("POST /auth/signup", handler.ErrorHandlingMiddleware(authHandler.Signup))
	mux.Handle("POST /auth/login", handler.ErrorHandlingMiddleware(authHandler.Login))
	mux.Handle("POST /auth/refresh", handler.ErrorHandlingMiddleware(authHandler.Refresh))
	mux.Handle("POST /auth/logout", handler.ErrorHandlingMiddleware(authHandler.Logout))

	mux.Handle("GET /me", authMW.Handler(
		handler.ErrorHandlingMiddleware(userHandler.Me)))
	mux.Handle("GET /users", authMW.Handler(
		handler.RequireRole(model.RoleAdmin)(
			handler.ErrorHandlingMiddleware(userHandler.ListUsers))))

	return mux
}

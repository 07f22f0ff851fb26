package routers

import (
	"medrec-service/internal/app/delivery/http/controllers"
	"medrec-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachUserRoutes(router chi.Router, middlewares *middlewares.Middlewares, userController *controllers.UserController) {
	router.Use(middlewares.Authenticate)

	router.Get("/profile", userController.FindProfile)
	router.Get("/{user_id}/profile", userController.GetProfile)
}

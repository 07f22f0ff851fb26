package routers

import (
	"medrec-service/internal/app/delivery/http/controllers"
	"medrec-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachAuthRoutes(router chi.Router, middlewares *middlewares.Middlewares, authController *controllers.AuthController) {
	signInLimiter := middlewares.NewSignInRateLimiter()

	router.Post("/signup", authController.SignUp)
	router.With(signInLimiter.Limit).Post("/signin", authController.SignIn)
	router.With(middlewares.Authenticate).Get("/session", authController.GetSession)
	router.With(middlewares.Authenticate).Post("/signout", authController.SignOut)
}

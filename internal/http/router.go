package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tanvirrrhasan/TanvirEmart/internal/auth"
)

// NewRouter assembles the API surface with the shared middleware chain.
func NewRouter(
	issuer *auth.TokenIssuer,
	products *ProductHandler,
	carts *CartHandler,
	checkouts *CheckoutHandler,
	ordersH *OrdersHandler,
	authH *AuthHandler,
	nav *NavHandler,
	requestTimeout time.Duration,
) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(SessionIDMiddleware)
	r.Use(AuthMiddleware(issuer))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", products.ListProducts)
			r.Get("/search", products.Search)
			r.Get("/suggest", products.Suggest)
			r.Get("/{id}", products.GetProduct)
		})
		r.Get("/categories", products.ListCategories)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", carts.GetCart)
			r.Post("/items", carts.AddItem)
			r.Put("/items", carts.UpdateQuantity)
			r.Delete("/items", carts.RemoveItem)
			r.Post("/items/toggle", carts.ToggleSelected)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/stage", checkouts.Stage)
			r.Get("/context", checkouts.Context)
			r.Delete("/context", checkouts.Cancel)
			r.Post("/submit", checkouts.Submit)
		})

		r.Get("/orders", ordersH.History)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/provider", authH.ProviderSignIn)
			r.Post("/otp/send", authH.SendCode)
			r.Post("/otp/verify", authH.VerifyCode)
			r.Delete("/otp", authH.CancelChallenge)
			r.Post("/signout", authH.SignOut)
			r.Get("/profile", authH.GetProfile)
			r.Patch("/profile", authH.UpdateProfile)
		})

		r.Route("/nav", func(r chi.Router) {
			r.Post("/scroll", nav.SaveScroll)
			r.Get("/scroll", nav.GetScroll)
			r.Post("/return-to", nav.SetReturnTo)
			r.Post("/return-to/take", nav.TakeReturnTo)
			r.Post("/product-return-to", nav.SetProductReturnTo)
			r.Post("/product-return-to/take", nav.TakeProductReturnTo)
		})
	})

	return r
}

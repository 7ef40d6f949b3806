package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
	"github.com/rs/cors"
)

func (app *application) JWTMiddlewareWithRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return app.JWTMiddleware(next, requiredRole)
	}
}

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	authMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole("user"))
	adminAuthMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole("admin"))

	mux := pat.New()

	// Auth
	mux.Post("/user/sign_in", standardMiddleware.ThenFunc(app.userHandler.SignIn))

	// Company profile
	mux.Get("/company", authMiddleware.ThenFunc(app.companyHandler.GetCompany))

	// Payments
	mux.Post("/payment", authMiddleware.ThenFunc(app.paymentHandler.CreatePayment))
	mux.Get("/payment/summary", authMiddleware.ThenFunc(app.paymentHandler.GetSummary))
	mux.Get("/payment/:id", authMiddleware.ThenFunc(app.paymentHandler.GetPaymentByID))
	mux.Get("/payment", authMiddleware.ThenFunc(app.paymentHandler.GetPayments))
	mux.Put("/payment/:id", authMiddleware.ThenFunc(app.paymentHandler.UpdatePayment))
	mux.Del("/payment/:id", authMiddleware.ThenFunc(app.paymentHandler.DeletePayment))
	mux.Post("/payment/filtered", authMiddleware.ThenFunc(app.paymentHandler.GetFilteredPayments))

	// Clients
	mux.Post("/client", authMiddleware.ThenFunc(app.clientHandler.CreateClient))
	mux.Get("/client/:id", authMiddleware.ThenFunc(app.clientHandler.GetClientByID))
	mux.Get("/client", authMiddleware.ThenFunc(app.clientHandler.GetClients))
	mux.Put("/client/:id", authMiddleware.ThenFunc(app.clientHandler.UpdateClient))
	mux.Del("/client/:id", authMiddleware.ThenFunc(app.clientHandler.DeleteClient))

	// Notification settings and history
	mux.Get("/notification_settings", authMiddleware.ThenFunc(app.settingsHandler.GetSettings))
	mux.Put("/notification_settings", authMiddleware.ThenFunc(app.settingsHandler.SaveSettings))
	mux.Get("/notifications", authMiddleware.ThenFunc(app.notificationHandler.GetNotifications))
	mux.Post("/notifications/run", adminAuthMiddleware.ThenFunc(app.notificationHandler.RunCycle))
	mux.Get("/webhook_events", authMiddleware.ThenFunc(app.webhookHandler.ListEvents))

	return mux
}

// handler composes the full server handler. The app-level CORS wrapper only
// covers the frontend routes: provider webhooks are mounted in front of it
// so the webhook handler's own wildcard CORS answers preflights from any
// origin.
func (app *application) handler(c *cors.Cors) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/inter-webhook", app.webhookHandler.InterWebhook)
	mux.HandleFunc("/asaas-webhook", app.webhookHandler.AsaasWebhook)
	mux.Handle("/", c.Handler(app.routes()))
	return mux
}

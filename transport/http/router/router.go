package router

import (
	"resort/internal/handlers/activity"
	"resort/internal/handlers/auth"
	"resort/internal/handlers/health"
	"resort/internal/handlers/newsletter"
	"resort/internal/handlers/notification"
	"resort/internal/handlers/reservation"
	"resort/internal/handlers/resource"
	"resort/internal/handlers/restaurant"
	"resort/internal/handlers/staff"
	"resort/internal/handlers/user"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Health       health.Handler
	Auth         auth.Handler
	User         user.Handler
	Resource     resource.Handler
	Reservation  reservation.Handler
	Activity     activity.Handler
	Restaurant   restaurant.Handler
	Staff        staff.Handler
	Notification notification.Handler
	Newsletter   newsletter.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Health.Router(routerGroup)
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Resource.Router(routerGroup)
		r.DomainHandlers.Reservation.Router(routerGroup)
		r.DomainHandlers.Activity.Router(routerGroup)
		r.DomainHandlers.Restaurant.Router(routerGroup)
		r.DomainHandlers.Staff.Router(routerGroup)
		r.DomainHandlers.Notification.Router(routerGroup)
		r.DomainHandlers.Newsletter.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}

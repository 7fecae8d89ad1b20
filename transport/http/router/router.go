package router

import (
	"gearshare/internal/handlers/auth"
	"gearshare/internal/handlers/comment"
	"gearshare/internal/handlers/item"
	"gearshare/internal/handlers/photo"
	"gearshare/internal/handlers/request"
	"gearshare/internal/handlers/reservation"
	"gearshare/internal/handlers/user"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth        auth.Handler
	User        user.Handler
	Item        item.Handler
	Reservation reservation.Handler
	Comment     comment.Handler
	Request     request.Handler
	Photo       photo.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Item.Router(routerGroup)
		r.DomainHandlers.Reservation.Router(routerGroup)
		r.DomainHandlers.Comment.Router(routerGroup)
		r.DomainHandlers.Request.Router(routerGroup)
		r.DomainHandlers.Photo.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}

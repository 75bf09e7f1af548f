package newsletter

import (
	"net/http"

	"resort/infras/otel"
	"resort/internal/domains/newsletter/model"
	"resort/internal/domains/newsletter/model/dto"
	"resort/internal/domains/newsletter/service"
	"resort/shared"
	"resort/shared/constant"
	gDto "resort/shared/dto"
	"resort/shared/validator"
	"resort/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Newsletter
	otel    otel.Otel
}

func New(service service.Newsletter, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/newsletter", func(routerGroup chi.Router) {
		routerGroup.Post("/subscribe", handler.Subscribe)
		routerGroup.Post("/unsubscribe", handler.Unsubscribe)
		routerGroup.Get("/subscribers", handler.GetSubscribers)
	})
}

// Subscribe adds an address to the newsletter. Subscribing twice is not an error.
// @Summary Subscribe to the newsletter
// @Tags Newsletter
// @Accept json
// @Produce json
// @Param request body dto.SubscribeRequest true "Subscribe Request"
// @Success 200 {object} response.Data[dto.SubscribeResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/newsletter/subscribe [post]
func (handler *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Subscribe")
	defer scope.End()

	req := dto.SubscribeRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.service.Subscribe(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to subscribe to newsletter")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// Unsubscribe removes an address using the token sent with every newsletter.
// @Summary Unsubscribe from the newsletter
// @Tags Newsletter
// @Accept json
// @Produce json
// @Param request body dto.UnsubscribeRequest true "Unsubscribe Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/newsletter/unsubscribe [post]
func (handler *Handler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Unsubscribe")
	defer scope.End()

	req := dto.UnsubscribeRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err := handler.service.Unsubscribe(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to unsubscribe from newsletter")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Unsubscribed successfully")
}

// GetSubscribers lists newsletter subscribers for the back office.
// @Summary Get newsletter subscribers
// @Tags Newsletter
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param email query string false "Filter by email"
// @Param subscribed query boolean false "Filter by subscription state"
// @Success 200 {object} response.Data[dto.GetSubscribersResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/newsletter/subscribers [get]
// @Security BearerAuth
func (handler *Handler) GetSubscribers(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSubscribers")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filter := dto.SubscriberFilter{
		Email:      r.URL.Query().Get(model.FieldEmail),
		Subscribed: shared.ConvertStringToBool(r.URL.Query().Get(model.FieldSubscribed)),
	}

	if err := validator.ValidateStruct(&filter); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.service.GetAll(ctx, queryParams, filter.ToFilterGroup())
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get newsletter subscribers")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

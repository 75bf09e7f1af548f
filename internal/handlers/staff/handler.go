package staff

import (
	"net/http"

	"resort/infras/otel"
	"resort/internal/domains/staff/model"
	"resort/internal/domains/staff/model/dto"
	"resort/internal/domains/staff/service"
	"resort/shared"
	"resort/shared/constant"
	"resort/shared/failure"
	"resort/shared/validator"
	"resort/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const formPhoto = "photo"

type Handler struct {
	service service.Member
	otel    otel.Otel
}

func New(service service.Member, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/staff", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateMember)
		routerGroup.Get("/", handler.GetMembers)
		routerGroup.Get("/{id}", handler.GetMemberByID)
		routerGroup.Patch("/{id}", handler.UpdateMember)
		routerGroup.Delete("/{id}", handler.DeleteMember)
	})
}

// CreateMember adds someone to the public staff roster.
// @Summary Create a staff member
// @Tags Staff
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Full name"
// @Param position formData string true "Position"
// @Param department formData string false "Department"
// @Param bio formData string false "Short biography"
// @Param display_order formData integer false "Position in the roster"
// @Param active formData boolean false "Shown on the public roster"
// @Param photo formData file false "Photo"
// @Success 201 {object} response.Data[dto.MemberResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/staff [post]
// @Security BearerAuth
func (handler *Handler) CreateMember(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateMember")
	defer scope.End()

	if err := request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(writer, failure.BadRequest(err))

		return
	}

	req := dto.CreateMemberRequest{
		Name:       request.FormValue(model.FieldName),
		Position:   request.FormValue(model.FieldPosition),
		Department: request.FormValue(model.FieldDepartment),
		Bio:        request.FormValue("bio"),
		Active:     shared.ConvertStringToBool(request.FormValue(model.FieldActive)),
	}

	if orderStr := request.FormValue(model.FieldDisplayOrder); orderStr != "" {
		order, err := shared.ConvertStringToInt(orderStr)
		if err != nil {
			response.WithError(writer, failure.BadRequestFromString("display_order must be a number"))

			return
		}

		req.DisplayOrder = order
	}

	file, fileHeader, err := request.FormFile(formPhoto)
	if err == nil {
		req.Photo = fileHeader
		req.PhotoFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create staff member")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Staff member created successfully by user " + user)

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetMembers lists the roster in display order.
// @Summary Get the staff roster
// @Tags Staff
// @Produce json
// @Param page query integer false "Page" default(1)
// @Param limit query integer false "Page size" default(10)
// @Param sort_by query string false "Sort column" default(display_order)
// @Param sort_dir query string false "Sort direction" Enums(ASC, DESC) default(ASC)
// @Param department query string false "Filter by department"
// @Param active query boolean false "Filter by active status (staff only)"
// @Success 200 {object} response.Data[dto.GetMembersResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/staff [get]
func (handler *Handler) GetMembers(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMembers")
	defer scope.End()

	queryParams := dto.RosterParams()
	queryParams.FromRequest(r, true)

	filter := dto.MemberFilter{
		Department: r.URL.Query().Get(model.FieldDepartment),
		Active:     shared.ConvertStringToBool(r.URL.Query().Get(model.FieldActive)),
	}

	if err := validator.ValidateStruct(&filter); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	members, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get staff members")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, members)
}

// GetMemberByID retrieves a staff member.
// @Summary Get a staff member by ID
// @Tags Staff
// @Produce json
// @Param id path string true "Staff member ID"
// @Success 200 {object} response.Data[dto.MemberResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/staff/{id} [get]
func (handler *Handler) GetMemberByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMemberByID")
	defer scope.End()

	res, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get staff member")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// UpdateMember updates a staff member. Sending a photo replaces the previous one.
// @Summary Update a staff member
// @Tags Staff
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Staff member ID"
// @Param name formData string false "Full name"
// @Param position formData string false "Position"
// @Param department formData string false "Department"
// @Param bio formData string false "Short biography"
// @Param display_order formData integer false "Position in the roster"
// @Param active formData boolean false "Shown on the public roster"
// @Param photo formData file false "Photo"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/staff/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateMember")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(w, failure.BadRequest(err))

		return
	}

	req := dto.UpdateMemberRequest{
		Name:       r.FormValue(model.FieldName),
		Position:   r.FormValue(model.FieldPosition),
		Department: r.FormValue(model.FieldDepartment),
		Bio:        r.FormValue("bio"),
		Active:     shared.ConvertStringToBool(r.FormValue(model.FieldActive)),
	}

	if orderStr := r.FormValue(model.FieldDisplayOrder); orderStr != "" {
		order, err := shared.ConvertStringToInt(orderStr)
		if err != nil {
			response.WithError(w, failure.BadRequestFromString("display_order must be a number"))

			return
		}

		req.DisplayOrder = &order
	}

	file, fileHeader, err := r.FormFile(formPhoto)
	if err == nil {
		req.Photo = fileHeader
		req.PhotoFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update staff member")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Staff member updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Staff member updated successfully")
}

// DeleteMember removes a staff member and their photo.
// @Summary Delete a staff member
// @Tags Staff
// @Produce json
// @Param id path string true "Staff member ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/staff/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteMember")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete staff member")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Staff member deleted successfully")
}

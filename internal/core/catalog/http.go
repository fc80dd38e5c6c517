package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "fillytrackr/internal/platform/request"
	"fillytrackr/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the catalog endpoints. The kind segment is one of
// brand, color, type or subtype.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/{kind}", handler.listEntities)
	router.Post("/{kind}", handler.createEntity)
}

func (handler *Handler) listEntities(writer http.ResponseWriter, request *http.Request) {
	kind, err := ParseKind(requestutil.Param(request, "kind"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entities, err := handler.service.List(request.Context(), kind)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, entities)
}

func (handler *Handler) createEntity(writer http.ResponseWriter, request *http.Request) {
	kind, err := ParseKind(requestutil.Param(request, "kind"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.service.Create(request.Context(), kind, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, entity)
}

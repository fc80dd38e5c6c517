package spool

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fillytrackr/internal/platform/apperr"
	requestutil "fillytrackr/internal/platform/request"
	"fillytrackr/internal/platform/respond"
	"fillytrackr/pkg/convert"
	"fillytrackr/pkg/pagination"
	"fillytrackr/pkg/query"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/", handler.createRolls)
	router.Get("/", handler.listRolls)
	router.Get("/grouped", handler.listGrouped)

	router.Get("/{id}", handler.getRoll)
	router.Post("/{id}/duplicate", handler.duplicateRoll)
	router.Post("/{id}/open", handler.openRoll)
	router.Patch("/{id}/weight", handler.updateWeight)
	router.Put("/{id}/in-use", handler.setInUse)
}

// criteriaFromRequest maps query parameters onto filter criteria. Malformed
// values are treated as absent rather than rejected.
func criteriaFromRequest(request *http.Request) Criteria {
	values := request.URL.Query()
	return Criteria{
		BrandID:           query.OptionalInt(values, "brand_id"),
		ColorID:           query.OptionalInt(values, "color_id"),
		TypeID:            query.OptionalInt(values, "type_id"),
		SubtypeID:         query.OptionalInt(values, "subtype_id"),
		OpenedOnly:        convert.ToBool(values.Get("opened_only")),
		InUseOnly:         convert.ToBool(values.Get("in_use_only")),
		IncludeZeroWeight: convert.ToBool(values.Get("include_zero_weight")),
	}
}

func (handler *Handler) createRolls(writer http.ResponseWriter, request *http.Request) {
	var input CreateRollsInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	rolls, err := handler.service.CreateRolls(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, rolls)
}

func (handler *Handler) listRolls(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	criteria := criteriaFromRequest(request)

	rolls, total, err := handler.service.Query(request.Context(), criteria, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, rolls, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) listGrouped(writer http.ResponseWriter, request *http.Request) {
	views, err := handler.service.QueryGrouped(request.Context(), criteriaFromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, views)
}

func (handler *Handler) getRoll(writer http.ResponseWriter, request *http.Request) {
	rollID, err := requestutil.IntID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	roll, err := handler.service.GetRoll(request.Context(), rollID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, roll)
}

func (handler *Handler) duplicateRoll(writer http.ResponseWriter, request *http.Request) {
	rollID, err := requestutil.IntID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// The override body is optional entirely
	var input struct {
		OriginalWeightGrams *float64 `json:"original_weight_grams"`
	}
	if request.ContentLength != 0 {
		if err := requestutil.DecodeJSON(request, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	roll, err := handler.service.DuplicateRoll(request.Context(), rollID, input.OriginalWeightGrams)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, roll)
}

func (handler *Handler) openRoll(writer http.ResponseWriter, request *http.Request) {
	rollID, err := requestutil.IntID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	roll, err := handler.service.OpenRoll(request.Context(), rollID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, roll)
}

func (handler *Handler) updateWeight(writer http.ResponseWriter, request *http.Request) {
	rollID, err := requestutil.IntID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var change WeightChange
	if err := requestutil.DecodeJSON(request, &change); err != nil {
		respond.Error(writer, request, err)
		return
	}

	roll, err := handler.service.UpdateWeight(request.Context(), rollID, change)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, roll)
}

func (handler *Handler) setInUse(writer http.ResponseWriter, request *http.Request) {
	rollID, err := requestutil.IntID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input struct {
		InUse *bool `json:"in_use"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if input.InUse == nil {
		respond.Error(writer, request, apperr.ValidationError("in_use is required"))
		return
	}

	roll, err := handler.service.SetInUse(request.Context(), rollID, *input.InUse)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, roll)
}

package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Dosada05/sports-api/resources"
	"github.com/Dosada05/sports-api/services"
)

const maxLogoBytes = 5 << 20 // 5MB

// Тела запросов приходят в той же обёртке, что и ответы: {"sports": {...}}.
type createSportRequest struct {
	Sports *services.CreateSportInput `json:"sports"`
}

type updateSportRequest struct {
	Sports *services.UpdateSportInput `json:"sports"`
}

var errMissingEnvelope = fmt.Errorf("body must contain a %q object", resources.SportRootKey)

type SportHandler struct {
	sportService services.SportService
}

func NewSportHandler(ss services.SportService) *SportHandler {
	return &SportHandler{
		sportService: ss,
	}
}

// CreateSport godoc
// @Summary      Create a sport
// @Tags         sports
// @Accept       json
// @Produce      json
// @Param        body  body      createSportRequest  true  "Sport attributes"
// @Success      201   {object}  resources.Document
// @Failure      400,401,403,409,422  {object}  jsonResponse
// @Router       /sports [post]
func (h *SportHandler) CreateSport(w http.ResponseWriter, r *http.Request) {
	var req createSportRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if req.Sports == nil {
		badRequestResponse(w, r, errMissingEnvelope)
		return
	}

	sport, err := h.sportService.CreateSport(r.Context(), *req.Sports)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	headers := http.Header{}
	headers.Set("Location", fmt.Sprintf("/sports/%d", sport.ID))
	if err := writeJSON(w, http.StatusCreated, resources.SerializeSport(*sport), headers); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetSportByID godoc
// @Summary      Show a sport
// @Tags         sports
// @Produce      json
// @Param        sportID  path      int  true  "Sport ID"
// @Success      200      {object}  resources.Document
// @Failure      400,404  {object}  jsonResponse
// @Router       /sports/{sportID} [get]
func (h *SportHandler) GetSportByID(w http.ResponseWriter, r *http.Request) {
	sportID, err := getIDFromURL(r, "sportID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	sport, err := h.sportService.GetSportByID(r.Context(), sportID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, resources.SerializeSport(*sport), nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetAllSports godoc
// @Summary      List sports
// @Tags         sports
// @Produce      json
// @Success      200  {object}  resources.Document
// @Router       /sports [get]
func (h *SportHandler) GetAllSports(w http.ResponseWriter, r *http.Request) {
	sports, err := h.sportService.GetAllSports(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, resources.SerializeSports(sports), nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateSport godoc
// @Summary      Update a sport
// @Tags         sports
// @Accept       json
// @Produce      json
// @Param        sportID  path      int                 true  "Sport ID"
// @Param        body     body      updateSportRequest  true  "Changed attributes"
// @Success      200      {object}  resources.Document
// @Failure      400,401,403,404,409,422  {object}  jsonResponse
// @Router       /sports/{sportID} [put]
func (h *SportHandler) UpdateSport(w http.ResponseWriter, r *http.Request) {
	sportID, err := getIDFromURL(r, "sportID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req updateSportRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if req.Sports == nil {
		badRequestResponse(w, r, errMissingEnvelope)
		return
	}

	updatedSport, err := h.sportService.UpdateSport(r.Context(), sportID, *req.Sports)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, resources.SerializeSport(*updatedSport), nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteSport godoc
// @Summary      Delete a sport
// @Tags         sports
// @Param        sportID  path  int  true  "Sport ID"
// @Success      204
// @Failure      400,401,403,404  {object}  jsonResponse
// @Router       /sports/{sportID} [delete]
func (h *SportHandler) DeleteSport(w http.ResponseWriter, r *http.Request) {
	sportID, err := getIDFromURL(r, "sportID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.sportService.DeleteSport(r.Context(), sportID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadSportLogoHandler godoc
// @Summary      Upload a sport logo
// @Tags         sports
// @Accept       multipart/form-data
// @Produce      json
// @Param        sportID  path      int   true  "Sport ID"
// @Param        logo     formData  file  true  "Logo image"
// @Success      200      {object}  resources.Document
// @Failure      400,401,403,404,422,503  {object}  jsonResponse
// @Router       /sports/{sportID}/logo [put]
func (h *SportHandler) UploadSportLogoHandler(w http.ResponseWriter, r *http.Request) {
	sportID, err := getIDFromURL(r, "sportID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxLogoBytes)
	if err := r.ParseMultipartForm(maxLogoBytes); err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to parse multipart form: %w", err))
		return
	}

	file, header, err := r.FormFile("logo")
	if err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to get logo file from form: %w", err))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		badRequestResponse(w, r, errors.New("content-type header is required for logo"))
		return
	}

	sport, err := h.sportService.UploadSportLogo(r.Context(), sportID, file, contentType)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, resources.SerializeSport(*sport), nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

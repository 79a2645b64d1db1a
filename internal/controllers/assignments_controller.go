package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/anuruddha96/hotelcare-backend/internal/dtos"
	"github.com/anuruddha96/hotelcare-backend/internal/middleware"
	"github.com/anuruddha96/hotelcare-backend/internal/queue"
	"github.com/anuruddha96/hotelcare-backend/internal/services"
	"github.com/anuruddha96/hotelcare-backend/internal/utils"
)

var validate = validator.New()

type AssignmentsController struct {
	svc *services.HousekeepingService
}

func NewAssignmentsController(svc *services.HousekeepingService) *AssignmentsController {
	return &AssignmentsController{svc: svc}
}

// ----------------------------------------------------------------
// GET /api/v1/assignments/queue?view=compact
// ----------------------------------------------------------------
func (c *AssignmentsController) QueueHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	staffID, ok := staffIDFromContext(w, r)
	if !ok {
		return
	}

	mode := queue.ViewDesktop
	if r.URL.Query().Get("view") == string(queue.ViewCompact) {
		mode = queue.ViewCompact
	}

	resp, err := c.svc.ListMyQueue(ctx, staffID, mode)
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to list assignment queue")
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to load your queue", nil, err,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// ----------------------------------------------------------------
// POST /api/v1/assignments/start
// ----------------------------------------------------------------
func (c *AssignmentsController) StartHandler(w http.ResponseWriter, r *http.Request) {
	staffID, ok := staffIDFromContext(w, r)
	if !ok {
		return
	}
	body, ok := decodeActionRequest(w, r)
	if !ok {
		return
	}

	dto, err := c.svc.StartAssignment(r.Context(), staffID, body.AssignmentID)
	c.respond(w, dto, err, "Failed to start assignment")
}

// ----------------------------------------------------------------
// POST /api/v1/assignments/complete
// ----------------------------------------------------------------
func (c *AssignmentsController) CompleteHandler(w http.ResponseWriter, r *http.Request) {
	staffID, ok := staffIDFromContext(w, r)
	if !ok {
		return
	}
	body, ok := decodeActionRequest(w, r)
	if !ok {
		return
	}

	dto, err := c.svc.CompleteAssignment(r.Context(), staffID, body.AssignmentID)
	c.respond(w, dto, err, "Failed to complete assignment")
}

// ----------------------------------------------------------------
// POST /api/v1/assignments/cancel  (administrative override)
// ----------------------------------------------------------------
func (c *AssignmentsController) CancelHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := staffIDFromContext(w, r); !ok {
		return
	}
	body, ok := decodeActionRequest(w, r)
	if !ok {
		return
	}

	dto, err := c.svc.CancelAssignment(r.Context(), body.AssignmentID)
	c.respond(w, dto, err, "Failed to cancel assignment")
}

// ----------------------------------------------------------------
// POST /api/v1/assignments/photos
// ----------------------------------------------------------------
func (c *AssignmentsController) PhotosHandler(w http.ResponseWriter, r *http.Request) {
	staffID, ok := staffIDFromContext(w, r)
	if !ok {
		return
	}

	var body dtos.PhotoCaptureRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON for photo payload", nil, err,
		)
		return
	}
	if err := validate.Struct(body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, err.Error(), nil, nil,
		)
		return
	}

	dto, err := c.svc.AppendPhotos(r.Context(), staffID, body.AssignmentID, body.PhotoRefs)
	c.respond(w, dto, err, "Failed to record photos")
}

// ----------------------------------------------------------------
// POST /api/v1/assignments/dnd/mark
// ----------------------------------------------------------------
func (c *AssignmentsController) DNDMarkHandler(w http.ResponseWriter, r *http.Request) {
	staffID, ok := staffIDFromContext(w, r)
	if !ok {
		return
	}

	var body dtos.DNDMarkRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON for DND mark payload", nil, err,
		)
		return
	}
	if err := validate.Struct(body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, err.Error(), nil, nil,
		)
		return
	}

	dto, err := c.svc.MarkDND(r.Context(), staffID, body.AssignmentID, body.PhotoRefs, nil)
	c.respond(w, dto, err, "Failed to mark room Do-Not-Disturb")
}

// ----------------------------------------------------------------
// POST /api/v1/assignments/dnd/retrieve
// ----------------------------------------------------------------
func (c *AssignmentsController) DNDRetrieveHandler(w http.ResponseWriter, r *http.Request) {
	staffID, ok := staffIDFromContext(w, r)
	if !ok {
		return
	}
	body, ok := decodeActionRequest(w, r)
	if !ok {
		return
	}

	dto, err := c.svc.RetrieveDND(r.Context(), staffID, body.AssignmentID)
	c.respond(w, dto, err, "Failed to retrieve DND room")
}

// respond maps service results to HTTP. Policy rejections carry precise
// codes so the apps can render an actionable message; infrastructure
// failures render a generic retry prompt.
func (c *AssignmentsController) respond(w http.ResponseWriter, dto *dtos.AssignmentDTO, err error, genericMsg string) {
	if err == nil {
		if dto == nil {
			utils.RespondErrorWithCode(
				w, http.StatusNotFound, utils.ErrCodeNotFound, "Assignment not found", nil, nil,
			)
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, dto)
		return
	}

	var conflictErr *utils.ActiveTaskConflictError
	var versionErr *utils.RowVersionConflictError
	switch {
	case errors.As(err, &conflictErr):
		utils.RespondErrorWithCode(
			w, http.StatusConflict, utils.ErrCodeAlreadyWorking,
			"Finish your current room first: "+conflictErr.RoomNumber,
			map[string]string{"room_number": conflictErr.RoomNumber}, nil,
		)
	case errors.As(err, &versionErr):
		utils.RespondErrorWithCode(
			w, http.StatusConflict, utils.ErrCodeRowVersionConflict,
			"The assignment changed underneath you; refresh and retry",
			versionErr.Current, nil,
		)
	case errors.Is(err, utils.ErrNotCheckedIn):
		utils.RespondErrorWithCode(
			w, http.StatusForbidden, utils.ErrCodeNotCheckedIn,
			"You are not checked in today", nil, nil,
		)
	case errors.Is(err, utils.ErrOnBreak):
		utils.RespondErrorWithCode(
			w, http.StatusForbidden, utils.ErrCodeOnBreak,
			"You are on break; end your break to start working", nil, nil,
		)
	case errors.Is(err, utils.ErrPhotosRequired):
		utils.RespondErrorWithCode(
			w, http.StatusConflict, utils.ErrCodePhotosRequired,
			"Add at least one completion photo before finishing", nil, nil,
		)
	case errors.Is(err, utils.ErrNotDND):
		utils.RespondErrorWithCode(
			w, http.StatusConflict, utils.ErrCodeNotDND,
			"This room is not marked Do-Not-Disturb", nil, nil,
		)
	case errors.Is(err, utils.ErrNoPhotosProvided):
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeNoPhotosProvided,
			"Photographic evidence of the DND marker is required", nil, nil,
		)
	case errors.Is(err, utils.ErrEvidenceRejected):
		utils.RespondErrorWithCode(
			w, http.StatusConflict, utils.ErrCodeEvidenceRejected,
			"The DND evidence photo could not be verified", nil, nil,
		)
	case errors.Is(err, utils.ErrWrongStatus):
		utils.RespondErrorWithCode(
			w, http.StatusConflict, utils.ErrCodeWrongStatus,
			"The assignment is not in a state that allows this action", nil, nil,
		)
	case errors.Is(err, utils.ErrNotAssignedStaff), errors.Is(err, utils.ErrStaffNotActive):
		utils.RespondErrorWithCode(
			w, http.StatusForbidden, utils.ErrCodeUnauthorized,
			"This assignment does not belong to you", nil, nil,
		)
	default:
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			genericMsg+", please try again", nil, err,
		)
	}
}

func staffIDFromContext(w http.ResponseWriter, r *http.Request) (string, bool) {
	ctxUserID := r.Context().Value(middleware.ContextKeyUserID)
	if ctxUserID == nil {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
			"No userID in context", nil, nil,
		)
		return "", false
	}
	return ctxUserID.(string), true
}

func decodeActionRequest(w http.ResponseWriter, r *http.Request) (*dtos.AssignmentActionRequest, bool) {
	var body dtos.AssignmentActionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON for assignment action", nil, err,
		)
		return nil, false
	}
	if err := validate.Struct(body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, err.Error(), nil, nil,
		)
		return nil, false
	}
	return &body, true
}

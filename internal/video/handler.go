package video

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/clipdeck/video-api/internal/logger"
	"github.com/clipdeck/video-api/internal/response"
)

// Handler holds HTTP handlers for the video lifecycle endpoints.
type Handler struct {
	svc *Service
	log zerolog.Logger
}

// NewHandler creates a new video Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc, log: logger.Component("api")}
}

type uploadRequest struct {
	Title    string `json:"title"    example:"My vacation"`
	FileName string `json:"fileName" example:"vacation.mp4"`
}

type uploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileName  string `json:"fileName"`
	Message   string `json:"message"`
}

type confirmRequest struct {
	// FileName and ID name the same key; either field is accepted.
	FileName string `json:"fileName,omitempty" example:"vacation.mp4"`
	ID       string `json:"id,omitempty"       example:"vacation.mp4"`
	Title    string `json:"title,omitempty"    example:"My vacation"`
}

type confirmResponse struct {
	Message  string `json:"message"`
	FileName string `json:"fileName"`
}

type downloadResponse struct {
	ID               string `json:"id"`
	DownloadURL      string `json:"downloadUrl"`
	ExpiresInMinutes int    `json:"expiresInMinutes"`
}

type deleteResponse struct {
	Message     string `json:"message"`
	BlobDeleted bool   `json:"blobDeleted"`
}

// Health godoc
//
//	@Summary	Health check
//	@Tags		health
//	@Produce	plain
//	@Success	200	{string}	string	"Video API is running"
//	@Router		/ [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Video API is running"))
}

// RequestUpload godoc
//
//	@Summary		Request an upload URL
//	@Description	Issues a 10-minute write credential for the named file and records provisional metadata.
//	@Tags			videos
//	@Accept			json
//	@Produce		json
//	@Param			body	body		uploadRequest	true	"title and fileName"
//	@Success		200		{object}	uploadResponse
//	@Failure		400		{object}	response.ErrorBody
//	@Failure		500		{object}	response.ErrorBody
//	@Router			/upload-request [post]
func (h *Handler) RequestUpload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if req.Title == "" || req.FileName == "" {
		response.BadRequest(w, "missing title or fileName")
		return
	}

	grant, err := h.svc.RequestUpload(r.Context(), req.Title, req.FileName)
	if err != nil {
		h.writeError(w, err, "failed to generate upload link")
		return
	}

	response.OK(w, uploadResponse{
		UploadURL: grant.UploadURL,
		FileName:  grant.FileName,
		Message:   "upload URL generated and metadata stored",
	})
}

// ConfirmUpload godoc
//
//	@Summary		Confirm a completed upload
//	@Description	Marks the record as uploaded. Accepts the key as either fileName or id.
//	@Tags			videos
//	@Accept			json
//	@Produce		json
//	@Param			body	body		confirmRequest	true	"fileName (or id), optional title"
//	@Success		200		{object}	confirmResponse
//	@Failure		400		{object}	response.ErrorBody
//	@Failure		500		{object}	response.ErrorBody
//	@Router			/confirm-upload [post]
func (h *Handler) ConfirmUpload(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	key := req.FileName
	if key == "" {
		key = req.ID
	}
	if key == "" {
		response.BadRequest(w, "missing fileName (or id)")
		return
	}

	if _, err := h.svc.ConfirmUpload(r.Context(), key, req.Title); err != nil {
		h.writeError(w, err, "failed to confirm upload")
		return
	}

	response.OK(w, confirmResponse{
		Message:  "upload confirmed and metadata updated",
		FileName: key,
	})
}

// List godoc
//
//	@Summary	List all videos
//	@Tags		videos
//	@Produce	json
//	@Success	200	{array}		Video
//	@Failure	500	{object}	response.ErrorBody
//	@Router		/videos [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	videos, err := h.svc.List(r.Context())
	if err != nil {
		h.writeError(w, err, "failed to fetch videos")
		return
	}
	response.OK(w, videos)
}

// GetDownloadLink godoc
//
//	@Summary		Get a download URL
//	@Description	Issues a short-lived read credential; 404 unless both the metadata record and the object exist.
//	@Tags			videos
//	@Produce		json
//	@Param			id	path		string	true	"video id (object key)"
//	@Success		200	{object}	downloadResponse
//	@Failure		404	{object}	response.ErrorBody
//	@Failure		500	{object}	response.ErrorBody
//	@Router			/videos/{id}/download [get]
func (h *Handler) GetDownloadLink(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	grant, err := h.svc.GetDownloadLink(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "failed to generate download link")
		return
	}

	response.OK(w, downloadResponse{
		ID:               grant.ID,
		DownloadURL:      grant.DownloadURL,
		ExpiresInMinutes: grant.ExpiresInMinutes,
	})
}

// Delete godoc
//
//	@Summary		Delete a video
//	@Description	Best-effort delete of the object and its metadata record.
//	@Tags			videos
//	@Produce		json
//	@Param			id	path		string	true	"video id (object key)"
//	@Success		200	{object}	deleteResponse
//	@Failure		500	{object}	response.ErrorBody
//	@Router			/videos/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	blobDeleted, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "failed to delete video")
		return
	}

	response.OK(w, deleteResponse{
		Message:     "video deleted (metadata and blob where present)",
		BlobDeleted: blobDeleted,
	})
}

// writeError maps service failures onto the response taxonomy: missing
// configuration keeps its per-dependency message, not-found conditions
// become 404, and everything else is logged and collapsed into the
// operation's generic 500 message.
func (h *Handler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrStorageNotConfigured), errors.Is(err, ErrMetadataNotConfigured):
		response.InternalError(w, err.Error())
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "video not found")
	case errors.Is(err, ErrObjectNotFound):
		response.NotFound(w, "video file not found in storage")
	default:
		h.log.Error().Err(err).Msg(fallback)
		response.InternalError(w, fallback)
	}
}

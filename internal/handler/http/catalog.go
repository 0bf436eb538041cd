package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/musicverse/musicverse-backend-go/internal/domain/catalog"
	"github.com/musicverse/musicverse-backend-go/internal/handler/http/response"
)

type CatalogHandler interface {
	CreateTrack(w http.ResponseWriter, r *http.Request)
	GetTrack(w http.ResponseWriter, r *http.Request)
	ToggleLikeTrack(w http.ResponseWriter, r *http.Request)
	DownloadTrack(w http.ResponseWriter, r *http.Request)

	CreateAlbum(w http.ResponseWriter, r *http.Request)
	GetAlbum(w http.ResponseWriter, r *http.Request)
	ToggleSaveAlbum(w http.ResponseWriter, r *http.Request)

	CreatePlaylist(w http.ResponseWriter, r *http.Request)
	GetPlaylist(w http.ResponseWriter, r *http.Request)
	ToggleSavePlaylist(w http.ResponseWriter, r *http.Request)
}

type catalogHandlerImpl struct {
	tracks    catalog.TrackService
	albums    catalog.AlbumService
	playlists catalog.PlaylistService
}

func NewCatalogHandler(tracks catalog.TrackService, albums catalog.AlbumService, playlists catalog.PlaylistService) CatalogHandler {
	return &catalogHandlerImpl{
		tracks:    tracks,
		albums:    albums,
		playlists: playlists,
	}
}

// CreateTrack accepts multipart with a "data" field plus optional "cover" and "audio" files.
func (h *catalogHandlerImpl) CreateTrack(w http.ResponseWriter, r *http.Request) {
	var req catalog.CreateTrackRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	req.Cover = formUpload(r, "cover")
	req.Audio = formUpload(r, "audio")
	defer closeUploads(req.Cover, req.Audio)

	result, err := h.tracks.Create(r.Context(), getUserIDFromContext(r), req)
	if err != nil {
		slog.Error("CreateTrack service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Track created successfully", result)
}

func (h *catalogHandlerImpl) GetTrack(w http.ResponseWriter, r *http.Request) {
	result, err := h.tracks.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *catalogHandlerImpl) ToggleLikeTrack(w http.ResponseWriter, r *http.Request) {
	result, err := h.tracks.ToggleLike(r.Context(), getUserIDFromContext(r), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *catalogHandlerImpl) DownloadTrack(w http.ResponseWriter, r *http.Request) {
	result, err := h.tracks.Download(r.Context(), getUserIDFromContext(r), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *catalogHandlerImpl) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req catalog.CreateAlbumRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	req.Cover = formUpload(r, "cover")
	defer closeUploads(req.Cover)

	result, err := h.albums.Create(r.Context(), getUserIDFromContext(r), req)
	if err != nil {
		slog.Error("CreateAlbum service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Album created successfully", result)
}

func (h *catalogHandlerImpl) GetAlbum(w http.ResponseWriter, r *http.Request) {
	result, err := h.albums.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *catalogHandlerImpl) ToggleSaveAlbum(w http.ResponseWriter, r *http.Request) {
	result, err := h.albums.ToggleSave(r.Context(), getUserIDFromContext(r), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *catalogHandlerImpl) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var req catalog.CreatePlaylistRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	req.Cover = formUpload(r, "cover")
	defer closeUploads(req.Cover)

	result, err := h.playlists.Create(r.Context(), getUserIDFromContext(r), req)
	if err != nil {
		slog.Error("CreatePlaylist service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Playlist created successfully", result)
}

func (h *catalogHandlerImpl) GetPlaylist(w http.ResponseWriter, r *http.Request) {
	result, err := h.playlists.GetByID(r.Context(), getUserIDFromContext(r), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *catalogHandlerImpl) ToggleSavePlaylist(w http.ResponseWriter, r *http.Request) {
	result, err := h.playlists.ToggleSave(r.Context(), getUserIDFromContext(r), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

package httpapi

import (
	"io"
	"net/http"

	"restaurant_backoffice/internal/app"
	"restaurant_backoffice/internal/domain/asset"

	"github.com/gorilla/mux"
)

type ImageHandlers struct {
	service *app.ImageService
}

func NewImageHandlers(service *app.ImageService) *ImageHandlers {
	return &ImageHandlers{service: service}
}

func (h *ImageHandlers) Register(r *mux.Router) {
	r.HandleFunc("/images/folders", h.folders).Methods(http.MethodGet)
	r.HandleFunc("/images/move", h.move).Methods(http.MethodPost)
	r.HandleFunc("/images/{folder}", h.list).Methods(http.MethodGet)
	r.HandleFunc("/images/{folder}", h.upload).Methods(http.MethodPost)
	r.HandleFunc("/images/{folder}", h.remove).Methods(http.MethodDelete)
}

type folderResponse struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

func (h *ImageHandlers) folders(w http.ResponseWriter, r *http.Request) {
	out := make([]folderResponse, 0, len(asset.Folders))
	for _, f := range asset.Folders {
		out = append(out, folderResponse{Name: f, Label: h.service.Folders()[f]})
	}
	writeJSON(w, http.StatusOK, out)
}

type imageResponse struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	Folder     string `json:"folder"`
	Size       int64  `json:"size"`
	PublicURL  string `json:"public_url"`
	UsageCount int    `json:"usage_count"`
}

func toImageResponse(img *asset.Image) imageResponse {
	return imageResponse{
		Name:       img.Name,
		Path:       img.Path,
		Folder:     img.Folder,
		Size:       img.Size,
		PublicURL:  img.PublicURL,
		UsageCount: img.UsageCount,
	}
}

func (h *ImageHandlers) list(w http.ResponseWriter, r *http.Request) {
	images, err := h.service.ListFolder(r.Context(), mux.Vars(r)["folder"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]imageResponse, 0, len(images))
	for _, img := range images {
		out = append(out, toImageResponse(img))
	}
	writeJSON(w, http.StatusOK, out)
}

// upload accepts a multipart form with a "file" part and an optional
// "label" field used to derive the stored name.
func (h *ImageHandlers) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(asset.MaxUploadSize + 1024); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file part")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, asset.MaxUploadSize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	label := r.FormValue("label")
	if label == "" {
		label = header.Filename
	}

	img, err := h.service.Upload(r.Context(), mux.Vars(r)["folder"], label, header.Header.Get("Content-Type"), data)
	if err != nil {
		if err == app.ErrUnknownFolder {
			writeServiceError(w, err)
			return
		}
		// validation failures are client mistakes
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toImageResponse(img))
}

type moveImageRequest struct {
	FromFolder string `json:"from_folder" validate:"required"`
	Name       string `json:"name" validate:"required"`
	ToFolder   string `json:"to_folder" validate:"required"`
	NewName    string `json:"new_name" validate:"required"`
}

func (h *ImageHandlers) move(w http.ResponseWriter, r *http.Request) {
	var req moveImageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := h.service.Move(r.Context(), req.FromFolder, req.Name, req.ToFolder, req.NewName); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type removeImagesRequest struct {
	Names []string `json:"names" validate:"required,min=1"`
}

func (h *ImageHandlers) remove(w http.ResponseWriter, r *http.Request) {
	var req removeImagesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := h.service.Delete(r.Context(), mux.Vars(r)["folder"], req.Names); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

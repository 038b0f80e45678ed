package download

import (
	"mime"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/download/entity"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/httpx"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/resource"
)

// formOverhead is the allowance for multipart fields beside the file.
const formOverhead = 1 << 20

type Handler struct {
	resource.Handlers[entity.Download]
	Write    resource.WriteHandlers[entity.Input, entity.Download]
	Action   http.HandlerFunc
	svc      *Service
	logger   *zap.SugaredLogger
	maxBytes int64
}

func NewHandler(svc *Service, logger *zap.SugaredLogger, maxUpload int64) *Handler {
	return &Handler{
		Handlers: resource.Handlers[entity.Download]{
			Store:        svc.Store(),
			Logger:       logger,
			Key:          "downloads",
			DefaultLimit: entity.Table.DefaultLimit,
		},
		Write:    resource.WriteHandlers[entity.Input, entity.Download]{Writer: svc, Logger: logger, Key: "download"},
		Action:   resource.ActionHandler(logger, svc.Apply, resource.ActionDownload),
		svc:      svc,
		logger:   logger,
		maxBytes: maxUpload,
	}
}

// Create accepts JSON, or multipart/form-data with a "file" part that is
// stored before the row is written.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct != "multipart/form-data" {
		h.Write.Create(w, r)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+formOverhead)
	if err := r.ParseMultipartForm(formOverhead); err != nil {
		httpx.WriteError(w, h.logger, r, apperr.Invalid("file", "upload is too large or malformed"))
		return
	}
	defer r.MultipartForm.RemoveAll()
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.WriteError(w, h.logger, r, apperr.Required("file"))
		return
	}
	defer file.Close()

	in := entity.Input{
		Title:       formValue(r, "title"),
		Description: formValue(r, "description"),
		Category:    formValue(r, "category"),
	}
	if v := r.FormValue("is_featured"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			httpx.WriteError(w, h.logger, r, apperr.Invalid("is_featured", "must be a boolean"))
			return
		}
		in.IsFeatured = &b
	}
	d, err := h.svc.Upload(r.Context(), in, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	h.logger.Infow("download uploaded", "download", d.ID, "size", d.FileSize)
	httpx.OK(w, http.StatusCreated, map[string]any{"download": d})
}

func formValue(r *http.Request, key string) *string {
	if _, ok := r.MultipartForm.Value[key]; !ok {
		return nil
	}
	v := r.FormValue(key)
	return &v
}

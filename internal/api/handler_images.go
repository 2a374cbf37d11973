package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dorm-rental-backend/internal/apperr"
)

const maxImagesPerUpload = 10

// UploadDormImages stores the multipart "images" files of one request and attaches
// them to the dorm. Nothing is kept when any file is rejected.
func (h *Handler) UploadDormImages(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	dormID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if h.uploads == nil {
		respondError(c, apperr.State("image uploads are disabled"))
		return
	}

	ctx := c.Request.Context()
	if _, err := h.store.GetDorm(ctx, owner, dormID); err != nil {
		respondError(c, err)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		badRequest(c, err)
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		respondError(c, apperr.Validation("at least one image is required"))
		return
	}
	if len(files) > maxImagesPerUpload {
		respondError(c, apperr.Validation("at most %d images per upload", maxImagesPerUpload))
		return
	}

	saved := make([]string, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			h.uploads.RemoveAll(saved)
			badRequest(c, err)
			return
		}
		p, err := h.uploads.SaveImage(f, fh.Size)
		f.Close()
		if err != nil {
			h.uploads.RemoveAll(saved)
			respondError(c, err)
			return
		}
		saved = append(saved, p)
	}

	images, err := h.store.AddImages(ctx, owner, dormID, saved)
	if err != nil {
		h.uploads.RemoveAll(saved)
		respondError(c, err)
		return
	}
	h.dormsChanged()

	out := make([]imageResponse, 0, len(images))
	for _, img := range images {
		out = append(out, imageResponse{ID: img.ID, ImagePath: img.ImagePath, CreatedAt: img.CreatedAt})
	}
	c.JSON(http.StatusCreated, out)
}

// DeleteDormImage removes one image from a dorm and from disk.
func (h *Handler) DeleteDormImage(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	dormID, ok := idParam(c, "id")
	if !ok {
		return
	}
	imageID, ok := idParam(c, "imageId")
	if !ok {
		return
	}
	p, err := h.store.DeleteImage(c.Request.Context(), owner, dormID, imageID)
	if err != nil {
		respondError(c, err)
		return
	}
	if h.uploads != nil {
		h.uploads.Remove(p)
	}
	h.dormsChanged()
	c.Status(http.StatusNoContent)
}

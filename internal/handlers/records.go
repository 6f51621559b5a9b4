package handlers

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vitrine-dev/vitrine/internal/middleware"
	"github.com/vitrine-dev/vitrine/internal/records"
)

func (h *Handler) ListRecords(ctx *gin.Context) {
	result, err := h.records.List()

	if err != nil {
		log.Printf("Failed to list records: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database query failed"})
		return
	}

	ctx.JSON(http.StatusOK, result)
}

func (h *Handler) CreateRecord(ctx *gin.Context) {
	title, description, files, err := bindRecordForm(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	id, err := h.records.Create(title, description, files)

	if err != nil {
		if errors.Is(err, records.ErrEmptyTitle) {
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Title is required"})
			return
		}
		log.Printf("Failed to create record: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	if claims, err := middleware.CurrentUser(ctx); err == nil {
		log.Printf("Record %d created by %s", id, claims.Username)
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Record created"})
}

func (h *Handler) UpdateRecord(ctx *gin.Context) {
	id, err := parseID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid record ID"})
		return
	}

	title, description, files, err := bindRecordForm(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	keepImages := ctx.PostForm("keepImages")

	updated, err := h.records.Update(id, title, description, keepImages, files)

	if err != nil {
		switch {
		case errors.Is(err, records.ErrEmptyTitle):
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Title is required"})
		case errors.Is(err, records.ErrRecordNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Record not found"})
		default:
			log.Printf("Failed to update record %d: %v", id, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
}

// DeleteRecord removes the record and, via the foreign-key cascade, its image
// rows. Deleting an id that no longer exists still reports success.
func (h *Handler) DeleteRecord(ctx *gin.Context) {
	id, err := parseID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid record ID"})
		return
	}

	if err := h.records.Delete(id); err != nil {
		log.Printf("Failed to delete record %d: %v", id, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	if claims, err := middleware.CurrentUser(ctx); err == nil {
		log.Printf("Record %d deleted by %s", id, claims.Username)
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Record deleted"})
}

func parseID(ctx *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)

	if err != nil {
		return 0, err
	}

	return uint(id), nil
}

func bindRecordForm(ctx *gin.Context) (title, description string, files []*multipart.FileHeader, err error) {
	form, err := ctx.MultipartForm()

	if err != nil {
		return "", "", nil, err
	}

	return ctx.PostForm("title"), ctx.PostForm("description"), form.File["images"], nil
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"boutique-pos/internal/models"
	"boutique-pos/internal/storage"
)

// --- GET: /api/backup ---
// ExportBackup hands the caller the full collection set as one document.
func (h *Handler) ExportBackup(c *gin.Context) {
	backup, err := h.store.Export(c.Request.Context())
	if err != nil {
		h.storageError(c, err, "export backup")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="boutique-backup.json"`)
	c.JSON(http.StatusOK, backup)
}

// --- POST: /api/backup ---
// ImportBackup replaces every collection wholesale. There are no merge
// semantics; this is the restore half of the export contract.
func (h *Handler) ImportBackup(c *gin.Context) {
	var backup models.Backup
	if err := c.ShouldBindJSON(&backup); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid backup document"})
		return
	}

	if err := h.store.Import(c.Request.Context(), &backup); err != nil {
		if errors.Is(err, storage.ErrBackupVersion) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.storageError(c, err, "import backup")
		return
	}

	// A restore invalidates any in-flight cart.
	h.engine.Clear()

	c.JSON(http.StatusOK, gin.H{"message": "Backup restored successfully"})
}

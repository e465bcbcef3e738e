package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"whatsapp-archive-viewer/export"
	"whatsapp-archive-viewer/models"
	"whatsapp-archive-viewer/persistence"
	"whatsapp-archive-viewer/utils"
	"whatsapp-archive-viewer/viewer"
)

// SetupAPIRoutes configura tutte le rotte API
func SetupAPIRoutes(router *gin.Engine, ctrl Controller, maxArchiveBytes int64) {
	// Abilita CORS
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Servi file statici (per l'interfaccia web)
	router.Static("/web", "./web")

	// WebSocket per gli eventi di sessione
	router.GET("/ws", func(c *gin.Context) {
		HandleWebSocket(c.Writer, c.Request, ctrl)
	})

	// API per caricare un nuovo archivio di export
	router.POST("/api/archives", func(c *gin.Context) {
		file, header, err := c.Request.FormFile("archive")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Nessun file di archivio fornito"})
			return
		}
		defer file.Close()

		if header.Size > maxArchiveBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Archivio troppo grande"})
			return
		}

		data, err := io.ReadAll(io.LimitReader(file, maxArchiveBytes+1))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Errore nella lettura del file: %v", err)})
			return
		}
		if int64(len(data)) > maxArchiveBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Archivio troppo grande"})
			return
		}

		name := utils.ArchiveDisplayName(header.Filename)
		result, err := ctrl.LoadArchive(c.Request.Context(), data, name)
		if err != nil {
			status := http.StatusInternalServerError
			switch {
			case errors.Is(err, export.ErrInvalidArchive), errors.Is(err, export.ErrMissingTranscript):
				status = http.StatusBadRequest
			case errors.Is(err, viewer.ErrLoadInFlight):
				status = http.StatusConflict
			}
			c.JSON(status, gin.H{"error": fmt.Sprintf("Errore nel caricamento dell'archivio: %v", err)})
			return
		}

		BroadcastToClients(models.WSSessionLoaded, gin.H{
			"archiveId": result.Archive.ID,
			"name":      result.Archive.Name,
		})
		BroadcastToClients(models.WSArchiveSaved, result.Archive)

		response := gin.H{
			"status":  "success",
			"archive": result.Archive,
		}
		if result.SaveErr != nil {
			// Il salvataggio è fallito ma la sessione è attiva: va
			// riportato, non nascosto
			response["saveError"] = result.SaveErr.Error()
		}
		c.JSON(http.StatusOK, response)
	})

	// API per ottenere gli archivi salvati
	router.GET("/api/archives", func(c *gin.Context) {
		archives, err := ctrl.SavedArchives()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Errore nel caricamento degli archivi: %v", err)})
			return
		}

		// Ordina per data di salvataggio (più recente prima)
		sort.Slice(archives, func(i, j int) bool {
			return archives[i].SavedAt > archives[j].SavedAt
		})

		c.JSON(http.StatusOK, archives)
	})

	// API per riaprire un archivio salvato
	router.POST("/api/archives/:id/open", func(c *gin.Context) {
		id := c.Param("id")

		if err := ctrl.OpenArchive(c.Request.Context(), id); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, viewer.ErrLoadInFlight) {
				status = http.StatusConflict
			}
			c.JSON(status, gin.H{"error": fmt.Sprintf("Errore nella riapertura dell'archivio: %v", err)})
			return
		}

		info, _ := ctrl.SessionInfo()
		BroadcastToClients(models.WSSessionLoaded, info)
		c.JSON(http.StatusOK, gin.H{"status": "success", "session": info})
	})

	// API per eliminare un archivio salvato
	router.DELETE("/api/archives/:id", func(c *gin.Context) {
		id := c.Param("id")

		if err := ctrl.DeleteArchive(id); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, persistence.ErrStorageQuota) {
				status = http.StatusInsufficientStorage
			}
			c.JSON(status, gin.H{"error": fmt.Sprintf("Errore nell'eliminazione dell'archivio: %v", err)})
			return
		}

		BroadcastToClients(models.WSArchiveDeleted, gin.H{"archiveId": id})
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	})

	// API per il riepilogo della sessione attiva
	router.GET("/api/session", func(c *gin.Context) {
		info, ok := ctrl.SessionInfo()
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Nessuna sessione attiva"})
			return
		}
		c.JSON(http.StatusOK, info)
	})

	// API per chiudere la sessione attiva
	router.POST("/api/session/close", func(c *gin.Context) {
		ctrl.CloseSession()
		BroadcastToClients(models.WSSessionClosed, nil)
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	})

	// API per ottenere una pagina di messaggi della sessione attiva
	router.GET("/api/session/messages", func(c *gin.Context) {
		offset := intQuery(c, "offset", 0)
		limit := intQuery(c, "limit", 200)

		messages, total, err := ctrl.Messages(offset, limit)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Nessuna sessione attiva"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"messages": messages,
			"total":    total,
			"offset":   offset,
		})
	})

	// API di ricerca: riesegue la scansione e riposiziona il cursore sul
	// primo risultato
	router.GET("/api/session/search", func(c *gin.Context) {
		term := c.Query("term")
		results := ctrl.Search(term)

		current, ok := ctrl.CurrentResult()
		response := gin.H{
			"results": results,
			"count":   len(results),
		}
		if ok {
			response["current"] = current
		}
		c.JSON(http.StatusOK, response)
	})

	router.POST("/api/session/search/next", func(c *gin.Context) {
		index, ok := ctrl.NextResult()
		if !ok {
			c.JSON(http.StatusOK, gin.H{"count": 0})
			return
		}
		c.JSON(http.StatusOK, gin.H{"current": index})
	})

	router.POST("/api/session/search/prev", func(c *gin.Context) {
		index, ok := ctrl.PrevResult()
		if !ok {
			c.JSON(http.StatusOK, gin.H{"count": 0})
			return
		}
		c.JSON(http.StatusOK, gin.H{"current": index})
	})

	// API per comunicare le altezze misurate delle righe. Il lotto viene
	// applicato per intero o rifiutato per intero.
	router.POST("/api/session/heights", func(c *gin.Context) {
		var requestData []viewer.RowHeight

		if err := c.BindJSON(&requestData); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Formato JSON non valido"})
			return
		}

		if err := ctrl.SetRowHeights(requestData); err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, viewer.ErrNoSession) {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": fmt.Sprintf("Altezze non registrate: %v", err)})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "success"})
	})

	// API per la finestra di righe da materializzare
	router.GET("/api/session/window", func(c *gin.Context) {
		scrollTop := intQuery(c, "scrollTop", 0)
		viewport := intQuery(c, "viewport", 0)

		start, end, err := ctrl.Window(scrollTop, viewport)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Nessuna sessione attiva"})
			return
		}

		total, _ := ctrl.TotalHeight()
		c.JSON(http.StatusOK, gin.H{
			"start":       start,
			"end":         end,
			"totalHeight": total,
		})
	})

	// API per la posizione di scroll verso un indice
	router.GET("/api/session/scroll-to", func(c *gin.Context) {
		index := intQuery(c, "index", 0)
		viewport := intQuery(c, "viewport", 0)
		center := c.Query("center") == "true"

		top, err := ctrl.ScrollTo(index, viewport, center)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Nessuna sessione attiva"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"scrollTop": top})
	})

	// API per servire i payload binari della sessione (allegati e anteprime)
	router.GET("/api/media/:token", func(c *gin.Context) {
		token := c.Param("token")

		payload, ok := ctrl.Media(token)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Contenuto non trovato o sessione scaduta"})
			return
		}

		c.Data(http.StatusOK, http.DetectContentType(payload), payload)
	})

	// API per la preferenza del nome "proprio"
	router.GET("/api/preferences/self-name", func(c *gin.Context) {
		name, err := ctrl.SelfName()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Errore nella lettura della preferenza: %v", err)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"selfName": name})
	})

	router.POST("/api/preferences/self-name", func(c *gin.Context) {
		var requestData struct {
			SelfName string `json:"selfName"`
		}

		if err := c.BindJSON(&requestData); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Formato JSON non valido"})
			return
		}

		if err := ctrl.SetSelfName(requestData.SelfName); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Errore nel salvataggio della preferenza: %v", err)})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "success"})
	})

	// Endpoint di test
	router.GET("/api/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Il backend funziona correttamente",
		})
	})
}

// intQuery legge un parametro di query intero con valore predefinito
func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

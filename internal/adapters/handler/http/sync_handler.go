package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lucasorrentino/weekwise/internal/core/offline"
)

// SyncHandler accepts the mutation batches clients buffered while
// offline and replays them through the offline queue, so server-side
// replay shares the retry and drop rules of the client library.
type SyncHandler struct {
	queue   *offline.Queue
	applier offline.Applier
}

func NewSyncHandler(applier offline.Applier) *SyncHandler {
	return &SyncHandler{
		queue:   offline.NewQueue(),
		applier: applier,
	}
}

func (h *SyncHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/sync/mutations", h.PushMutations)
}

func (h *SyncHandler) PushMutations(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var mutations []offline.Mutation
	if err := c.ShouldBindJSON(&mutations); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	for _, m := range mutations {
		// The client's user id is never trusted; the token decides.
		m.UserID = uid
		h.queue.Enqueue(m)
	}

	applied, dropped := h.queue.Flush(c.Request.Context(), h.applier)

	c.JSON(http.StatusOK, gin.H{
		"applied": applied,
		"dropped": dropped,
		"pending": h.queue.Len(),
	})
}

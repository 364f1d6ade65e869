package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chxlky/boardflow/internal/models"
)

func (h *Handler) CreateCard(c *gin.Context) {
	row, ok := h.ownedBoard(c)
	if !ok {
		return
	}
	var req models.CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.Title == "" {
		fail(c, http.StatusBadRequest, "card title is required")
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.ColumnRow{}).
			Where("id = ? AND board_id = ?", req.ColumnID, row.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}

		// New cards land at the bottom of their column.
		var maxRank float64
		if err := tx.Model(&models.CardRow{}).Where("board_id = ? AND column_id = ?", row.ID, req.ColumnID).
			Select("COALESCE(MAX(rank), 0)").Scan(&maxRank).Error; err != nil {
			return err
		}
		now := time.Now().UTC()
		card := models.CardRow{
			ID:          uuid.NewString(),
			BoardID:     row.ID,
			ColumnID:    req.ColumnID,
			Rank:        maxRank + 1,
			Title:       req.Title,
			Description: req.Description,
			Points:      req.Points,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Create(&card).Error; err != nil {
			return err
		}
		return bumpVersion(tx, row.ID)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fail(c, http.StatusNotFound, "column not found")
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to create card")
		return
	}
	ack(c)
}

func (h *Handler) UpdateCard(c *gin.Context) {
	row, ok := h.ownedBoard(c)
	if !ok {
		return
	}
	var patch models.CardPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		fail(c, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var card models.CardRow
		if err := tx.Where("id = ? AND board_id = ?", c.Param("cardId"), row.ID).First(&card).Error; err != nil {
			return err
		}
		if patch.Title != nil {
			card.Title = *patch.Title
		}
		if patch.Description != nil {
			card.Description = *patch.Description
		}
		if patch.Points != nil {
			card.Points = *patch.Points
		}
		card.UpdatedAt = time.Now().UTC()
		if err := tx.Save(&card).Error; err != nil {
			return err
		}
		return bumpVersion(tx, row.ID)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fail(c, http.StatusNotFound, "card not found")
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to update card")
		return
	}
	ack(c)
}

func (h *Handler) DeleteCard(c *gin.Context) {
	row, ok := h.ownedBoard(c)
	if !ok {
		return
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND board_id = ?", c.Param("cardId"), row.ID).Delete(&models.CardRow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return bumpVersion(tx, row.ID)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fail(c, http.StatusNotFound, "card not found")
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to delete card")
		return
	}
	ack(c)
}

// MoveCard places a card between the two anchor neighbors named in the
// request. The rank is recomputed between the anchors (or past an extremum)
// rather than trusting any client-side index, so the move stays meaningful
// under concurrent inserts and deletes elsewhere in the list. An anchor that
// no longer lives in the target column is ignored.
func (h *Handler) MoveCard(c *gin.Context) {
	row, ok := h.ownedBoard(c)
	if !ok {
		return
	}
	var req models.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var card models.CardRow
		if err := tx.Where("id = ? AND board_id = ?", c.Param("cardId"), row.ID).First(&card).Error; err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&models.ColumnRow{}).
			Where("id = ? AND board_id = ?", req.ToColumnID, row.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}

		before := anchorRank(tx, row.ID, req.ToColumnID, req.BeforeCardID)
		after := anchorRank(tx, row.ID, req.ToColumnID, req.AfterCardID)

		card.ColumnID = req.ToColumnID
		card.Rank = rankBetween(tx, row.ID, req.ToColumnID, card.ID, before, after)
		card.UpdatedAt = time.Now().UTC()
		if err := tx.Save(&card).Error; err != nil {
			return err
		}
		return bumpVersion(tx, row.ID)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fail(c, http.StatusNotFound, "card or column not found")
		return
	}
	if err != nil {
		log.Printf("Error moving card: %v\n", err)
		fail(c, http.StatusInternalServerError, "failed to move card")
		return
	}
	ack(c)
}

// anchorRank resolves a neighbor anchor to its rank, or nil when the anchor
// is absent or has since left the target column.
func anchorRank(tx *gorm.DB, boardID, columnID string, cardID *string) *float64 {
	if cardID == nil {
		return nil
	}
	var anchor models.CardRow
	err := tx.Where("id = ? AND board_id = ? AND column_id = ?", *cardID, boardID, columnID).First(&anchor).Error
	if err != nil {
		return nil
	}
	return &anchor.Rank
}

func rankBetween(tx *gorm.DB, boardID, columnID, movingID string, before, after *float64) float64 {
	switch {
	case before != nil && after != nil:
		return (*before + *after) / 2
	case before != nil:
		return *before + 1
	case after != nil:
		return *after - 1
	}
	// No usable anchor: first card of an empty column ranks at zero,
	// otherwise the card falls to the bottom.
	var maxRank *float64
	tx.Model(&models.CardRow{}).
		Where("board_id = ? AND column_id = ? AND id <> ?", boardID, columnID, movingID).
		Select("MAX(rank)").Scan(&maxRank)
	if maxRank == nil {
		return 0
	}
	return *maxRank + 1
}

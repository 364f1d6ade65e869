package api

import (
	"errors"
	"log"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chxlky/boardflow/integrations"
	"github.com/chxlky/boardflow/internal/models"
)

var errLastColumn = errors.New("cannot delete the last column")

// Handler implements the reference board store: the authoritative side of the
// board API. It assigns ids and ranks, bumps the board version on every
// mutation and scopes all access to the account named in the request header.
type Handler struct {
	DB *gorm.DB
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	boards := r.Group("/boards")
	{
		boards.POST("", h.CreateBoard)
		boards.GET("/:boardId", h.FetchBoard)
		boards.POST("/:boardId/columns", h.AddColumn)
		boards.PATCH("/:boardId/columns/:columnId", h.RenameColumn)
		boards.DELETE("/:boardId/columns/:columnId", h.DeleteColumn)
		boards.POST("/:boardId/cards", h.CreateCard)
		boards.PATCH("/:boardId/cards/:cardId", h.UpdateCard)
		boards.DELETE("/:boardId/cards/:cardId", h.DeleteCard)
		boards.POST("/:boardId/cards/:cardId/move", h.MoveCard)
	}
}

func (h *Handler) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "status": "healthy"})
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"ok": false, "error": msg})
}

func ack(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func accountID(c *gin.Context) (string, bool) {
	id := c.GetHeader(integrations.AccountHeader)
	if id == "" {
		fail(c, http.StatusUnauthorized, "missing account header")
		return "", false
	}
	return id, true
}

// ownedBoard loads the board named in the path and verifies it belongs to the
// requesting account. Foreign boards are indistinguishable from missing ones.
func (h *Handler) ownedBoard(c *gin.Context) (models.BoardRow, bool) {
	account, ok := accountID(c)
	if !ok {
		return models.BoardRow{}, false
	}
	var row models.BoardRow
	err := h.DB.Where("id = ? AND account_id = ?", c.Param("boardId"), account).First(&row).Error
	if err != nil {
		fail(c, http.StatusNotFound, "board not found")
		return models.BoardRow{}, false
	}
	return row, true
}

func bumpVersion(tx *gorm.DB, boardID string) error {
	return tx.Model(&models.BoardRow{}).Where("id = ?", boardID).
		UpdateColumn("version", gorm.Expr("version + 1")).Error
}

// boardState assembles the wire Board from rows. Columns are arranged by Ord;
// each column's card ids are arranged by Rank with the card id as a stable
// tie-break.
func (h *Handler) boardState(row models.BoardRow) (*models.Board, error) {
	var columns []models.ColumnRow
	if err := h.DB.Where("board_id = ?", row.ID).Order("ord").Find(&columns).Error; err != nil {
		return nil, err
	}
	var cards []models.CardRow
	if err := h.DB.Where("board_id = ?", row.ID).Find(&cards).Error; err != nil {
		return nil, err
	}

	state := &models.Board{
		ID:      row.ID,
		Name:    row.Name,
		Version: row.Version,
		Columns: make([]models.Column, 0, len(columns)),
		Cards:   make(map[string]models.Card, len(cards)),
		Lists:   make(map[string][]string, len(columns)),
	}
	for _, col := range columns {
		state.Columns = append(state.Columns, models.Column{ID: col.ID, Title: col.Title, Order: col.Ord})
		state.Lists[col.ID] = []string{}
	}

	sort.Slice(cards, func(i, j int) bool {
		if cards[i].Rank != cards[j].Rank {
			return cards[i].Rank < cards[j].Rank
		}
		return cards[i].ID < cards[j].ID
	})
	for _, card := range cards {
		created := card.CreatedAt
		updated := card.UpdatedAt
		state.Cards[card.ID] = models.Card{
			ID:          card.ID,
			ColumnID:    card.ColumnID,
			Rank:        card.Rank,
			Title:       card.Title,
			Description: card.Description,
			Points:      card.Points,
			CreatedAt:   &created,
			UpdatedAt:   &updated,
		}
		state.Lists[card.ColumnID] = append(state.Lists[card.ColumnID], card.ID)
	}
	return state, nil
}

func (h *Handler) CreateBoard(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		return
	}
	var req models.CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.Name == "" {
		fail(c, http.StatusBadRequest, "board name is required")
		return
	}

	row := models.BoardRow{ID: uuid.NewString(), AccountID: account, Name: req.Name, Version: 1}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		for i, title := range req.Columns {
			col := models.ColumnRow{ID: uuid.NewString(), BoardID: row.ID, Title: title, Ord: i}
			if err := tx.Create(&col).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Error creating board: %v\n", err)
		fail(c, http.StatusInternalServerError, "failed to create board")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "boardId": row.ID})
}

func (h *Handler) FetchBoard(c *gin.Context) {
	row, ok := h.ownedBoard(c)
	if !ok {
		return
	}
	state, err := h.boardState(row)
	if err != nil {
		log.Printf("Error loading board state: %v\n", err)
		fail(c, http.StatusInternalServerError, "failed to load board state")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "state": state})
}

func (h *Handler) AddColumn(c *gin.Context) {
	row, ok := h.ownedBoard(c)
	if !ok {
		return
	}
	var req models.ColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" {
		fail(c, http.StatusBadRequest, "column title is required")
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var maxOrd int
		if err := tx.Model(&models.ColumnRow{}).Where("board_id = ?", row.ID).
			Select("COALESCE(MAX(ord), -1)").Scan(&maxOrd).Error; err != nil {
			return err
		}
		col := models.ColumnRow{ID: uuid.NewString(), BoardID: row.ID, Title: req.Title, Ord: maxOrd + 1}
		if err := tx.Create(&col).Error; err != nil {
			return err
		}
		return bumpVersion(tx, row.ID)
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to add column")
		return
	}
	ack(c)
}

func (h *Handler) RenameColumn(c *gin.Context) {
	row, ok := h.ownedBoard(c)
	if !ok {
		return
	}
	var req models.ColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" {
		fail(c, http.StatusBadRequest, "column title is required")
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.ColumnRow{}).
			Where("id = ? AND board_id = ?", c.Param("columnId"), row.ID).
			Update("title", req.Title)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return bumpVersion(tx, row.ID)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fail(c, http.StatusNotFound, "column not found")
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to rename column")
		return
	}
	ack(c)
}

// DeleteColumn removes a column. mode=move_cards reassigns its cards to the
// first remaining column; mode=delete_cards drops them. A board always keeps
// at least one column, so deleting the last one is refused.
func (h *Handler) DeleteColumn(c *gin.Context) {
	row, ok := h.ownedBoard(c)
	if !ok {
		return
	}
	mode := models.DeleteMode(c.Query("mode"))
	if !mode.Valid() {
		fail(c, http.StatusBadRequest, "mode must be move_cards or delete_cards")
		return
	}

	columnID := c.Param("columnId")
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var columns []models.ColumnRow
		if err := tx.Where("board_id = ?", row.ID).Order("ord").Find(&columns).Error; err != nil {
			return err
		}
		found := false
		var target *models.ColumnRow
		for i := range columns {
			if columns[i].ID == columnID {
				found = true
			} else if target == nil {
				target = &columns[i]
			}
		}
		if !found {
			return gorm.ErrRecordNotFound
		}
		if len(columns) < 2 {
			return errLastColumn
		}

		if mode == models.DeleteModeDeleteCards {
			if err := tx.Where("board_id = ? AND column_id = ?", row.ID, columnID).
				Delete(&models.CardRow{}).Error; err != nil {
				return err
			}
		} else {
			// Reassigned cards rank after the target column's existing cards,
			// keeping their own relative order.
			var maxRank float64
			if err := tx.Model(&models.CardRow{}).Where("board_id = ? AND column_id = ?", row.ID, target.ID).
				Select("COALESCE(MAX(rank), 0)").Scan(&maxRank).Error; err != nil {
				return err
			}
			var orphans []models.CardRow
			if err := tx.Where("board_id = ? AND column_id = ?", row.ID, columnID).
				Order("rank").Find(&orphans).Error; err != nil {
				return err
			}
			for i := range orphans {
				orphans[i].ColumnID = target.ID
				orphans[i].Rank = maxRank + float64(i+1)
				if err := tx.Save(&orphans[i]).Error; err != nil {
					return err
				}
			}
		}

		if err := tx.Delete(&models.ColumnRow{ID: columnID}).Error; err != nil {
			return err
		}
		return bumpVersion(tx, row.ID)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fail(c, http.StatusNotFound, "column not found")
		return
	}
	if errors.Is(err, errLastColumn) {
		fail(c, http.StatusConflict, "cannot delete the last column of a board")
		return
	}
	if err != nil {
		log.Printf("Error deleting column: %v\n", err)
		fail(c, http.StatusInternalServerError, "failed to delete column")
		return
	}
	ack(c)
}

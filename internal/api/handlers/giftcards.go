package handlers

import (
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/perfumeoud/retailapi/internal/api/middleware"
	"github.com/perfumeoud/retailapi/internal/config"
	"github.com/perfumeoud/retailapi/internal/domain"
	"github.com/perfumeoud/retailapi/internal/giftcode"
	"github.com/perfumeoud/retailapi/internal/qrcode"
	"github.com/perfumeoud/retailapi/internal/repository"
	"github.com/perfumeoud/retailapi/internal/service"
)

// IssueGiftCardRequest represents the issuance payload
type IssueGiftCardRequest struct {
	Amount              decimal.Decimal `json:"amount"`
	Currency            string          `json:"currency"`
	CustomerID          *uuid.UUID      `json:"customer_id,omitempty"`
	ExpiresAt           *time.Time      `json:"expires_at,omitempty"`
	Notes               *string         `json:"notes,omitempty"`
	RecipientName       *string         `json:"recipient_name,omitempty"`
	RecipientNameArabic *string         `json:"recipient_name_arabic,omitempty"`
	Message             *string         `json:"message,omitempty"`
	MessageArabic       *string         `json:"message_arabic,omitempty"`
}

// RedeemGiftCardRequest represents the redemption payload
type RedeemGiftCardRequest struct {
	Amount  decimal.Decimal `json:"amount"`
	OrderID *uuid.UUID      `json:"order_id,omitempty"`
	Notes   *string         `json:"notes,omitempty"`
}

// AddBalanceGiftCardRequest represents the top-up payload
type AddBalanceGiftCardRequest struct {
	Amount            decimal.Decimal `json:"amount"`
	Type              string          `json:"type" binding:"required"`
	Notes             *string         `json:"notes,omitempty"`
	AllowReactivation bool            `json:"allow_reactivation"`
}

// CancelGiftCardRequest represents the cancellation payload
type CancelGiftCardRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// GiftCardResponse represents a gift card in API responses
type GiftCardResponse struct {
	ID                  string          `json:"id"`
	Code                string          `json:"code"`
	Amount              decimal.Decimal `json:"amount"`
	Balance             decimal.Decimal `json:"balance"`
	Currency            string          `json:"currency"`
	Status              string          `json:"status"`
	CustomerID          *uuid.UUID      `json:"customer_id,omitempty"`
	PurchasedByID       string          `json:"purchased_by_id"`
	IssuedAt            string          `json:"issued_at"`
	ExpiresAt           string          `json:"expires_at"`
	Notes               *string         `json:"notes,omitempty"`
	RecipientName       *string         `json:"recipient_name,omitempty"`
	RecipientNameArabic *string         `json:"recipient_name_arabic,omitempty"`
	Message             *string         `json:"message,omitempty"`
	MessageArabic       *string         `json:"message_arabic,omitempty"`
	QRCode              string          `json:"qr_code,omitempty"` // base64 PNG
}

func toGiftCardResponse(card *domain.GiftCard, includeQR bool) GiftCardResponse {
	resp := GiftCardResponse{
		ID:                  card.ID.String(),
		Code:                card.Code,
		Amount:              card.Amount,
		Balance:             card.Balance,
		Currency:            card.Currency,
		Status:              string(card.Status),
		CustomerID:          card.CustomerID,
		PurchasedByID:       card.PurchasedByID.String(),
		IssuedAt:            card.IssuedAt.Format(time.RFC3339),
		ExpiresAt:           card.ExpiresAt.Format(time.RFC3339),
		Notes:               card.Notes,
		RecipientName:       card.RecipientName,
		RecipientNameArabic: card.RecipientNameArabic,
		Message:             card.Message,
		MessageArabic:       card.MessageArabic,
	}
	if includeQR && len(card.QRCode) > 0 {
		resp.QRCode = base64.StdEncoding.EncodeToString(card.QRCode)
	}
	return resp
}

// HandleIssueGiftCard handles POST /v1/gift-cards
func HandleIssueGiftCard(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	svc := service.NewGiftCardService(repos, giftcode.NewGenerator(), qrcode.NewCodec(cfg.GiftCard.Issuer), cfg.GiftCard, logger)

	return func(c *gin.Context) {
		staff, ok := middleware.GetStaffFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req IssueGiftCardRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		card, err := svc.Issue(c.Request.Context(), service.IssueRequest{
			Amount:              req.Amount,
			Currency:            req.Currency,
			CustomerID:          req.CustomerID,
			PurchasedByID:       staff.ID,
			ExpiresAt:           req.ExpiresAt,
			Notes:               req.Notes,
			RecipientName:       req.RecipientName,
			RecipientNameArabic: req.RecipientNameArabic,
			Message:             req.Message,
			MessageArabic:       req.MessageArabic,
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusCreated, toGiftCardResponse(card, true))
	}
}

// HandleValidateGiftCard handles GET /v1/gift-cards/:code/validate
func HandleValidateGiftCard(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	svc := service.NewGiftCardService(repos, giftcode.NewGenerator(), qrcode.NewCodec(cfg.GiftCard.Issuer), cfg.GiftCard, logger)

	return func(c *gin.Context) {
		result, err := svc.Validate(c.Request.Context(), c.Param("code"))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		resp := gin.H{"valid": result.Valid}
		if result.GiftCard != nil {
			resp["gift_card"] = toGiftCardResponse(result.GiftCard, false)
		}
		if result.Valid {
			resp["available_balance"] = result.AvailableBalance
		} else if result.Err != nil {
			resp["error"] = result.Err.Error()
		}

		c.JSON(http.StatusOK, resp)
	}
}

// HandleRedeemGiftCard handles POST /v1/gift-cards/:code/redeem
func HandleRedeemGiftCard(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	svc := service.NewGiftCardService(repos, giftcode.NewGenerator(), qrcode.NewCodec(cfg.GiftCard.Issuer), cfg.GiftCard, logger)

	return func(c *gin.Context) {
		staff, ok := middleware.GetStaffFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req RedeemGiftCardRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		result, err := svc.Redeem(c.Request.Context(), service.RedeemRequest{
			Code:        c.Param("code"),
			Amount:      req.Amount,
			OrderID:     req.OrderID,
			Notes:       req.Notes,
			CreatedByID: staff.ID,
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":           true,
			"gift_card":         toGiftCardResponse(result.GiftCard, false),
			"redeemed_amount":   result.RedeemedAmount,
			"remaining_balance": result.RemainingBalance,
			"transaction_id":    result.TransactionID.String(),
		})
	}
}

// HandleAddBalance handles POST /v1/gift-cards/:code/balance
func HandleAddBalance(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	svc := service.NewGiftCardService(repos, giftcode.NewGenerator(), qrcode.NewCodec(cfg.GiftCard.Issuer), cfg.GiftCard, logger)

	return func(c *gin.Context) {
		staff, ok := middleware.GetStaffFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req AddBalanceGiftCardRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		card, err := svc.AddBalance(c.Request.Context(), service.AddBalanceRequest{
			Code:              c.Param("code"),
			Amount:            req.Amount,
			Type:              domain.TransactionType(req.Type),
			Notes:             req.Notes,
			CreatedByID:       staff.ID,
			AllowReactivation: req.AllowReactivation,
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, toGiftCardResponse(card, false))
	}
}

// HandleCheckBalance handles GET /v1/gift-cards/:code/balance
func HandleCheckBalance(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	svc := service.NewGiftCardService(repos, giftcode.NewGenerator(), qrcode.NewCodec(cfg.GiftCard.Issuer), cfg.GiftCard, logger)

	return func(c *gin.Context) {
		result, err := svc.CheckBalance(c.Request.Context(), c.Param("code"))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"code":       result.Code,
			"balance":    result.Balance,
			"currency":   result.Currency,
			"status":     result.Status,
			"expires_at": result.ExpiresAt.Format(time.RFC3339),
		})
	}
}

// HandleTransactionHistory handles GET /v1/gift-cards/:code/transactions
func HandleTransactionHistory(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	svc := service.NewGiftCardService(repos, giftcode.NewGenerator(), qrcode.NewCodec(cfg.GiftCard.Issuer), cfg.GiftCard, logger)

	return func(c *gin.Context) {
		history, err := svc.GetTransactionHistory(c.Request.Context(), c.Param("code"))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		txns := make([]gin.H, len(history.Transactions))
		for i, txn := range history.Transactions {
			entry := gin.H{
				"id":            txn.ID.String(),
				"type":          txn.Type,
				"amount":        txn.Amount,
				"created_by_id": txn.CreatedByID.String(),
				"created_at":    txn.CreatedAt.Format(time.RFC3339),
			}
			if txn.OrderID != nil {
				entry["order_id"] = txn.OrderID.String()
			}
			if txn.Notes != nil {
				entry["notes"] = *txn.Notes
			}
			txns[i] = entry
		}

		c.JSON(http.StatusOK, gin.H{
			"gift_card":    toGiftCardResponse(history.GiftCard, false),
			"transactions": txns,
		})
	}
}

// HandleCancelGiftCard handles POST /v1/gift-cards/:code/cancel
func HandleCancelGiftCard(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	svc := service.NewGiftCardService(repos, giftcode.NewGenerator(), qrcode.NewCodec(cfg.GiftCard.Issuer), cfg.GiftCard, logger)

	return func(c *gin.Context) {
		staff, ok := middleware.GetStaffFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req CancelGiftCardRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		card, err := svc.Cancel(c.Request.Context(), c.Param("code"), req.Reason, staff.ID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, toGiftCardResponse(card, false))
	}
}

// HandleListGiftCards handles GET /v1/gift-cards
func HandleListGiftCards(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	svc := service.NewGiftCardService(repos, giftcode.NewGenerator(), qrcode.NewCodec(cfg.GiftCard.Issuer), cfg.GiftCard, logger)

	return func(c *gin.Context) {
		filter := domain.GiftCardFilter{Limit: 100}

		if statusStr := c.Query("status"); statusStr != "" {
			status := domain.GiftCardStatus(statusStr)
			if !status.IsValid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
				return
			}
			filter.Status = &status
		}
		if customerStr := c.Query("customer_id"); customerStr != "" {
			customerID, err := uuid.Parse(customerStr)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer ID"})
				return
			}
			filter.CustomerID = &customerID
		}

		cards, err := svc.List(c.Request.Context(), filter)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		responses := make([]GiftCardResponse, len(cards))
		for i, card := range cards {
			responses[i] = toGiftCardResponse(card, false)
		}

		c.JSON(http.StatusOK, gin.H{"gift_cards": responses})
	}
}

// HandleExpireGiftCards handles POST /v1/admin/gift-cards/expire
func HandleExpireGiftCards(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	svc := service.NewGiftCardService(repos, giftcode.NewGenerator(), qrcode.NewCodec(cfg.GiftCard.Issuer), cfg.GiftCard, logger)

	return func(c *gin.Context) {
		count, err := svc.ExpireOldGiftCards(c.Request.Context())
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"expired": count})
	}
}

package api

import (
	"net/http" // HTTP status codes
	"strconv"  // Query parsing

	"invest_platform/internal/i18n"       // Localized messages
	"invest_platform/internal/middleware" // Request identity and language
	"invest_platform/internal/service"    // Transaction workflow

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/tidwall/gjson" // Lenient amount decoding
)

// Amount accepts both "100.5" and 100.5 in JSON bodies
type Amount string

// UnmarshalJSON keeps numbers and strings verbatim; any other JSON type becomes empty and fails validation
func (a *Amount) UnmarshalJSON(b []byte) error {
	r := gjson.ParseBytes(b)
	switch r.Type {
	case gjson.Number:
		*a = Amount(r.Raw)
	case gjson.String:
		*a = Amount(r.Str)
	default:
		*a = ""
	}
	return nil
}

// DepositBody is the deposit form
type DepositBody struct {
	Amount        Amount `json:"amount"`         // Validated by the workflow
	Currency      string `json:"currency"`       // Defaults to USDT
	Network       string `json:"network"`        // Optional receive network key
	WalletAddress string `json:"wallet_address"` // Optional sender wallet
}

// WithdrawalBody is the withdrawal form
type WithdrawalBody struct {
	Amount        Amount `json:"amount"`         // Validated by the workflow
	Currency      string `json:"currency"`       // Defaults to USDT
	WalletAddress string `json:"wallet_address"` // Required
}

const (
	defaultHistoryLimit = 50  // Rows returned without ?limit=
	maxHistoryLimit     = 200 // Upper bound of ?limit=
)

// DepositAddressesHandler lists the platform's receive addresses
func DepositAddressesHandler(wf *service.Workflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"addresses": wf.DepositAddresses()})
	}
}

// DepositHandler records a pending deposit request for the caller
func DepositHandler(wf *service.Workflow, loc *i18n.Localizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body DepositBody // Bind JSON request to struct
		if err := c.ShouldBindJSON(&body); err != nil {
			respondInvalidRequest(c, loc)
			return
		}
		tx, err := wf.SubmitDeposit(c.Request.Context(), middleware.CurrentIdentity(c), service.DepositRequest{
			Amount:        string(body.Amount),
			Currency:      body.Currency,
			Network:       body.Network,
			WalletAddress: body.WalletAddress,
		})
		if err != nil {
			respondError(c, loc, err, i18n.FormError)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message":     loc.T(middleware.Lang(c), i18n.DepositSuccess),
			"transaction": tx,
		})
	}
}

// WithdrawalHandler records a pending withdrawal request for the caller
func WithdrawalHandler(wf *service.Workflow, loc *i18n.Localizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body WithdrawalBody // Bind JSON request to struct
		if err := c.ShouldBindJSON(&body); err != nil {
			respondInvalidRequest(c, loc)
			return
		}
		tx, err := wf.SubmitWithdrawal(c.Request.Context(), middleware.CurrentIdentity(c), service.WithdrawalRequest{
			Amount:        string(body.Amount),
			Currency:      body.Currency,
			WalletAddress: body.WalletAddress,
		})
		if err != nil {
			respondError(c, loc, err, i18n.FormError)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message":     loc.T(middleware.Lang(c), i18n.WithdrawalSuccess),
			"transaction": tx,
		})
	}
}

// HistoryHandler returns the caller's transactions, newest first
func HistoryHandler(wf *service.Workflow, loc *i18n.Localizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := defaultHistoryLimit
		if l := c.Query("limit"); l != "" {
			// If valid, set limit within bounds
			if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= maxHistoryLimit {
				limit = v
			}
		}
		txs, err := wf.History(c.Request.Context(), middleware.CurrentIdentity(c), limit)
		if err != nil {
			respondError(c, loc, err, i18n.FormError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"transactions": txs})
	}
}

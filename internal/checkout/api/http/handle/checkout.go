package handle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"check-please/internal/auth"
	"check-please/internal/checkout/app/core"
	"check-please/internal/checkout/app/services"
	"check-please/internal/checkout/domain/dto"
	"check-please/internal/checkout/domain/models"
	"check-please/internal/money"
	"check-please/internal/split"
	"check-please/internal/xpkg/logger"
)

type CheckoutHandler struct {
	checkoutService *services.CheckoutService
	verifier        *auth.Verifier
	loginURL        string
	mylog           logger.Logger
}

func NewCheckoutHandler(checkoutService *services.CheckoutService, verifier *auth.Verifier, loginURL string, mylog logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		verifier:        verifier,
		loginURL:        loginURL,
		mylog:           mylog,
	}
}

// Submit handles POST /checkout, the confirm-checkout gesture.
func (ch *CheckoutHandler) Submit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := ch.decodeSession(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		confirmation, err := ch.checkoutService.Submit(ctx, sess)
		if err != nil {
			ch.writeError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, dto.CheckoutResponse{
			Confirmation: confirmation,
			ClearCart:    true,
		})
		ch.mylog.Action("checkout_completed").Info("Checkout completed", "session_id", sess.ID, "order_number", confirmation.OrderNumber)
	}
}

// Preview handles POST /split/preview: run validation and allocation without
// submitting anything.
func (ch *CheckoutHandler) Preview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := ch.decodeSession(w, r)
		if !ok {
			return
		}

		obligations, err := ch.checkoutService.PreviewSplit(sess)
		if err != nil {
			ch.writeError(w, err)
			return
		}

		total := split.Total(obligations)
		jsonResponse(w, http.StatusOK, dto.SplitPreviewResponse{
			Obligations:     obligations,
			TotalMinorUnits: total,
			AmountFormatted: money.Format(total),
		})
	}
}

// Draft handles GET /split/draft: selections preserved before a login detour.
func (ch *CheckoutHandler) Draft() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get("X-Session-ID")
		if sessionID == "" {
			jsonError(w, http.StatusBadRequest, dto.ErrorResponse{Error: "X-Session-ID header is required"})
			return
		}

		sel, err := ch.checkoutService.RestoreDraft(r.Context(), sessionID)
		if err != nil {
			ch.mylog.Action("draft_load_failed").Error("Failed to load split draft", err, "session_id", sessionID)
			jsonError(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to load draft"})
			return
		}
		if sel == nil {
			jsonResponse(w, http.StatusNotFound, nil)
			return
		}
		jsonResponse(w, http.StatusOK, sel)
	}
}

// decodeSession assembles the per-request session context: cart and split
// from the body, bearer token from the Authorization header, table number
// from the route query (dine-in pages carry it in the URL).
func (ch *CheckoutHandler) decodeSession(w http.ResponseWriter, r *http.Request) (*models.Session, bool) {
	var req dto.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ch.mylog.Action("parse_failed").Error("Failed to parse checkout request", err)
		jsonError(w, http.StatusBadRequest, dto.ErrorResponse{Error: "failed to parse JSON"})
		return nil, false
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = r.Header.Get("X-Session-ID")
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	tableNumber := 0
	if v := r.URL.Query().Get("table"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			tableNumber = n
		}
	}

	sess := &models.Session{
		ID:           sessionID,
		Cart:         req.ToCart(),
		Auth:         ch.verifier.SessionFromToken(bearerToken(r)),
		BranchID:     req.BranchID,
		Service:      models.ServiceType(req.ServiceType),
		TableNumber:  tableNumber,
		Split:        req.Split.ToSelection(),
		Instructions: req.Instructions,
		DeviceID:     req.DeviceID,
	}
	return sess, true
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return after
	}
	return ""
}

// writeError maps the error taxonomy onto HTTP statuses. Validation and API
// errors surface their exact message; transport failures get the generic
// retry message.
func (ch *CheckoutHandler) writeError(w http.ResponseWriter, err error) {
	var validationErr *core.ValidationError
	if errors.As(err, &validationErr) {
		jsonError(w, http.StatusBadRequest, dto.ErrorResponse{
			Error: validationErr.Message,
			Field: validationErr.Field,
		})
		return
	}

	if errors.Is(err, core.ErrAuthRequired) {
		jsonError(w, http.StatusUnauthorized, dto.ErrorResponse{
			Error:    core.ErrAuthRequired.Error(),
			LoginURL: ch.loginURL,
		})
		return
	}

	if errors.Is(err, core.ErrSubmissionInFlight) {
		jsonError(w, http.StatusConflict, dto.ErrorResponse{Error: core.ErrSubmissionInFlight.Error()})
		return
	}

	var apiErr *core.APIError
	if errors.As(err, &apiErr) {
		// Backend message goes through verbatim.
		jsonError(w, http.StatusUnprocessableEntity, dto.ErrorResponse{Error: apiErr.Message})
		return
	}

	if errors.Is(err, core.ErrTransport) {
		jsonError(w, http.StatusBadGateway, dto.ErrorResponse{Error: core.ErrTransport.Error()})
		return
	}

	jsonError(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to submit order"})
}

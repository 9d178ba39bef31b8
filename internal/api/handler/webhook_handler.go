package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/roletapro/roleta-client/internal/api/metrics"
	"github.com/roletapro/roleta-client/internal/core/domain"
	"github.com/roletapro/roleta-client/internal/core/ports"
	"github.com/roletapro/roleta-client/internal/core/service"
	"github.com/roletapro/roleta-client/pkg/apiclient"
)

// maxWebhookBody bounds a Stripe event; real ones are a few KiB.
const maxWebhookBody = 1 << 20

// WebhookHandler receives Stripe deliveries and relays them to the backend.
type WebhookHandler struct {
	svc ports.WebhookService
}

func NewWebhookHandler(svc ports.WebhookService) *WebhookHandler {
	return &WebhookHandler{svc: svc}
}

// Stripe handles POST /webhooks/stripe. Stripe only looks at the status class,
// so every accepted delivery is answered 200: with the backend's body, or with
// {"status":"forwarded"} when the backend sent none.
//
// @Summary      Relay a Stripe webhook
// @Description  Forwards the raw event and its signature to the backend once per event id.
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        Stripe-Signature  header    string  true  "Stripe signature"
// @Param        body              body      object  true  "Stripe event"
// @Success      200               {object}  object  "Backend response, or {\"status\":\"forwarded\"} / {\"status\":\"duplicate\"}"
// @Failure      400               {object}  errorResponse
// @Failure      413               {object}  errorResponse
// @Failure      502               {object}  errorResponse
// @Router       /webhooks/stripe [post]
func (h *WebhookHandler) Stripe(c echo.Context) error {
	var hdr webhookHeaders
	if err := (&echo.DefaultBinder{}).BindHeaders(c, &hdr); err != nil {
		metrics.WebhooksTotal.WithLabelValues("rejected").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid headers")
	}
	if err := c.Validate(&hdr); err != nil {
		metrics.WebhooksTotal.WithLabelValues("rejected").Inc()
		return domain.ErrMissingSignature
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Response(), c.Request().Body, maxWebhookBody))
	if err != nil {
		metrics.WebhooksTotal.WithLabelValues("rejected").Inc()
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "payload too large")
		}
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable body")
	}

	ev, err := service.ParseWebhookEvent(body, hdr.Signature)
	if err != nil {
		metrics.WebhooksTotal.WithLabelValues("rejected").Inc()
		return err
	}

	ctx := apiclient.WithRequestID(c.Request().Context(), c.Response().Header().Get(echo.HeaderXRequestID))

	start := time.Now()
	res, err := h.svc.Relay(ctx, ev)
	if err != nil {
		metrics.WebhooksTotal.WithLabelValues("failed").Inc()
		return err
	}

	if res.Status == domain.WebhookDuplicate {
		metrics.WebhooksTotal.WithLabelValues("duplicate").Inc()
		return c.JSON(http.StatusOK, statusResponse{Status: string(domain.WebhookDuplicate)})
	}

	metrics.WebhookForwardDuration.Observe(time.Since(start).Seconds())
	metrics.WebhooksTotal.WithLabelValues("forwarded").Inc()
	if res.Response.IsNull() {
		return c.JSON(http.StatusOK, statusResponse{Status: string(domain.WebhookForwarded)})
	}
	return c.JSON(http.StatusOK, res.Response)
}

package push

//go:generate go run go.uber.org/mock/mockgen -source=./push.go -destination=./mocks/push_mock.go -package=mocks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"rental/config"
	"rental/infras/otel"
	"rental/shared/constant"

	"github.com/rs/zerolog/log"
)

const (
	maxErrorBodyBytes = 512
	otelAttrRecipient = "recipients"
)

// Message is delivered to every device registered by the recipients. Device
// token bookkeeping lives in the gateway.
type Message struct {
	RecipientIDs []string          `json:"recipient_ids"`
	Title        string            `json:"title"`
	Body         string            `json:"body"`
	Data         map[string]string `json:"data,omitempty"`
}

type Push interface {
	Send(ctx context.Context, message Message) error
}

type pushImpl struct {
	client   *http.Client
	endpoint string
	token    string
	otel     otel.Otel
}

func New(cfg *config.Config, otel otel.Otel) Push {
	return &pushImpl{
		client:   &http.Client{Timeout: time.Duration(cfg.External.Push.TimeoutSeconds) * time.Second},
		endpoint: cfg.External.Push.Endpoint,
		token:    cfg.External.Push.AccessToken,
		otel:     otel,
	}
}

func (p *pushImpl) Send(ctx context.Context, message Message) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelPushScopeName, constant.OtelPushScopeName+".Send")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if p.endpoint == constant.Empty {
		log.Debug().Str("title", message.Title).Msg("push endpoint not configured, skipping delivery")

		return nil
	}

	scope.SetAttribute(otelAttrRecipient, message.RecipientIDs)

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal push message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create push request: %w", err)
	}

	req.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)

	if p.token != constant.Empty {
		req.Header.Set(constant.RequestHeaderAuthorization, "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send push request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))

		return fmt.Errorf("push gateway responded %s: %s", resp.Status, string(body))
	}

	return nil
}

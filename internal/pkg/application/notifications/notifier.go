package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

//go:generate moq -rm -out notifier_mock.go . Notifier

type Notifier interface {
	Start() error
	Stop() error

	CubeBuilt(ctx context.Context, b Build)
	BuildFailed(ctx context.Context, b Build)
}

const (
	TypeCubeBuilt   string = "CubeBuilt"
	TypeBuildFailed string = "BuildFailed"
)

// Build summarises the outcome of a single cube build
type Build struct {
	BuildID    string   `json:"buildId"`
	Cube       string   `json:"cube,omitempty"`
	Dataset    string   `json:"dataset,omitempty"`
	Components int      `json:"components,omitempty"`
	CodeLists  []string `json:"codeLists,omitempty"`
	Error      string   `json:"error,omitempty"`
}

type Notification struct {
	Id         string  `json:"id"`
	Type       string  `json:"type"`
	NotifiedAt string  `json:"notifiedAt"`
	Data       []Build `json:"data"`
}

func NewNotification(typ string, b Build) *Notification {
	return &Notification{
		Id:         fmt.Sprintf("urn:csvcube:Notification:%s", uuid.New().String()),
		Type:       typ,
		NotifiedAt: time.Now().UTC().Format(time.RFC3339Nano),
		Data:       []Build{b},
	}
}

var tracer = otel.Tracer("csvcube/notifier")

type action func()

type notifier struct {
	started  bool
	endpoint string

	queue chan action
}

func NewNotifier(ctx context.Context, endpoint string) (Notifier, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("a notification endpoint is required")
	}

	return &notifier{
		endpoint: endpoint,
		queue:    make(chan action, 32),
	}, nil
}

func (n *notifier) Start() error {
	if n.started {
		return fmt.Errorf("already started")
	}

	n.started = true

	go n.run()

	return nil
}

func (n *notifier) Stop() error {
	if n.started {
		// Create a result channel so that we can wait for completion
		resultChan := make(chan bool)

		n.queue <- func() {
			// close the queue to signal the consumers that we are going out of business
			close(n.queue)
			resultChan <- true
		}

		// blocking read until our action has been processed
		<-resultChan
	}
	return nil
}

func (n *notifier) CubeBuilt(ctx context.Context, b Build) {
	n.enqueue(ctx, NewNotification(TypeCubeBuilt, b))
}

func (n *notifier) BuildFailed(ctx context.Context, b Build) {
	n.enqueue(ctx, NewNotification(TypeBuildFailed, b))
}

func (n *notifier) enqueue(ctx context.Context, notification *Notification) {
	if !n.started {
		return
	}

	var err error

	logger := logging.GetFromContext(ctx)

	// keep the trace, but not the cancellation, of the triggering request
	ctx, span := tracer.Start(
		tracing.ExtractHeaders(context.Background(), tracing.InjectHeaders(ctx)),
		"post",
	)

	n.queue <- func() {
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		err = postNotification(ctx, notification, n.endpoint)
		if err != nil {
			logger.Error("failed to post notification", "type", notification.Type, "err", err.Error())
		}
	}
}

func postNotification(ctx context.Context, notification *Notification, endpoint string) error {
	body, err := json.MarshalIndent(notification, "", " ")
	if err != nil {
		return fmt.Errorf("marshalling error (%w)", err)
	}

	httpClient := http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("unable to create new request (%w)", err)
	}

	req.Header.Add("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request (%w)", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("notification endpoint responded with status code %d", resp.StatusCode)
	}

	return nil
}

func (n *notifier) run() {
	// repeat until the queue is closed
	for action := range n.queue {
		if action == nil {
			return
		}

		action()
	}
}

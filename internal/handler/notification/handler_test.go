package notification

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicore/hospital-api/internal/middleware"
	notificationService "github.com/medicore/hospital-api/internal/service/notification"
)

type stubBroker struct {
	ch      chan []byte
	channel string
}

func (b *stubBroker) Publish(_ context.Context, _ string, _ interface{}) error {
	return nil
}

func (b *stubBroker) Subscribe(_ context.Context, channel string) (<-chan []byte, error) {
	b.channel = channel
	return b.ch, nil
}

func (b *stubBroker) Close() error { return nil }

// closeNotifyRecorder adds http.CloseNotifier, which gin's Stream requires
// but httptest.ResponseRecorder does not implement.
type closeNotifyRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func newCloseNotifyRecorder() *closeNotifyRecorder {
	return &closeNotifyRecorder{httptest.NewRecorder(), make(chan bool, 1)}
}

func (r *closeNotifyRecorder) CloseNotify() <-chan bool { return r.closed }

func newTestRouter(t *testing.T, svc *notificationService.Service, userID uuid.UUID) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID.String())
	})
	NewHandler(svc).RegisterRoutes(r.Group("/notifications"))
	return r
}

func TestStreamDeliversPublishedEvents(t *testing.T) {
	log := zerolog.Nop()
	broker := &stubBroker{ch: make(chan []byte, 2)}
	broker.ch <- []byte(`{"type":"appointment.confirmed"}`)
	broker.ch <- []byte(`{"type":"report.finalized"}`)
	close(broker.ch)

	userID := uuid.New()
	svc := notificationService.NewService(broker, &log, nil)
	r := newTestRouter(t, svc, userID)

	w := newCloseNotifyRecorder()
	req := httptest.NewRequest(http.MethodGet, "/notifications/stream", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Contains(t, broker.channel, userID.String())

	body := w.Body.String()
	assert.Contains(t, body, "event:notification")
	assert.Contains(t, body, "appointment.confirmed")
	assert.Contains(t, body, "report.finalized")
}

func TestStreamWithoutBroker(t *testing.T) {
	log := zerolog.Nop()
	svc := notificationService.NewService(nil, &log, nil)
	r := newTestRouter(t, svc, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/notifications/stream", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSubscribeWithoutBrokerReturnsSentinel(t *testing.T) {
	log := zerolog.Nop()
	svc := notificationService.NewService(nil, &log, nil)

	_, err := svc.Subscribe(context.Background(), uuid.New())
	assert.ErrorIs(t, err, notificationService.ErrBrokerUnavailable)
}

package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/folio/internal/config"
	"github.com/khoahotran/folio/internal/domain/view"
	"github.com/khoahotran/folio/pkg/logger"
)

type captureWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *captureWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *captureWriter) Close() error { return nil }

func TestViewPublisher_RoundTrip(t *testing.T) {
	w := &captureWriter{}
	p := &ViewPublisher{writer: w, logger: logger.NewNopLogger()}

	v := view.View{ProfileID: uuid.New(), VisitorID: "1.2.3.4-curl", ViewedAt: time.Now().UTC().Truncate(time.Millisecond)}
	require.NoError(t, p.Record(context.Background(), v))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, v.ProfileID.String(), string(w.msgs[0].Key))

	got, err := DecodeView(w.msgs[0])
	require.NoError(t, err)
	assert.Equal(t, v.ProfileID, got.ProfileID)
	assert.Equal(t, v.VisitorID, got.VisitorID)
	assert.True(t, v.ViewedAt.Equal(got.ViewedAt))
}

func TestViewPublisher_WriteError(t *testing.T) {
	p := &ViewPublisher{writer: &captureWriter{err: errors.New("leader not available")}, logger: logger.NewNopLogger()}
	err := p.Record(context.Background(), view.View{ProfileID: uuid.New(), VisitorID: "v"})
	assert.ErrorContains(t, err, "leader not available")
}

func TestDecodeView_Malformed(t *testing.T) {
	_, err := DecodeView(kafka.Message{Value: []byte("{not json")})
	assert.Error(t, err)
}

func TestNewViewPublisher_RequiresBrokers(t *testing.T) {
	var cfg config.Config
	_, err := NewViewPublisher(cfg, logger.NewNopLogger())
	assert.Error(t, err)
}

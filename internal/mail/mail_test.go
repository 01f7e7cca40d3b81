package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	sl "unsaid_feelings/internal/lib/logger/sl"
	"unsaid_feelings/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeDialer struct {
	err  error
	sent []*gomail.Message
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

func newTestGateway(d sender) *Gateway {
	return &Gateway{dialer: d, from: "bot@example.com", fromName: "Unsaid Feelings"}
}

func TestGatewaySend_Success(t *testing.T) {
	d := &fakeDialer{}
	g := newTestGateway(d)

	res := g.Send(context.Background(), "a@x.com", "Hi", "<p>hello</p>")

	require.True(t, res.Success)
	require.NoError(t, res.Err)
	require.Len(t, d.sent, 1)

	msg := d.sent[0]
	assert.Equal(t, []string{"a@x.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Hi"}, msg.GetHeader("Subject"))
	assert.Contains(t, msg.GetHeader("From")[0], "bot@example.com")

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "text/html")
}

func TestGatewaySend_TransportError(t *testing.T) {
	g := newTestGateway(&fakeDialer{err: errors.New("535 auth failed")})

	res := g.Send(context.Background(), "a@x.com", "Hi", "body")

	assert.False(t, res.Success)
	assert.ErrorContains(t, res.Err, "535 auth failed")
}

func TestGatewaySend_CancelledContext(t *testing.T) {
	d := &fakeDialer{}
	g := newTestGateway(d)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := g.Send(ctx, "a@x.com", "Hi", "body")

	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.Empty(t, d.sent)
}

type panicDialer struct{}

func (panicDialer) DialAndSend(...*gomail.Message) error { panic("boom") }

func TestGatewaySend_NeverPanics(t *testing.T) {
	g := newTestGateway(panicDialer{})

	res := g.Send(context.Background(), "a@x.com", "Hi", "body")

	assert.False(t, res.Success)
	assert.ErrorContains(t, res.Err, "boom")
}

func TestTemplates(t *testing.T) {
	body, err := VerificationBody("<ann>", "http://localhost:5000/api/users/verify?token=abc")
	require.NoError(t, err)
	assert.Contains(t, body, "Hello &lt;ann&gt;,")
	assert.Contains(t, body, `href="http://localhost:5000/api/users/verify?token=abc"`)

	body, err = AccountDeletedBody("ann")
	require.NoError(t, err)
	assert.Contains(t, body, "Your account has been deleted")

	body, err = ForgotPasswordBody("http://localhost:3000/reset-password?token=t")
	require.NoError(t, err)
	assert.Contains(t, body, "This link expires in 15 minutes.")

	body, err = RequestResetBody("http://localhost:3000/reset-password/t")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(body, "http://localhost:3000/reset-password/t"))

	body, err = TestBody()
	require.NoError(t, err)
	assert.NotEmpty(t, body)
}

type fakeSender struct {
	mu   sync.Mutex
	res  Result
	sent []models.Message
	ctx  []context.Context
}

func (f *fakeSender) Send(ctx context.Context, to, subject, htmlBody string) Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sent = append(f.sent, models.Message{Email: to, Subject: subject, HTML: htmlBody})
	f.ctx = append(f.ctx, ctx)

	return f.res
}

func TestAsyncDispatcher_OutlivesRequestContext(t *testing.T) {
	s := &fakeSender{res: Result{Success: true}}
	d := NewAsyncDispatcher(sl.Discard(), s, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	d.Dispatch(ctx, models.Message{Email: "a@x.com", Subject: "S", HTML: "B"})
	cancel()
	d.Wait()

	require.Len(t, s.sent, 1)
	assert.Equal(t, "a@x.com", s.sent[0].Email)
	assert.NoError(t, s.ctx[0].Err())
}

func TestAsyncDispatcher_FailureIsSwallowed(t *testing.T) {
	s := &fakeSender{res: Result{Err: errors.New("smtp down")}}
	d := NewAsyncDispatcher(sl.Discard(), s, time.Second)

	d.Dispatch(context.Background(), models.Message{Email: "a@x.com"})
	d.Wait()

	assert.Len(t, s.sent, 1)
}

type fakePublisher struct {
	err  error
	msgs []models.Message
}

func (f *fakePublisher) SendMessage(_ context.Context, msg models.Message) error {
	f.msgs = append(f.msgs, msg)
	return f.err
}

func TestQueueDispatcher(t *testing.T) {
	p := &fakePublisher{}
	d := NewQueueDispatcher(sl.Discard(), p)

	d.Dispatch(context.Background(), models.Message{Email: "a@x.com", Subject: "S"})

	require.Len(t, p.msgs, 1)
	assert.Equal(t, "S", p.msgs[0].Subject)

	p.err = errors.New("channel closed")
	assert.NotPanics(t, func() {
		d.Dispatch(context.Background(), models.Message{Email: "b@x.com"})
	})
}

func TestQueueHandler(t *testing.T) {
	s := &fakeSender{res: Result{Success: true}}
	h := QueueHandler(sl.Discard(), s)

	body, err := json.Marshal(models.Message{ID: "1", Email: "a@x.com", Subject: "S", HTML: "<p>x</p>"})
	require.NoError(t, err)

	require.NoError(t, h(context.Background(), body))
	require.Len(t, s.sent, 1)
	assert.Equal(t, "<p>x</p>", s.sent[0].HTML)

	assert.Error(t, h(context.Background(), []byte("{not json")))

	s.res = Result{Err: errors.New("smtp down")}
	assert.Error(t, h(context.Background(), body))
}

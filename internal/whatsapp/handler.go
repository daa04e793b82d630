package whatsapp

import (
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const maxWebhookBody = 1 << 20

type Handler struct {
	svc         Service
	appSecret   string
	verifyToken string
	log         *zap.Logger
	now         func() time.Time
}

func NewHandler(svc Service, appSecret, verifyToken string, log *zap.Logger) *Handler {
	h := &Handler{
		svc:         svc,
		appSecret:   appSecret,
		verifyToken: verifyToken,
		log:         log.Named("webhook"),
		now:         time.Now,
	}
	if appSecret == "" {
		h.log.Warn("app secret not set, webhook signatures are NOT verified")
	}
	if verifyToken == "" {
		h.log.Warn("verify token not set, subscription handshake will be refused")
	}
	return h
}

// Verify answers the GET subscription handshake.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode := firstOf(q.Get("hub.mode"), q.Get("mode"))
	token := firstOf(q.Get("hub.verify_token"), q.Get("verify_token"))
	challenge := firstOf(q.Get("hub.challenge"), q.Get("challenge"))

	if !VerifyChallenge(mode, token, h.verifyToken) {
		h.log.Warn("webhook verification failed", zap.String("mode", mode))
		w.WriteHeader(http.StatusForbidden)
		return
	}

	h.log.Info("webhook verified")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(challenge))
}

// Receive accepts an event notification. Once the signature checks out the
// provider always gets 200; messages are processed after the ack.
func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if !VerifySignature(h.appSecret, body, r.Header.Get(SignatureHeader)) {
		h.log.Warn("signature mismatch", zap.String("remote", r.RemoteAddr))
		http.Error(w, "unauthorized", http.StatusForbidden)
		return
	}

	msgs, err := ParseWebhook(body, h.now())
	if err != nil {
		h.log.Warn("unparseable webhook", zap.Error(err))
	}
	if len(msgs) == 0 {
		h.log.Debug("no actionable message in webhook")
	}

	for _, m := range msgs {
		h.svc.Dispatch(m)
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func firstOf(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

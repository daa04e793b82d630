package whatsapp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vovarama1992/whatsapp-health-bot/internal/language"
)

const textWebhook = `{
  "object": "whatsapp_business_account",
  "entry": [{
    "id": "WABA",
    "changes": [{
      "field": "messages",
      "value": {
        "messaging_product": "whatsapp",
        "contacts": [{"wa_id": "919000000001", "profile": {"name": "Asha"}}],
        "messages": [{
          "id": "wamid.1",
          "from": "919000000001",
          "timestamp": "1700000000",
          "type": "text",
          "text": {"body": "  बुखार क्या है  "}
        }]
      }
    }]
  }]
}`

func TestParseWebhookText(t *testing.T) {
	now := time.Now()
	msgs, err := ParseWebhook([]byte(textWebhook), now)
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	m := msgs[0]
	assert.Equal(t, "wamid.1", m.ID)
	assert.Equal(t, "919000000001", m.SenderID)
	assert.Equal(t, "Asha", m.SenderName)
	assert.Equal(t, "बुखार क्या है", m.Text)
	assert.Equal(t, language.Hindi, m.Language)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), m.ReceivedAt)
}

func TestParseWebhookNonActionable(t *testing.T) {
	cases := map[string]string{
		"status callback": `{"entry":[{"changes":[{"value":{"statuses":[{"id":"wamid.1","status":"read"}]}}]}]}`,
		"image message":   `{"entry":[{"changes":[{"value":{"messages":[{"id":"m","from":"1","type":"image"}]}}]}]}`,
		"blank text":      `{"entry":[{"changes":[{"value":{"messages":[{"id":"m","from":"1","type":"text","text":{"body":"   "}}]}}]}]}`,
		"no entry":        `{"object":"whatsapp_business_account"}`,
		"empty object":    `{}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			msgs, err := ParseWebhook([]byte(body), time.Now())
			require.NoError(t, err)
			assert.Empty(t, msgs)
		})
	}
}

func TestParseWebhookBatch(t *testing.T) {
	body := `{"entry":[
	  {"changes":[{"value":{"messages":[
	    {"id":"a","from":"1","type":"text","text":{"body":"flu"}},
	    {"id":"b","from":"2","type":"sticker"}
	  ]}}]},
	  {"changes":[{"value":{"messages":[{"id":"c","from":"3","type":"text","text":{"body":"ଜ୍ୱର"}}]}}]}
	]}`
	now := time.Unix(42, 0)
	msgs, err := ParseWebhook([]byte(body), now)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "a", msgs[0].ID)
	assert.Equal(t, now, msgs[0].ReceivedAt)
	assert.Equal(t, language.Oriya, msgs[1].Language)
}

func TestParseWebhookMalformed(t *testing.T) {
	_, err := ParseWebhook([]byte("{oops"), time.Now())
	assert.Error(t, err)
}

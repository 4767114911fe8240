package emailsvc

import (
	"bytes"
	"log"
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tafakari/core"
	logsvc "github.com/trezcool/tafakari/services/logger"
)

func testConf() *core.Config {
	return &core.Config{AppName: "Tafakari", Env: "TEST", TestMode: true, DefaultFromEmail: "noreply@tafakari.test"}
}

func TestConsoleService_SendMessages(t *testing.T) {
	conf := testConf()
	svc := NewConsoleServiceMock(conf, logsvc.NewRollbarLogger(log.New(new(bytes.Buffer), "", 0), conf))

	svc.SendMessages(
		&core.EmailMessage{
			To:           []mail.Address{{Name: "Amani", Address: "amani@example.com"}},
			Subject:      "New feedback on your reflection",
			TemplateName: "feedback_published",
			TemplateData: map[string]interface{}{
				"StudentName":    "Amani",
				"ReflectionDate": "Mon, Jan 5 2026",
				"Feedback":       "Great progress <3",
			},
		},
		&core.EmailMessage{Subject: "no recipients", BodyStr: "dropped"},
		&core.EmailMessage{To: []mail.Address{{Address: "x@example.com"}}, Subject: "no content"},
	)

	sent := svc.SentMessages()
	require.Len(t, sent, 1)
	msg := sent[0]
	assert.Contains(t, msg.TextContent, "Hi Amani,")
	assert.Contains(t, msg.TextContent, "Great progress <3")
	assert.Contains(t, msg.TextContent, "Sent by Tafakari")
	assert.Contains(t, msg.HTMLContent, "Great progress &lt;3")
	assert.Contains(t, msg.HTMLContent, "<strong>Mon, Jan 5 2026</strong>")
}

func TestConsoleService_format(t *testing.T) {
	conf := testConf()
	var out bytes.Buffer
	svc := NewConsoleService(conf, logsvc.NewRollbarLogger(log.New(new(bytes.Buffer), "", 0), conf))
	svc.out = &out
	svc.sync = true

	svc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: "Baraka", Address: "baraka@example.com"}},
		Subject: "Hello",
		BodyStr: "plain body",
	})

	got := out.String()
	assert.Contains(t, got, "Subject: [Tafakari] Hello\r\n")
	assert.Contains(t, got, `To: "Baraka" <baraka@example.com>`)
	assert.Contains(t, got, "From: \"Tafakari\" <noreply@tafakari.test>")
	assert.Contains(t, got, "plain body")
	assert.NotContains(t, got, "text/html")
}

func TestRender_missingTemplateData(t *testing.T) {
	msg := &core.EmailMessage{
		To:           []mail.Address{{Address: "amani@example.com"}},
		TemplateName: "feedback_published",
		TemplateData: map[string]interface{}{"StudentName": "Amani"},
	}
	assert.Error(t, msg.Render("Tafakari"))
}

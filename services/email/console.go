package emailsvc

import (
	"fmt"
	"io"
	"log"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/kmande/chuo/core"
)

// SentMessages records every message the console service accepted, in order.
// Test suites inspect (and reset) it.
var (
	SentMessages = make([]core.EmailMessage, 0)
	mu           sync.Mutex
)

// consoleService "sends" mail by printing it to the process log. It stands in
// for the sendgrid service in development and in tests.
type consoleService struct {
	defaultFromEmail mail.Address
	subjPrefix       string
	disableOutput    bool
}

var _ core.EmailService = (*consoleService)(nil)

func NewConsoleService(conf *core.Config) core.EmailService {
	return &consoleService{
		defaultFromEmail: conf.DefaultFromEmail,
		subjPrefix:       "[" + conf.AppName + "] ",
	}
}

func (svc consoleService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		go svc.sendMessage(msg)
	}
}

func (svc consoleService) sendMessage(msg *core.EmailMessage) {
	if err := msg.Render(); err != nil {
		log.Printf("rendering email: %v", err)
		return
	}
	if !msg.HasRecipients() || !msg.HasContent() {
		return
	}
	svc.print(*msg)
	mu.Lock()
	SentMessages = append(SentMessages, *msg)
	mu.Unlock()
}

func (svc consoleService) print(msg core.EmailMessage) {
	if svc.disableOutput {
		return
	}

	out := new(strings.Builder)
	fmt.Fprintf(out, "From: %s\n", svc.defaultFromEmail.String())
	fmt.Fprintf(out, "Date: %s\n", time.Now().Format(time.RFC1123Z))
	fmt.Fprintf(out, "Subject: %s\n", svc.subjPrefix+msg.Subject)
	writeAddressHeader(out, "To", msg.To)
	writeAddressHeader(out, "CC", msg.Cc)
	writeAddressHeader(out, "BCC", msg.Bcc)
	fmt.Fprintf(out, "\n%s\n", msg.TextContent)
	log.Println(out.String())
}

func writeAddressHeader(w io.Writer, name string, addrs []mail.Address) {
	if len(addrs) == 0 {
		return
	}
	joined := make([]string, 0, len(addrs))
	for _, a := range addrs {
		joined = append(joined, a.String())
	}
	_, _ = fmt.Fprintf(w, "%s: %s\n", name, strings.Join(joined, ", "))
}

// consoleServiceMock is the test double: output silenced, sends synchronous so
// assertions on SentMessages never race the handler.
type consoleServiceMock struct {
	consoleService
}

func NewConsoleServiceMock(conf *core.Config) core.EmailService {
	return &consoleServiceMock{
		consoleService: consoleService{
			defaultFromEmail: conf.DefaultFromEmail,
			subjPrefix:       "[" + conf.AppName + "] ",
			disableOutput:    true,
		},
	}
}

func (svc *consoleServiceMock) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		svc.sendMessage(msg)
	}
}

package mail

import (
	"github.com/Shkitskiy94/hw05-final/config"

	log "github.com/sirupsen/logrus"
)

type Message struct {
	To      string
	ToName  string
	Subject string
	HTML    string
	Text    string
}

type Sender interface {
	Send(msg Message) error
}

var defaultSender Sender = &FileSender{}

// Init selects SendGrid when an API key is configured and falls back to
// writing messages into MAIL_DIR.
func Init() {
	if config.SENDGRID_API_KEY != "" {
		defaultSender = NewSendgridSender(config.SENDGRID_API_KEY, config.MAIL_FROM)
		log.Info("Sending email through SendGrid")
		return
	}
	defaultSender = &FileSender{Dir: config.MAIL_DIR, From: config.MAIL_FROM}
	log.WithField("dir", config.MAIL_DIR).Info("Writing email to files")
}

func Default() Sender {
	return defaultSender
}

func SetDefault(s Sender) {
	defaultSender = s
}

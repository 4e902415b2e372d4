package mail

import (
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// FileSender writes each message as a multipart .eml file into Dir. With
// an empty Dir the message is only logged.
type FileSender struct {
	Dir  string
	From string
}

func (s *FileSender) Send(msg Message) error {
	if s.Dir == "" {
		log.WithFields(log.Fields{"to": msg.To, "subject": msg.Subject}).Info(msg.Text)
		return nil
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return err
	}
	name := fmt.Sprintf("%s-%d.eml", time.Now().UTC().Format("20060102-150405"), time.Now().UnixNano())
	file, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return err
	}
	defer file.Close()

	w := multipart.NewWriter(file)
	fmt.Fprintf(file, "From: %s\r\nTo: %s\r\nSubject: %s\r\nDate: %s\r\nMIME-Version: 1.0\r\nContent-Type: multipart/alternative; boundary=%s\r\n\r\n",
		s.From, msg.To, msg.Subject, time.Now().UTC().Format(time.RFC1123Z), w.Boundary())
	for _, part := range []struct{ contentType, body string }{
		{"text/plain; charset=utf-8", msg.Text},
		{"text/html; charset=utf-8", msg.HTML},
	} {
		if part.body == "" {
			continue
		}
		pw, err := w.CreatePart(textproto.MIMEHeader{"Content-Type": {part.contentType}})
		if err != nil {
			return err
		}
		if _, err = pw.Write([]byte(strings.ReplaceAll(part.body, "\r\n", "\n"))); err != nil {
			return err
		}
	}
	return w.Close()
}

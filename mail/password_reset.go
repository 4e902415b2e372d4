package mail

import (
	"github.com/matcornic/hermes/v2"
)

func newHermes(siteURL string) hermes.Hermes {
	return hermes.Hermes{
		Product: hermes.Product{
			Name:      "Yatube",
			Link:      siteURL,
			Copyright: "Yatube, a place for your posts.",
		},
	}
}

// PasswordResetMessage builds the email with the reset link for username.
func PasswordResetMessage(siteURL, username, email, link string) (Message, error) {
	h := newHermes(siteURL)
	body := hermes.Email{
		Body: hermes.Body{
			Name: username,
			Intros: []string{
				"You're receiving this email because you requested a password reset for your user account at Yatube.",
			},
			Actions: []hermes.Action{
				{
					Instructions: "Please go to the following page and choose a new password:",
					Button: hermes.Button{
						Color: "#22BC66",
						Text:  "Reset your password",
						Link:  link,
					},
				},
			},
			Outros: []string{
				"Your username, in case you've forgotten: " + username,
				"If you did not request a password reset, no further action is required.",
			},
		},
	}
	html, err := h.GenerateHTML(body)
	if err != nil {
		return Message{}, err
	}
	text, err := h.GeneratePlainText(body)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      email,
		ToName:  username,
		Subject: "Password reset on Yatube",
		HTML:    html,
		Text:    text,
	}, nil
}

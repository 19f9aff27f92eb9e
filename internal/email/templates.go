package email

import (
	"bytes"
	"fmt"
	"html/template"
	texttpl "text/template"
)

// Plantillas embebidas por defecto. El copy de verificación y el de reset
// difieren aunque el mecanismo de OTP sea el mismo.

type OTPVars struct {
	FullName string
	Code     string
	TTL      string
}

const (
	verifySubject = "Your verification code"
	resetSubject  = "Your password reset code"

	verifyHTMLSrc = `<p>Hi {{.FullName}},</p>
<p>Your verification code is <b>{{.Code}}</b>. It expires in {{.TTL}}.</p>
<p>If you did not create an account, you can ignore this email.</p>`

	verifyTextSrc = `Hi {{.FullName}},

Your verification code is {{.Code}}. It expires in {{.TTL}}.

If you did not create an account, you can ignore this email.`

	resetHTMLSrc = `<p>Hi {{.FullName}},</p>
<p>Use code <b>{{.Code}}</b> to reset your password. It expires in {{.TTL}}.</p>
<p>If you did not request a reset, you can ignore this email.</p>`

	resetTextSrc = `Hi {{.FullName}},

Use code {{.Code}} to reset your password. It expires in {{.TTL}}.

If you did not request a reset, you can ignore this email.`
)

type Templates struct {
	verifyHTML *template.Template
	verifyText *texttpl.Template
	resetHTML  *template.Template
	resetText  *texttpl.Template
}

func NewTemplates() *Templates {
	return &Templates{
		verifyHTML: template.Must(template.New("verify_html").Parse(verifyHTMLSrc)),
		verifyText: texttpl.Must(texttpl.New("verify_txt").Parse(verifyTextSrc)),
		resetHTML:  template.Must(template.New("reset_html").Parse(resetHTMLSrc)),
		resetText:  texttpl.Must(texttpl.New("reset_txt").Parse(resetTextSrc)),
	}
}

func (t *Templates) render(html *template.Template, text *texttpl.Template, vars OTPVars) (string, string, error) {
	var hb, tb bytes.Buffer
	if err := html.Execute(&hb, vars); err != nil {
		return "", "", fmt.Errorf("email: render html: %w", err)
	}
	if err := text.Execute(&tb, vars); err != nil {
		return "", "", fmt.Errorf("email: render text: %w", err)
	}
	return hb.String(), tb.String(), nil
}

// SendVerification manda el OTP de verificación de cuenta.
func SendVerification(s Sender, t *Templates, to string, vars OTPVars) error {
	htmlBody, textBody, err := t.render(t.verifyHTML, t.verifyText, vars)
	if err != nil {
		return err
	}
	return s.Send(to, verifySubject, htmlBody, textBody)
}

// SendReset manda el OTP de reseteo de password.
func SendReset(s Sender, t *Templates, to string, vars OTPVars) error {
	htmlBody, textBody, err := t.render(t.resetHTML, t.resetText, vars)
	if err != nil {
		return err
	}
	return s.Send(to, resetSubject, htmlBody, textBody)
}

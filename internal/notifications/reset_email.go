package notifications

import (
	"context"
	"fmt"
	"html"
)

const resetEmailSubject = "Redefinição de Senha - DoeFood"

// ResetLinkSender envia o link de redefinição de senha. Não faz retentativas.
type ResetLinkSender struct {
	notifier EmailNotifier
}

func NewResetLinkSender(notifier EmailNotifier) *ResetLinkSender {
	return &ResetLinkSender{notifier: notifier}
}

func (s *ResetLinkSender) SendResetLink(ctx context.Context, email, link string) error {
	bodyText := fmt.Sprintf("Clique no link para redefinir sua senha: %s", link)
	bodyHTML := fmt.Sprintf(`<p>Você solicitou a redefinição de senha. Clique no link abaixo:</p>
<a href="%s">Redefinir Senha</a>
<p>Se não foi você, ignore este e-mail.</p>`, html.EscapeString(link))

	return s.notifier.SendEmail(ctx, email, resetEmailSubject, bodyHTML, bodyText)
}
